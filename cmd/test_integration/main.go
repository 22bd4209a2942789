package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("LINKAGE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting smoke test...")

	fmt.Println("1. Health...")
	if _, ok := sendRequest(baseURL, "GET", "/healthz", nil); !ok {
		fmt.Println("FAILED: Health")
		os.Exit(1)
	}
	fmt.Println("PASSED: Health")

	existing := []map[string]any{
		{"id": "rec-1", "fields": map[string]any{"company": "Acme Inc.", "phone": "+1 (555) 123-4567"}},
		{"id": "rec-2", "fields": map[string]any{"company": "Globex Corporation", "email": "info@globex.com"}},
	}

	fmt.Println("2. Assess...")
	body, ok := sendRequest(baseURL, "POST", "/assess", map[string]any{
		"candidate": map[string]any{"company": "ACME Incorporated", "phone": "+1 555 123 4567"},
		"records":   existing,
	})
	if !ok {
		fmt.Println("FAILED: Assess")
		os.Exit(1)
	}
	var report struct {
		Assessment struct {
			IsDuplicate bool   `json:"is_duplicate"`
			RecordID    string `json:"record_id"`
			Action      string `json:"action"`
		} `json:"assessment"`
	}
	if err := json.Unmarshal(body, &report); err != nil || !report.Assessment.IsDuplicate || report.Assessment.RecordID != "rec-1" {
		fmt.Printf("FAILED: Assess returned %s\n", string(body))
		os.Exit(1)
	}
	fmt.Printf("PASSED: Assess (%s %s)\n", report.Assessment.Action, report.Assessment.RecordID)

	fmt.Println("3. Merge...")
	if _, ok := sendRequest(baseURL, "POST", "/merge", map[string]any{
		"primary":   map[string]any{"company": "Acme Inc.", "email": "", "tags": []string{"vip"}},
		"secondary": map[string]any{"company": "ACME", "email": "sales@acme.com", "tags": []string{"lead"}},
	}); !ok {
		fmt.Println("FAILED: Merge")
		os.Exit(1)
	}
	fmt.Println("PASSED: Merge")

	fmt.Println("4. Cluster...")
	if _, ok := sendRequest(baseURL, "POST", "/cluster", map[string]any{
		"records": append(existing, map[string]any{
			"id": "rec-3", "fields": map[string]any{"company": "ACME Incorporated", "phone": "1-555-123-4567"},
		}),
	}); !ok {
		fmt.Println("FAILED: Cluster")
		os.Exit(1)
	}
	fmt.Println("PASSED: Cluster")
}

func sendRequest(baseURL, method, endpoint string, payload interface{}) ([]byte, bool) {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return respBody, false
	}

	fmt.Printf("Response: %s\n", string(respBody))
	return respBody, true
}
