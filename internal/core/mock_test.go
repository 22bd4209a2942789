package core

import (
	"context"
	"sync"

	"github.com/agenthands/linkage/internal/core/model"
	"github.com/agenthands/linkage/internal/driver"
)

type MockSource struct {
	Records []model.ExistingRecord
	Err     error
	Scopes  []driver.Scope
}

func (m *MockSource) LoadRecords(ctx context.Context, scope driver.Scope) ([]model.ExistingRecord, error) {
	m.Scopes = append(m.Scopes, scope)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Records, nil
}

type MockLLM struct {
	mu       sync.Mutex
	Response string
	Err      error
	Calls    int
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
