// Package review asks a language model for a second opinion on borderline
// duplicate assessments. Verdicts are advisory and never change confidence.
package review

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agenthands/linkage/internal/core/common"
	"github.com/agenthands/linkage/internal/core/model"
	"github.com/agenthands/linkage/internal/llm"
)

// System is the instruction sent with every review prompt.
const System = "You compare CRM records (leads, contacts, companies) and decide whether two records describe the same real-world entity. Answer with JSON only."

// DefaultPrompt takes the candidate record, the existing record and the field
// evidence, in that order.
const DefaultPrompt = `<CANDIDATE RECORD>
%s
</CANDIDATE RECORD>

<EXISTING RECORD>
%s
</EXISTING RECORD>

<FIELD EVIDENCE>
%s
</FIELD EVIDENCE>

Instructions:
Decide whether the CANDIDATE RECORD and the EXISTING RECORD describe the same person or company.
Spelling variants, abbreviations and legal suffixes (Inc, Ltd, GmbH) do not make records different.
A shared email domain alone is weak evidence.
Return a JSON object with "same_entity" (bool), "confidence" (float between 0 and 1) and "reasoning" (one sentence).

Example JSON:
{"same_entity": true, "confidence": 0.9, "reasoning": "Same company name and phone number."}
`

type Reviewer struct {
	LLM    llm.LLMClient
	Prompt string
}

func NewReviewer(llmClient llm.LLMClient, prompt string) *Reviewer {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return &Reviewer{
		LLM:    llmClient,
		Prompt: prompt,
	}
}

type verdict struct {
	SameEntity bool    `json:"same_entity"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Review judges candidate against the existing record the assessment picked.
func (r *Reviewer) Review(ctx context.Context, candidate model.Record, existing model.ExistingRecord, a model.Assessment) (*model.ReviewVerdict, error) {
	prompt := fmt.Sprintf(r.Prompt,
		serializeRecord(candidate),
		serializeRecord(existing.Fields),
		serializeEvidence(existing.ID, a.Matches),
	)

	response, err := r.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate review: %w", err)
	}

	v, err := common.ParseJSON[verdict](response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse review: %w", err)
	}

	conf := v.Confidence
	if conf < 0 {
		conf = 0
	} else if conf > 1 {
		conf = 1
	}
	return &model.ReviewVerdict{
		RecordID:   existing.ID,
		SameEntity: v.SameEntity,
		Confidence: conf,
		Reasoning:  strings.TrimSpace(v.Reasoning),
	}, nil
}

// serializeRecord lists the string fields of r in key order.
func serializeRecord(r model.Record) string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if v, ok := r.String(k); ok {
			fmt.Fprintf(&b, "- %s: %s\n", k, v)
		}
	}
	return b.String()
}

func serializeEvidence(recordID string, matches []model.MatchResult) string {
	var b strings.Builder
	for _, m := range matches {
		if m.RecordID != recordID {
			continue
		}
		fmt.Fprintf(&b, "- %s: %q vs %q (similarity %.2f)\n", m.Field, m.CandidateValue, m.MatchedValue, m.Score)
	}
	if b.Len() == 0 {
		return "- none\n"
	}
	return b.String()
}
