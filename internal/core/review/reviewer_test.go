package review

import (
	"context"
	"errors"
	"testing"

	"github.com/agenthands/linkage/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func borderline() (model.Record, model.ExistingRecord, model.Assessment) {
	candidate := model.Record{"company": "Acme Holdings", "email": "jo@acme.com"}
	existing := model.ExistingRecord{
		ID:     "rec-1",
		Fields: model.Record{"company": "Acme Inc.", "phone": "555-0100"},
	}
	a := model.Assessment{
		Matches: []model.MatchResult{
			{RecordID: "rec-1", Score: 0.75, Field: "company", MatchedValue: "Acme Inc.", CandidateValue: "Acme Holdings"},
			{RecordID: "rec-2", Score: 0.9, Field: "email", MatchedValue: "x@acme.com", CandidateValue: "jo@acme.com"},
		},
		Confidence: 0.55,
		RecordID:   "rec-1",
		Action:     model.ActionReview,
	}
	return candidate, existing, a
}

func TestReview(t *testing.T) {
	// Scenario: the model answers inside a fenced block with extra prose
	mockLLM := &MockLLMClient{
		Response: "Sure.\n```json\n{\"same_entity\": true, \"confidence\": 0.82, \"reasoning\": \" Same company. \"}\n```",
	}
	reviewer := NewReviewer(mockLLM, "")
	candidate, existing, a := borderline()

	verdict, err := reviewer.Review(context.Background(), candidate, existing, a)

	require.NoError(t, err)
	assert.Equal(t, "rec-1", verdict.RecordID)
	assert.True(t, verdict.SameEntity)
	assert.InDelta(t, 0.82, verdict.Confidence, 1e-9)
	assert.Equal(t, "Same company.", verdict.Reasoning)

	// Only evidence for the reviewed record reaches the prompt
	assert.Contains(t, mockLLM.LastPrompt, "- company: Acme Holdings")
	assert.Contains(t, mockLLM.LastPrompt, "- phone: 555-0100")
	assert.Contains(t, mockLLM.LastPrompt, `"Acme Holdings" vs "Acme Inc." (similarity 0.75)`)
	assert.NotContains(t, mockLLM.LastPrompt, "x@acme.com")
}

func TestReviewClampsConfidence(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"same_entity": false, "confidence": 7}`}
	candidate, existing, a := borderline()

	verdict, err := NewReviewer(mockLLM, "").Review(context.Background(), candidate, existing, a)

	require.NoError(t, err)
	assert.False(t, verdict.SameEntity)
	assert.Equal(t, 1.0, verdict.Confidence)
}

func TestReviewErrors(t *testing.T) {
	candidate, existing, a := borderline()

	_, err := NewReviewer(&MockLLMClient{Err: errors.New("quota")}, "").Review(context.Background(), candidate, existing, a)
	assert.ErrorContains(t, err, "quota")

	_, err = NewReviewer(&MockLLMClient{Response: "no idea"}, "").Review(context.Background(), candidate, existing, a)
	assert.ErrorContains(t, err, "failed to parse review")
}

func TestCustomPrompt(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"same_entity": true, "confidence": 0.6}`}
	candidate, existing, a := borderline()

	_, err := NewReviewer(mockLLM, "A=%s|B=%s|E=%s").Review(context.Background(), candidate, existing, a)

	require.NoError(t, err)
	assert.Equal(t, "A=- company: Acme Holdings\n- email: jo@acme.com\n|B=- company: Acme Inc.\n- phone: 555-0100\n|E=- company: \"Acme Holdings\" vs \"Acme Inc.\" (similarity 0.75)\n", mockLLM.LastPrompt)
}
