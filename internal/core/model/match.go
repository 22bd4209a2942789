package model

import "strings"

// FieldKind selects how a field is normalized and compared.
type FieldKind string

const (
	KindName    FieldKind = "name"    // person or company names, compared across variations
	KindEmail   FieldKind = "email"   // compared by domain
	KindPhone   FieldKind = "phone"   // compared by digits
	KindGeneric FieldKind = "generic" // direct comparison
)

// ParseKind maps a configured kind string to a FieldKind.
func ParseKind(s string) (FieldKind, bool) {
	switch FieldKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindName:
		return KindName, true
	case KindEmail:
		return KindEmail, true
	case KindPhone:
		return KindPhone, true
	case KindGeneric:
		return KindGeneric, true
	}
	return "", false
}

// InferKind guesses a kind from a bare field name. Callers that know the kind
// should set it on the FieldSpec instead.
func InferKind(field string) FieldKind {
	f := strings.ToLower(field)
	switch {
	case strings.Contains(f, "email"):
		return KindEmail
	case strings.Contains(f, "phone"):
		return KindPhone
	case strings.Contains(f, "name"), strings.Contains(f, "company"):
		return KindName
	}
	return KindGeneric
}

// FieldSpec is one configured field to compare.
type FieldSpec struct {
	Name      string    `json:"name" toml:"name"`
	Kind      FieldKind `json:"kind" toml:"kind"`
	Algorithm string    `json:"algorithm,omitempty" toml:"algorithm"`
}

// Fields builds specs from bare names using InferKind.
func Fields(names ...string) []FieldSpec {
	specs := make([]FieldSpec, len(names))
	for i, n := range names {
		specs[i] = FieldSpec{Name: n, Kind: InferKind(n)}
	}
	return specs
}

const DefaultThreshold = 0.7

// MatchOptions controls a FieldMatcher run.
type MatchOptions struct {
	Threshold float64     `json:"threshold"`
	Fields    []FieldSpec `json:"fields"`
	Normalize bool        `json:"normalize"`
}

func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		Threshold: DefaultThreshold,
		Fields: []FieldSpec{
			{Name: "name", Kind: KindName},
			{Name: "company", Kind: KindName},
			{Name: "email", Kind: KindEmail},
			{Name: "phone", Kind: KindPhone},
		},
		Normalize: true,
	}
}

// MatchResult is one field of one existing record that scored at or above the
// threshold.
type MatchResult struct {
	RecordID       string  `json:"record_id"`
	Score          float64 `json:"score"`
	Field          string  `json:"field"`
	MatchedValue   string  `json:"matched_value"`
	CandidateValue string  `json:"candidate_value"`
}

// Action is what calling code should do with a candidate.
type Action string

const (
	ActionCreate Action = "create" // no evidence of a duplicate
	ActionReview Action = "review" // partial evidence, ask a human
	ActionMerge  Action = "merge"  // confident duplicate
)

type RecordConfidence struct {
	RecordID      string  `json:"record_id"`
	Confidence    float64 `json:"confidence"`
	AverageScore  float64 `json:"average_score"`
	FieldCoverage int     `json:"field_coverage"`
}

// Assessment is the duplicate decision for one candidate. RecordID and
// Confidence describe the best-scoring existing record.
type Assessment struct {
	IsDuplicate bool               `json:"is_duplicate"`
	Matches     []MatchResult      `json:"matches"`
	Confidence  float64            `json:"confidence"`
	RecordID    string             `json:"record_id,omitempty"`
	Action      Action             `json:"action"`
	Records     []RecordConfidence `json:"records,omitempty"`
}
