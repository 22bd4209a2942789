package model

import (
	"strings"
)

// Record maps field names to values. Only non-blank strings count as evidence
// when matching; any other value type is treated as absent.
type Record map[string]any

// String returns the trimmed string value of field, or false when the field is
// missing, blank or not a string.
func (r Record) String(field string) (string, bool) {
	v, ok := r[field]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// Lookup resolves field through its aliases in fixed precedence:
// field, client_<field>, contact_<field>. The first non-blank string wins.
func (r Record) Lookup(field string) (string, bool) {
	for _, key := range Aliases(field) {
		if s, ok := r.String(key); ok {
			return s, true
		}
	}
	return "", false
}

// Aliases lists the keys tried for field, in precedence order.
func Aliases(field string) []string {
	return []string{field, "client_" + field, "contact_" + field}
}

// Clone returns a copy of r. Slices and nested maps are copied too.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue copies the container types a decoded record can hold.
func CloneValue(v any) any {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	case map[string]any:
		return map[string]any(Record(t).Clone())
	case Record:
		return t.Clone()
	default:
		return v
	}
}

// ExistingRecord is a stored record with its opaque identifier.
type ExistingRecord struct {
	ID     string `json:"id"`
	Fields Record `json:"fields"`
}
