// Package merge combines two records already judged to be duplicates.
package merge

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/agenthands/linkage/internal/core/model"
)

var DefaultCollectionFields = []string{"tags", "categories", "labels"}

const DefaultTimestampField = "updated_at"

type Merger struct {
	collections    map[string]struct{}
	timestampField string
	now            func() time.Time
}

type Option func(*Merger)

// WithCollectionFields replaces the fields merged as a set union.
func WithCollectionFields(fields ...string) Option {
	return func(m *Merger) {
		m.collections = make(map[string]struct{}, len(fields))
		for _, f := range fields {
			m.collections[f] = struct{}{}
		}
	}
}

func WithTimestampField(field string) Option {
	return func(m *Merger) {
		if field != "" {
			m.timestampField = field
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Merger) {
		if now != nil {
			m.now = now
		}
	}
}

func NewMerger(opts ...Option) *Merger {
	m := &Merger{
		timestampField: DefaultTimestampField,
		now:            time.Now,
	}
	WithCollectionFields(DefaultCollectionFields...)(m)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge starts from a copy of primary and folds in secondary: missing or empty
// primary fields take secondary's value; when preferPrimary is false differing
// values are overwritten by secondary. Collection fields holding slices on both
// sides become an order-preserving union. The timestamp field is stamped with
// the current time. Neither input is modified.
func (m *Merger) Merge(primary, secondary model.Record, preferPrimary bool) model.Record {
	out := primary.Clone()

	for field, sv := range secondary {
		if field == m.timestampField {
			continue
		}
		pv, present := out[field]

		if _, isCollection := m.collections[field]; isCollection && present {
			if u, ok := union(pv, sv); ok {
				out[field] = u
				continue
			}
		}

		switch {
		case !present || isEmpty(pv):
			if !present || !isEmpty(sv) {
				out[field] = model.CloneValue(sv)
			}
		case !preferPrimary && !isEmpty(sv) && !reflect.DeepEqual(pv, sv):
			out[field] = model.CloneValue(sv)
		}
	}

	out[m.timestampField] = m.now().UTC()
	return out
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	case model.Record:
		return len(t) == 0
	}
	return false
}

// union merges two slice values, primary's elements first. ok is false when
// either side is not a slice.
func union(a, b any) (any, bool) {
	as, aStrings, ok := elements(a)
	if !ok {
		return nil, false
	}
	bs, bStrings, ok := elements(b)
	if !ok {
		return nil, false
	}

	seen := make(map[string]struct{}, len(as)+len(bs))
	merged := make([]any, 0, len(as)+len(bs))
	for _, e := range append(as, bs...) {
		k := fmt.Sprintf("%T:%v", e, e)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, model.CloneValue(e))
	}

	if aStrings && bStrings {
		out := make([]string, len(merged))
		for i, e := range merged {
			out[i] = e.(string)
		}
		return out, true
	}
	return merged, true
}

func elements(v any) (out []any, allStrings bool, ok bool) {
	switch t := v.(type) {
	case []string:
		out = make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true, true
	case []any:
		return append([]any(nil), t...), false, true
	}
	return nil, false, false
}
