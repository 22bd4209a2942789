package driver

import (
	"context"
	"fmt"

	"github.com/agenthands/linkage/internal/core/model"
)

// Scope selects the existing records a candidate is compared against.
type Scope struct {
	GroupID string `json:"group_id"`
	Kind    string `json:"kind"`
	Limit   int    `json:"limit,omitempty"`
}

// RecordStore reads existing records from the graph. It never writes.
type RecordStore struct {
	Driver       GraphDriver
	DefaultLimit int
}

func NewRecordStore(d GraphDriver, defaultLimit int) *RecordStore {
	return &RecordStore{Driver: d, DefaultLimit: defaultLimit}
}

// internal node properties that are not record fields
var skipProps = map[string]bool{"uuid": true, "group_id": true}

func (s *RecordStore) LoadRecords(ctx context.Context, scope Scope) ([]model.ExistingRecord, error) {
	label, err := Label(scope.Kind)
	if err != nil {
		return nil, err
	}
	limit := scope.Limit
	if limit <= 0 {
		limit = s.DefaultLimit
	}
	if limit <= 0 {
		limit = 1000
	}

	res, err := s.Driver.ExecuteQuery(ctx, loadRecordsQuery(label), map[string]interface{}{
		"group_id": scope.GroupID,
		"limit":    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s records: %w", label, err)
	}

	records := make([]model.ExistingRecord, 0, len(res.Records))
	for _, rec := range res.Records {
		idVal, _ := rec.Get("id")
		id, ok := idVal.(string)
		if !ok || id == "" {
			continue
		}
		propsVal, _ := rec.Get("props")
		props, _ := propsVal.(map[string]any)

		fields := make(model.Record, len(props))
		for k, v := range props {
			if !skipProps[k] {
				fields[k] = v
			}
		}
		records = append(records, model.ExistingRecord{ID: id, Fields: fields})
	}
	return records, nil
}
