package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/agenthands/linkage/internal/core/model"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(id any, props map[string]any) *neo4j.Record {
	return &neo4j.Record{Keys: []string{"id", "props"}, Values: []any{id, props}}
}

func TestLoadRecords(t *testing.T) {
	mockDriver := &MockDriver{
		MockResult: neo4j.EagerResult{Records: []*neo4j.Record{
			row("rec-1", map[string]any{"uuid": "rec-1", "group_id": "g1", "company": "Acme Inc.", "tags": []any{"vip"}}),
			row(nil, map[string]any{"company": "orphan"}),
			row("rec-2", nil),
		}},
	}
	store := NewRecordStore(mockDriver, 250)

	records, err := store.LoadRecords(context.Background(), Scope{GroupID: "g1", Kind: "Companies"})

	require.NoError(t, err)
	assert.Equal(t, []model.ExistingRecord{
		{ID: "rec-1", Fields: model.Record{"company": "Acme Inc.", "tags": []any{"vip"}}},
		{ID: "rec-2", Fields: model.Record{}},
	}, records)

	assert.Contains(t, mockDriver.QueryExecuted, "MATCH (n:Company {group_id: $group_id})")
	assert.Equal(t, map[string]interface{}{"group_id": "g1", "limit": 250}, mockDriver.QueryParams)
}

func TestLoadRecordsLimit(t *testing.T) {
	mockDriver := &MockDriver{}

	_, err := NewRecordStore(mockDriver, 0).LoadRecords(context.Background(), Scope{Kind: "lead"})
	require.NoError(t, err)
	assert.Equal(t, 1000, mockDriver.QueryParams["limit"])

	_, err = NewRecordStore(mockDriver, 50).LoadRecords(context.Background(), Scope{Kind: "lead", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, mockDriver.QueryParams["limit"])
}

func TestLoadRecordsErrors(t *testing.T) {
	mockDriver := &MockDriver{Err: errors.New("connection refused")}
	store := NewRecordStore(mockDriver, 0)

	_, err := store.LoadRecords(context.Background(), Scope{Kind: "contact"})
	assert.ErrorContains(t, err, "failed to load Contact records")
	assert.ErrorContains(t, err, "connection refused")

	unused := &MockDriver{}
	_, err = NewRecordStore(unused, 0).LoadRecords(context.Background(), Scope{Kind: "invoice"})
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Empty(t, unused.QueryExecuted)
}

func TestLabel(t *testing.T) {
	for kind, want := range map[string]string{
		"lead": "Lead", "Leads": "Lead", " contact ": "Contact", "companies": "Company", "COMPANY": "Company",
	} {
		got, err := Label(kind)
		require.NoError(t, err, kind)
		assert.Equal(t, want, got, kind)
	}

	_, err := Label("Lead) DETACH DELETE n //")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
