//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/linkage/internal/config"
	"github.com/agenthands/linkage/internal/core/model"
	"github.com/agenthands/linkage/internal/driver"
	"github.com/agenthands/linkage/internal/logging"
)

// connect returns a live driver and the test configuration, or skips when no
// Memgraph is configured.
func connect(t *testing.T) (*driver.MemgraphDriver, *config.Config) {
	t.Helper()
	_ = godotenv.Load("../../.env")

	cfg, err := config.Load("../../config/config.toml")
	if err != nil {
		t.Logf("Config not found, using default: %v", err)
		cfg = config.Default()
	}
	cfg.ApplyEnv()
	if os.Getenv("MEMGRAPH_URI") == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}

	d, err := driver.NewMemgraphDriver(context.Background(), cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close(context.Background()) })
	return d, cfg
}

// seed writes records under a fresh group id and removes them when the test
// ends. The record store itself never writes.
func seed(t *testing.T, d *driver.MemgraphDriver, label string, records []model.Record) (string, []string) {
	t.Helper()
	ctx := context.Background()
	groupID := "test-group-" + uuid.New().String()

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = uuid.New().String()
		props := map[string]any{}
		for k, v := range r {
			props[k] = v
		}
		props["uuid"] = ids[i]
		props["group_id"] = groupID

		_, err := neo4j.ExecuteQuery(ctx, d.Driver, "CREATE (n:"+label+") SET n = $props",
			map[string]any{"props": props}, neo4j.EagerResultTransformer)
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		_, _ = neo4j.ExecuteQuery(context.Background(), d.Driver, `MATCH (n {group_id: $gid}) DETACH DELETE n`,
			map[string]any{"gid": groupID}, neo4j.EagerResultTransformer)
	})
	return groupID, ids
}
