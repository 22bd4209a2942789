package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/agenthands/linkage/internal/core/cluster"
	"github.com/agenthands/linkage/internal/core/confidence"
	"github.com/agenthands/linkage/internal/core/merge"
	"github.com/agenthands/linkage/internal/core/model"
	"github.com/agenthands/linkage/internal/core/similarity"
)

type MatchConfig struct {
	Threshold float64           `toml:"threshold"`
	Normalize bool              `toml:"normalize"`
	Fields    []model.FieldSpec `toml:"fields"`
}

type MergeConfig struct {
	CollectionFields []string `toml:"collection_fields"`
	TimestampField   string   `toml:"timestamp_field"`
	PreferPrimary    bool     `toml:"prefer_primary"`
}

type ClusterConfig struct {
	Strategy string `toml:"strategy"`
}

type ReviewConfig struct {
	Enabled bool    `toml:"enabled"`
	Floor   float64 `toml:"floor"`
	Prompt  string  `toml:"prompt"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Limit    int    `toml:"limit"`
}

type ConcurrencyConfig struct {
	BatchCheck int `toml:"batch_check"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	Match       MatchConfig        `toml:"match"`
	Confidence  confidence.Weights `toml:"confidence"`
	Merge       MergeConfig        `toml:"merge"`
	Cluster     ClusterConfig      `toml:"cluster"`
	Review      ReviewConfig       `toml:"review"`
	LLM         LLMConfig          `toml:"llm"`
	Memgraph    MemgraphConfig     `toml:"memgraph"`
	Concurrency ConcurrencyConfig  `toml:"concurrency"`
	Server      ServerConfig       `toml:"server"`
	Log         LogConfig          `toml:"log"`
}

// Default returns a configuration that works without a config file. Memgraph
// and the LLM reviewer stay disabled until configured.
func Default() *Config {
	opts := model.DefaultMatchOptions()
	return &Config{
		Match: MatchConfig{
			Threshold: opts.Threshold,
			Normalize: opts.Normalize,
			Fields:    opts.Fields,
		},
		Confidence: confidence.DefaultWeights(),
		Merge: MergeConfig{
			CollectionFields: append([]string(nil), merge.DefaultCollectionFields...),
			TimestampField:   merge.DefaultTimestampField,
			PreferPrimary:    true,
		},
		Cluster: ClusterConfig{Strategy: cluster.StrategyLabelPropagation},
		Review:  ReviewConfig{Floor: 0.5},
		Memgraph: MemgraphConfig{
			Limit: 1000,
		},
		Concurrency: ConcurrencyConfig{BatchCheck: 4},
		Server:      ServerConfig{Port: "8080"},
		Log:         LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides configuration from environment variables.
func (c *Config) ApplyEnv() {
	setString(&c.Server.Port, "PORT")
	setString(&c.Memgraph.URI, "MEMGRAPH_URI")
	setString(&c.Memgraph.User, "MEMGRAPH_USER")
	setString(&c.Memgraph.Password, "MEMGRAPH_PASSWORD")
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.APIKey, "LLM_API_KEY")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	if v := os.Getenv("MATCH_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Match.Threshold = f
		}
	}
	if v := os.Getenv("REVIEW_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Review.Enabled = b
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate rejects settings the core cannot run with. Match thresholds are not
// checked here: the matcher clamps them.
func (c *Config) Validate() error {
	for _, f := range c.Match.Fields {
		if f.Name == "" {
			return fmt.Errorf("match.fields: field name must not be empty")
		}
		if f.Kind != "" {
			if _, ok := model.ParseKind(string(f.Kind)); !ok {
				return fmt.Errorf("match.fields: field %q has unknown kind %q", f.Name, f.Kind)
			}
		}
		if _, err := similarity.Lookup(f.Algorithm); err != nil {
			return fmt.Errorf("match.fields: field %q: %w", f.Name, err)
		}
	}

	w := c.Confidence
	if w.Average < 0 || w.Coverage < 0 {
		return fmt.Errorf("confidence weights must not be negative (got %.2f, %.2f)", w.Average, w.Coverage)
	}
	if w.CoverageFields <= 0 {
		return fmt.Errorf("confidence.coverage_fields must be positive (got %d)", w.CoverageFields)
	}
	if w.AutoMergeThreshold < 0 || w.AutoMergeThreshold > 1 {
		return fmt.Errorf("confidence.auto_merge_threshold must be between 0.0 and 1.0 (got %.2f)", w.AutoMergeThreshold)
	}
	if c.Review.Floor < 0 || c.Review.Floor > 1 {
		return fmt.Errorf("review.floor must be between 0.0 and 1.0 (got %.2f)", c.Review.Floor)
	}
	if c.Concurrency.BatchCheck <= 0 {
		return fmt.Errorf("concurrency.batch_check must be positive (got %d)", c.Concurrency.BatchCheck)
	}
	if c.Memgraph.Limit < 0 {
		return fmt.Errorf("memgraph.limit must not be negative (got %d)", c.Memgraph.Limit)
	}
	if _, err := cluster.NewDetector(c.Cluster.Strategy); err != nil {
		return fmt.Errorf("cluster.strategy: %w", err)
	}
	return nil
}

// MatchOptions converts the match section for the matcher.
func (c *Config) MatchOptions() model.MatchOptions {
	fields := make([]model.FieldSpec, len(c.Match.Fields))
	for i, f := range c.Match.Fields {
		if k, ok := model.ParseKind(string(f.Kind)); ok {
			f.Kind = k
		}
		fields[i] = f
	}
	return model.MatchOptions{
		Threshold: c.Match.Threshold,
		Fields:    fields,
		Normalize: c.Match.Normalize,
	}
}
