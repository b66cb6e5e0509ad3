package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent khata configuration stored as config.toml
// in the .khata/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Ledger      LedgerConfig      `toml:"ledger"`
	Engine      EngineConfig      `toml:"engine"`
	API         APIConfig         `toml:"api"`
	Client      ClientConfig      `toml:"client"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Memory      MemoryConfig      `toml:"memory"`
	BigQuery    BigQueryConfig    `toml:"bigquery"`
}

// LedgerConfig holds transaction source settings. Path is the data file for
// the jsonfile and sqlite sources; an empty Path resolves to the .khata/
// directory at load time.
type LedgerConfig struct {
	Source string `toml:"source,omitempty"`
	Path   string `toml:"path,omitempty"`
}

// EngineConfig holds query engine settings.
type EngineConfig struct {
	TopK uint `toml:"top_k,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to the running
// API server (e.g. khata ask, khata search, khata chat).
// Values are full URLs (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// VectorStoreConfig holds vector store settings. Target is the chroma server
// URL, Path the sqlitevec database file.
type VectorStoreConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Path       string `toml:"path,omitempty"`
	Collection string `toml:"collection,omitempty"`
}

// EmbeddingConfig holds embedding provider settings. The gemini provider
// reads its API key from the GEMINI_API_KEY environment variable, never from
// this file.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// MemoryConfig holds session memory settings.
type MemoryConfig struct {
	Provider string `toml:"provider,omitempty"`
	Enabled  bool   `toml:"enabled,omitempty"`
	Capacity uint   `toml:"capacity,omitempty"`
}

// BigQueryConfig holds settings for the bigquery ledger source.
type BigQueryConfig struct {
	Project string `toml:"project,omitempty"`
	Dataset string `toml:"dataset,omitempty"`
	Table   string `toml:"table,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"ledger.source": {
		get: func(c *Config) string { return c.Ledger.Source },
		set: func(c *Config, v string) error { c.Ledger.Source = v; return nil },
	},
	"ledger.path": {
		get: func(c *Config) string { return c.Ledger.Path },
		set: func(c *Config, v string) error { c.Ledger.Path = v; return nil },
	},
	"engine.top_k": {
		get: func(c *Config) string {
			if c.Engine.TopK == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Engine.TopK), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for engine.top_k: %w", err)
			}
			c.Engine.TopK = uint(n)
			return nil
		},
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"vector_store.provider": {
		get: func(c *Config) string { return c.VectorStore.Provider },
		set: func(c *Config, v string) error { c.VectorStore.Provider = v; return nil },
	},
	"vector_store.target": {
		get: func(c *Config) string { return c.VectorStore.Target },
		set: func(c *Config, v string) error { c.VectorStore.Target = v; return nil },
	},
	"vector_store.path": {
		get: func(c *Config) string { return c.VectorStore.Path },
		set: func(c *Config, v string) error { c.VectorStore.Path = v; return nil },
	},
	"vector_store.collection": {
		get: func(c *Config) string { return c.VectorStore.Collection },
		set: func(c *Config, v string) error { c.VectorStore.Collection = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.dimensions": {
		get: func(c *Config) string {
			if c.Embedding.Dimensions == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Embedding.Dimensions), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for embedding.dimensions: %w", err)
			}
			c.Embedding.Dimensions = uint(n)
			return nil
		},
	},
	"memory.provider": {
		get: func(c *Config) string { return c.Memory.Provider },
		set: func(c *Config, v string) error { c.Memory.Provider = v; return nil },
	},
	"memory.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.Memory.Enabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for memory.enabled: %w", err)
			}
			c.Memory.Enabled = b
			return nil
		},
	},
	"memory.capacity": {
		get: func(c *Config) string {
			if c.Memory.Capacity == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Memory.Capacity), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for memory.capacity: %w", err)
			}
			c.Memory.Capacity = uint(n)
			return nil
		},
	},
	"bigquery.project": {
		get: func(c *Config) string { return c.BigQuery.Project },
		set: func(c *Config, v string) error { c.BigQuery.Project = v; return nil },
	},
	"bigquery.dataset": {
		get: func(c *Config) string { return c.BigQuery.Dataset },
		set: func(c *Config, v string) error { c.BigQuery.Dataset = v; return nil },
	},
	"bigquery.table": {
		get: func(c *Config) string { return c.BigQuery.Table },
		set: func(c *Config, v string) error { c.BigQuery.Table = v; return nil },
	},
}
