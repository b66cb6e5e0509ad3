// Package setup builds the ledger, embedding, vector store, and memory
// backends a command needs from its resolved configuration. The serve and
// local analysis commands share these builders so provider wiring lives in
// one place.
package setup

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/papercomputeco/khata/pkg/config"
	"github.com/papercomputeco/khata/pkg/dotdir"
	"github.com/papercomputeco/khata/pkg/embeddings"
	embeddingutils "github.com/papercomputeco/khata/pkg/embeddings/utils"
	"github.com/papercomputeco/khata/pkg/ledger"
	ledgerutils "github.com/papercomputeco/khata/pkg/ledger/utils"
	"github.com/papercomputeco/khata/pkg/memory"
	"github.com/papercomputeco/khata/pkg/memory/local"
	"github.com/papercomputeco/khata/pkg/vector"
	vectorutils "github.com/papercomputeco/khata/pkg/vector/utils"
)

// Default file names inside the .khata/ directory.
const (
	// TransactionsFile is the jsonfile source default.
	TransactionsFile = "transactions.json"

	// LedgerDBFile is the sqlite source default.
	LedgerDBFile = "khata.db"

	// VectorsDBFile is the sqlitevec driver default.
	VectorsDBFile = "vectors.db"
)

// NewLedgerSource builds the transaction source named by cfg.Ledger.Source.
// An empty cfg.Ledger.Path resolves to the default file for that source
// inside the .khata/ directory.
func NewLedgerSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ledger.Source, error) {
	path := cfg.Ledger.Path

	switch cfg.Ledger.Source {
	case "jsonfile", "":
		var err error
		path, err = DataPath(cfg.Ledger.Path, TransactionsFile)
		if err != nil {
			return nil, err
		}

	case "sqlite":
		var err error
		path, err = DataPath(cfg.Ledger.Path, LedgerDBFile)
		if err != nil {
			return nil, err
		}
	}

	return ledgerutils.NewSource(ctx, &ledgerutils.NewSourceOpts{
		SourceType: cfg.Ledger.Source,
		Path:       path,
		Project:    cfg.BigQuery.Project,
		Dataset:    cfg.BigQuery.Dataset,
		Table:      cfg.BigQuery.Table,
		Logger:     logger,
	})
}

// NewEmbedder builds the embedding provider named by cfg.Embedding.Provider.
// The gemini API key comes from the GEMINI_API_KEY environment variable,
// never from the config file.
func NewEmbedder(ctx context.Context, cfg *config.Config, logger *zap.Logger) (embeddings.Embedder, error) {
	return embeddingutils.NewEmbedder(ctx, &embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
		Logger:       logger,
	})
}

// NewVectorDriver builds the vector store named by cfg.VectorStore.Provider.
func NewVectorDriver(cfg *config.Config, logger *zap.Logger) (vector.Driver, error) {
	path := cfg.VectorStore.Path
	if cfg.VectorStore.Provider == "sqlitevec" {
		var err error
		path, err = DataPath(cfg.VectorStore.Path, VectorsDBFile)
		if err != nil {
			return nil, err
		}
	}

	return vectorutils.NewDriver(&vectorutils.NewDriverOpts{
		DriverType: cfg.VectorStore.Provider,
		Path:       path,
		TargetURL:  cfg.VectorStore.Target,
		Collection: cfg.VectorStore.Collection,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
}

// NewMemoryDriver builds the session memory driver, or nil when memory is
// disabled. Callers treat a nil driver as "run without history".
func NewMemoryDriver(cfg *config.Config) (memory.Driver, error) {
	if !cfg.Memory.Enabled {
		return nil, nil
	}

	switch cfg.Memory.Provider {
	case "local", "":
		return local.NewDriver(local.Config{Capacity: int(cfg.Memory.Capacity)}), nil

	default:
		return nil, fmt.Errorf("unsupported memory provider: %s", cfg.Memory.Provider)
	}
}

// DataPath returns override unchanged when set, otherwise name resolved
// inside the .khata/ directory.
func DataPath(override, name string) (string, error) {
	if override != "" {
		return override, nil
	}

	target, err := dotdir.NewManager().Target("")
	if err != nil {
		return "", err
	}

	return filepath.Join(target, name), nil
}
