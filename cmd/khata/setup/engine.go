package setup

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/papercomputeco/khata/pkg/config"
	"github.com/papercomputeco/khata/pkg/engine"
)

// NewEngine builds a fully wired query engine from the resolved configuration:
// ledger source, embedder, and vector driver, indexed and ready to answer.
// The returned close function releases the vector driver; call it once the
// engine is no longer needed.
func NewEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...engine.Option) (*engine.Engine, func(), error) {
	source, err := NewLedgerSource(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("creating ledger source: %w", err)
	}
	// The corpus is loaded eagerly during engine construction, so the
	// source is done once New returns.
	defer source.Close()

	embedder, err := NewEmbedder(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("creating embedder: %w", err)
	}

	driver, err := NewVectorDriver(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("creating vector driver: %w", err)
	}

	engineOpts := append([]engine.Option{engine.WithTopK(int(cfg.Engine.TopK))}, opts...)
	eng, err := engine.New(ctx, source, embedder, driver, logger, engineOpts...)
	if err != nil {
		driver.Close()
		return nil, nil, fmt.Errorf("creating engine: %w", err)
	}

	closeEngine := func() {
		if err := driver.Close(); err != nil {
			logger.Warn("closing vector driver", zap.Error(err))
		}
	}

	return eng, closeEngine, nil
}
