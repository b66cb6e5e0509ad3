// Package jsonfile reads the transaction dataset from a JSON array file,
// the format the system has always shipped with.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/papercomputeco/khata/pkg/ledger"
)

// Source is a ledger.Source over a single JSON file.
type Source struct {
	path   string
	logger *zap.Logger
}

// New creates a JSON file source. The file is read on Load, not here.
func New(path string, logger *zap.Logger) *Source {
	return &Source{
		path:   path,
		logger: logger,
	}
}

// Load reads and validates the whole file. Malformed records are dropped
// with a warning; the records that survive keep their file order.
func (s *Source) Load(ctx context.Context) ([]ledger.Transaction, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ledger.ErrLoad, s.path, err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: %s is not an array of records: %v", ledger.ErrLoad, s.path, err)
	}

	out := make([]ledger.Transaction, 0, len(raws))
	for i, raw := range raws {
		var rec ledger.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			s.logger.Warn("dropping malformed record",
				zap.Int("index", i),
				zap.Error(fmt.Errorf("%w: %v", ledger.ErrFormat, err)),
			)
			continue
		}

		t, err := rec.Transaction()
		if err != nil {
			s.logger.Warn("dropping malformed record",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}

		out = append(out, t)
	}

	return out, nil
}

// Close is a no-op; the source holds no handle between loads.
func (s *Source) Close() error {
	return nil
}
