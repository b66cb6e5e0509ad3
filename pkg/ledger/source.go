package ledger

import "context"

// Source loads the transaction dataset from an external system.
type Source interface {
	// Load parses the full dataset in source order. Individual records
	// that fail validation are logged and dropped; an unreadable or
	// structurally invalid source fails the whole load with ErrLoad.
	Load(ctx context.Context) ([]Transaction, error)

	// Close releases any resources held by the source.
	Close() error
}
