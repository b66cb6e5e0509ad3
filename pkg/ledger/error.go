package ledger

import "errors"

var (
	// ErrLoad is returned when a source is unreachable or is not a
	// well-formed collection of records. Fatal to initialization.
	ErrLoad = errors.New("transaction load failed")

	// ErrFormat marks a single malformed record. Sources log it and drop
	// the record; the load itself continues.
	ErrFormat = errors.New("malformed transaction record")
)
