package engine

import "errors"

var (
	// ErrInitialization indicates the engine could not load or index the
	// dataset.
	ErrInitialization = errors.New("engine initialization failed")

	// ErrQuery indicates a retrieval step failed after initialization.
	ErrQuery = errors.New("query processing failed")
)
