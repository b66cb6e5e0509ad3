package embeddings

import "errors"

var (
	// ErrEmbedding indicates an embedding operation failed.
	ErrEmbedding = errors.New("embedding generation failed")
)
