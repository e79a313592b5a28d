package ingestion

import "errors"

var (
	// ErrVectorRepositoryRequired is returned when a vector repository is not provided.
	ErrVectorRepositoryRequired = errors.New("vector repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidChunkSize is returned when the chunk size is not positive.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")

	// ErrInvalidChunkOverlap is returned when the overlap is negative or
	// not smaller than the chunk size.
	ErrInvalidChunkOverlap = errors.New("chunk overlap must be smaller than chunk size")
)
