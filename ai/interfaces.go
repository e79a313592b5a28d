package ai

import (
	"context"

	"github.com/poiesic/docquery/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Chunk vectors and query vectors must come from the same embedder so they
// live in the same representation space. Implementations must be thread-safe
// for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// It routes through the same code path as EmbedTexts so single-query and
	// bulk-chunk embeddings are identical for identical input.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts,
	// one vector per input. Internal batching must not change the result for any
	// individual text. Returns an error if any embedding generation fails; the
	// caller may retry at smaller granularity.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// AnswerGenerator produces a textual answer to a question grounded in
// retrieved passages. The passages are already tenant-scoped by the caller.
// Implementations must be thread-safe for concurrent use.
type AnswerGenerator interface {
	// GenerateAnswer answers the question using only the provided passages.
	// Returns an error if generation fails; there is no partial-answer concept.
	GenerateAnswer(ctx context.Context, question string, passages []core.Passage) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and AnswerGenerator
// instances, ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// AnswerGenerator returns the answer generation service.
	// The returned AnswerGenerator is safe for concurrent use.
	AnswerGenerator() AnswerGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
