package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
)

// DefaultLimit is how many passages a query returns when the caller does
// not ask for a specific count.
const DefaultLimit = 5

// Searcher provides semantic retrieval over a tenant's stored documents.
type Searcher struct {
	repository storage.VectorRepository
	embedder   ai.Embedder
	generator  ai.AnswerGenerator
	monitor    QueryMonitor
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMonitor installs a hook for observing query execution.
func WithMonitor(monitor QueryMonitor) Option {
	return func(s *Searcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// WithAnswerGenerator enables Ask by providing an answer generator.
func WithAnswerGenerator(generator ai.AnswerGenerator) Option {
	return func(s *Searcher) error {
		s.generator = generator
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(repository storage.VectorRepository, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if repository == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		repository: repository,
		embedder:   embedder,
		monitor:    &noopMonitor{},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Query embeds the question and returns the tenant's most similar passages,
// ranked by cosine similarity. An empty result is a valid outcome: it means
// no relevant content, not an error. Callers who need to distinguish "no
// documents at all" consult the repository's document count.
func (s *Searcher) Query(ctx context.Context, tenantID, question string, limit int) ([]core.Passage, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.monitor.Start(question)

	vector, err := s.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, err
	}
	vector = core.NormalizeVector(vector)
	s.monitor.AfterEmbedding(vector)

	results, err := s.repository.Search(ctx, tenantID, vector, limit)
	if err != nil {
		return nil, err
	}
	s.monitor.AfterVectorSearch(results)

	passages := make([]core.Passage, len(results))
	for i, result := range results {
		passages[i] = result.Passage()
	}

	s.logger.Debug("query completed",
		"tenant", tenantID, "limit", limit, "passages", len(passages))
	s.monitor.Finish(passages)

	return passages, nil
}

// Answer is a generated response grounded in retrieved passages.
type Answer struct {
	Text     string
	Passages []core.Passage
}

// Ask retrieves passages for the question and generates an answer from
// them. With no relevant passages the answer text is empty and the caller
// decides how to present that.
func (s *Searcher) Ask(ctx context.Context, tenantID, question string, limit int) (*Answer, error) {
	if s.generator == nil {
		return nil, ErrGeneratorRequired
	}

	passages, err := s.Query(ctx, tenantID, question, limit)
	if err != nil {
		return nil, err
	}

	if len(passages) == 0 {
		return &Answer{Passages: passages}, nil
	}

	text, err := s.generator.GenerateAnswer(ctx, question, passages)
	if err != nil {
		return nil, err
	}

	return &Answer{Text: text, Passages: passages}, nil
}
