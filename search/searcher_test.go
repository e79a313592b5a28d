package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/poiesic/docquery/ai/mock"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage/badger"
)

func newTestSearcher(t *testing.T, opts ...Option) (*Searcher, *badger.VectorRepository, *mock.MockEmbedder) {
	t.Helper()

	backend, repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	embedder := mock.NewMockEmbedder()
	searcher, err := NewSearcher(repo, embedder, opts...)
	require.NoError(t, err)

	return searcher, repo, embedder
}

func storeRecord(t *testing.T, repo *badger.VectorRepository, tenantID, documentID string, index int, text string) {
	t.Helper()

	_, err := repo.UpsertRecords(context.Background(), tenantID, &core.EmbeddingRecord{
		Id:         core.ChunkID(documentID, index),
		TenantID:   tenantID,
		DocumentID: documentID,
		Filename:   documentID + ".txt",
		ChunkIndex: index,
		Text:       text,
		Vector:     mock.DeterministicVector(text, 384),
	})
	require.NoError(t, err)
}

func TestQueryReturnsRankedPassages(t *testing.T) {
	searcher, repo, _ := newTestSearcher(t)
	ctx := context.Background()

	storeRecord(t, repo, "acme", "doc-1", 0, "billing and invoices")
	storeRecord(t, repo, "acme", "doc-1", 1, "shipping policy details")
	storeRecord(t, repo, "acme", "doc-2", 0, "holiday schedule")

	// The mock embedder embeds the query the same way it embedded the
	// stored text, so an identical question is a perfect match.
	passages, err := searcher.Query(ctx, "acme", "billing and invoices", 2)
	require.NoError(t, err)
	require.Len(t, passages, 2)
	require.Equal(t, "billing and invoices", passages[0].Text)
	require.Equal(t, "doc-1", passages[0].DocumentID)
	require.Equal(t, 0, passages[0].ChunkIndex)
	require.GreaterOrEqual(t, passages[0].Score, passages[1].Score)
}

func TestQueryEmptyTenantIsNotAnError(t *testing.T) {
	searcher, _, _ := newTestSearcher(t)

	passages, err := searcher.Query(context.Background(), "acme", "anything at all", 5)
	require.NoError(t, err)
	require.Empty(t, passages)
}

func TestQueryIsTenantScoped(t *testing.T) {
	searcher, repo, _ := newTestSearcher(t)
	ctx := context.Background()

	storeRecord(t, repo, "acme", "doc-1", 0, "acme secret roadmap")
	storeRecord(t, repo, "globex", "doc-9", 0, "globex secret roadmap")

	passages, err := searcher.Query(ctx, "acme", "secret roadmap", 10)
	require.NoError(t, err)
	require.Len(t, passages, 1)
	require.Equal(t, "doc-1", passages[0].DocumentID)
}

func TestQueryValidation(t *testing.T) {
	searcher, _, _ := newTestSearcher(t)
	ctx := context.Background()

	_, err := searcher.Query(ctx, "", "question", 5)
	require.ErrorIs(t, err, core.ErrEmptyTenant)

	_, err = searcher.Query(ctx, "acme", "   ", 5)
	require.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestQueryDefaultLimit(t *testing.T) {
	searcher, repo, _ := newTestSearcher(t)
	ctx := context.Background()

	for i := 0; i < DefaultLimit+3; i++ {
		storeRecord(t, repo, "acme", "doc-1", i, strings.Repeat("x", i+1))
	}

	passages, err := searcher.Query(ctx, "acme", "x", 0)
	require.NoError(t, err)
	require.Len(t, passages, DefaultLimit)
}

func TestAskGeneratesAnswerFromPassages(t *testing.T) {
	generator := mock.NewMockAnswerGenerator()
	searcher, repo, _ := newTestSearcher(t, WithAnswerGenerator(generator))
	ctx := context.Background()

	storeRecord(t, repo, "acme", "doc-1", 0, "the refund window is 30 days")

	answer, err := searcher.Ask(ctx, "acme", "the refund window is 30 days", 3)
	require.NoError(t, err)
	require.NotEmpty(t, answer.Text)
	require.Len(t, answer.Passages, 1)
	require.Equal(t, 1, generator.CallCount())
}

func TestAskWithNoPassagesSkipsGeneration(t *testing.T) {
	generator := mock.NewMockAnswerGenerator()
	searcher, _, _ := newTestSearcher(t, WithAnswerGenerator(generator))

	answer, err := searcher.Ask(context.Background(), "acme", "unanswerable", 3)
	require.NoError(t, err)
	require.Empty(t, answer.Text)
	require.Empty(t, answer.Passages)
	require.Equal(t, 0, generator.CallCount())
}

func TestAskRequiresGenerator(t *testing.T) {
	searcher, _, _ := newTestSearcher(t)

	_, err := searcher.Ask(context.Background(), "acme", "question", 3)
	require.ErrorIs(t, err, ErrGeneratorRequired)
}

func TestQueryMonitorHooks(t *testing.T) {
	recorder := &recordingMonitor{}
	searcher, repo, _ := newTestSearcher(t, WithMonitor(recorder))
	ctx := context.Background()

	storeRecord(t, repo, "acme", "doc-1", 0, "observable content")

	_, err := searcher.Query(ctx, "acme", "observable content", 5)
	require.NoError(t, err)
	require.Equal(t, "observable content", recorder.question)
	require.NotEmpty(t, recorder.vector)
	require.Len(t, recorder.results, 1)
	require.Len(t, recorder.passages, 1)
}

type recordingMonitor struct {
	question string
	vector   []float32
	results  []*core.SearchResult
	passages []core.Passage
}

func (r *recordingMonitor) Start(question string) { r.question = question }

func (r *recordingMonitor) AfterEmbedding(vector []float32) { r.vector = vector }

func (r *recordingMonitor) AfterVectorSearch(results []*core.SearchResult) { r.results = results }

func (r *recordingMonitor) Finish(passages []core.Passage) { r.passages = passages }
