package ingestion

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/poiesic/docquery/ai/mock"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage/badger"
)

func newTestPipeline(t *testing.T, opts ...Option) (*Pipeline, *badger.VectorRepository, *mock.MockEmbedder) {
	t.Helper()

	backend, repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	embedder := mock.NewMockEmbedder()
	pipeline, err := NewPipeline(repo, embedder, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return pipeline, repo, embedder
}

func TestIngestStoresChunks(t *testing.T) {
	pipeline, repo, _ := newTestPipeline(t, WithChunking(100, 20))
	ctx := context.Background()

	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 10)
	result, err := pipeline.IngestFile(ctx, "acme", File{
		Filename: "fox.txt",
		Data:     []byte(text),
	})
	require.NoError(t, err)
	require.Greater(t, result.ChunksProcessed, 1)
	require.Equal(t, result.ChunksProcessed, result.ChunksStored)
	require.NotEmpty(t, result.DocumentID)

	count, err := repo.CountRecords(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, result.ChunksStored, count)

	docs, err := repo.CountDocuments(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, 1, docs)
}

func TestIngestRejectsUnknownExtension(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t)

	_, err := pipeline.IngestFile(context.Background(), "acme", File{
		Filename: "archive.zip",
		Data:     []byte("data"),
	})
	require.ErrorIs(t, err, core.ErrUnsupportedFormat)
}

func TestIngestEmptyDocumentFails(t *testing.T) {
	pipeline, repo, _ := newTestPipeline(t)
	ctx := context.Background()

	_, err := pipeline.IngestFile(ctx, "acme", File{
		Filename: "blank.txt",
		Data:     []byte("   \n\t  "),
	})
	require.Error(t, err)

	count, err := repo.CountRecords(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestIngestEmbeddingFailureStoresNothing(t *testing.T) {
	pipeline, repo, embedder := newTestPipeline(t)
	ctx := context.Background()

	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, core.ErrEmbeddingFailed
	}

	_, err := pipeline.IngestFile(ctx, "acme", File{
		Filename: "doc.txt",
		Data:     []byte("some perfectly fine text"),
	})
	require.ErrorIs(t, err, core.ErrEmbeddingFailed)

	count, err := repo.CountRecords(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestIngestIsIdempotent(t *testing.T) {
	pipeline, repo, _ := newTestPipeline(t, WithChunking(50, 10))
	ctx := context.Background()

	doc := core.NewDocument("acme", "notes.txt", core.FormatPlainText)
	data := []byte(strings.Repeat("repeatable content ", 20))

	first, err := pipeline.Ingest(ctx, "acme", doc, data)
	require.NoError(t, err)

	// Same document ID, same text: records overwrite in place
	second, err := pipeline.Ingest(ctx, "acme", doc, data)
	require.NoError(t, err)
	require.Equal(t, first.ChunksStored, second.ChunksStored)

	count, err := repo.CountRecords(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, first.ChunksStored, count)
}

func TestIngestTenantMismatch(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t)

	doc := core.NewDocument("acme", "notes.txt", core.FormatPlainText)
	_, err := pipeline.Ingest(context.Background(), "globex", doc, []byte("text"))
	require.ErrorIs(t, err, core.ErrTenantMismatch)
}

func TestIngestBatchIsolatesFailures(t *testing.T) {
	pipeline, repo, _ := newTestPipeline(t, WithPoolSize(2))
	ctx := context.Background()

	files := []File{
		{Filename: "good.txt", Data: []byte("a healthy document with content")},
		{Filename: "bad.zip", Data: []byte("unsupported")},
		{Filename: "empty.txt", Data: []byte("")},
		{Filename: "fine.md", Data: []byte("# Title\n\nMore healthy content.")},
	}

	result, err := pipeline.IngestBatch(ctx, "acme", files)
	require.NoError(t, err)
	require.Equal(t, 2, result.Succeeded)
	require.Equal(t, 2, result.Failed)
	require.Len(t, result.PerFile, 4)

	require.NoError(t, result.PerFile[0].Err)
	require.ErrorIs(t, result.PerFile[1].Err, core.ErrUnsupportedFormat)
	require.Error(t, result.PerFile[2].Err)
	require.NoError(t, result.PerFile[3].Err)

	docs, err := repo.CountDocuments(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, 2, docs)
}

func TestIngestBatchCancelled(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := pipeline.IngestBatch(ctx, "acme", []File{
		{Filename: "doc.txt", Data: []byte("text")},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Failed)
	require.ErrorIs(t, result.PerFile[0].Err, context.Canceled)
}
