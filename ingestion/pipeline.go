package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/extract"
	"github.com/poiesic/docquery/storage"
)

// Pipeline turns raw document bytes into stored embedding records.
// A single document flows extract -> chunk -> embed -> upsert; batches
// fan documents out over a bounded worker pool.
type Pipeline struct {
	repository storage.VectorRepository
	embedder   ai.Embedder
	chunker    *Chunker
	pool       *ants.Pool
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for batch ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunking sets the chunk window size and overlap, in runes.
func WithChunking(size, overlap int) Option {
	return func(p *Pipeline) error {
		chunker, err := NewChunker(size, overlap)
		if err != nil {
			return err
		}
		p.chunker = chunker
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repository storage.VectorRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	chunker, err := NewChunker(DefaultChunkSize, DefaultChunkOverlap)
	if err != nil {
		pool.Release()
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		embedder:   embedder,
		chunker:    chunker,
		pool:       pool,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// File is one document submitted for ingestion.
type File struct {
	Filename string
	Data     []byte
}

// IngestResult reports what happened to a single document.
type IngestResult struct {
	DocumentID      string
	Filename        string
	ChunksProcessed int
	ChunksStored    int
}

// FileResult pairs a batch member with its outcome. Err is nil on success.
type FileResult struct {
	Filename string
	Result   *IngestResult
	Err      error
}

// BatchResult summarizes a batch ingestion.
type BatchResult struct {
	Succeeded int
	Failed    int
	PerFile   []FileResult
}

// Ingest processes one document synchronously and stores its chunks for
// the tenant. A document that extracts to nothing fails with
// ErrEmptyContent; nothing is stored for it.
func (p *Pipeline) Ingest(ctx context.Context, tenantID string, document *core.Document, data []byte) (*IngestResult, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := core.ValidateDocument(document); err != nil {
		return nil, err
	}
	if document.TenantID != tenantID {
		return nil, core.ErrTenantMismatch
	}

	text, err := extract.Extract(ctx, data, document.Format)
	if err != nil {
		return nil, err
	}
	document.Text = text

	chunks := p.chunker.Chunk(document.Id, text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%s: %w", document.Filename, core.ErrEmptyContent)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	p.logger.Debug("embedding document chunks",
		"tenant", tenantID, "document", document.Id, "chunks", len(texts))

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: expected %d vectors, received %d",
			core.ErrEmbeddingFailed, len(chunks), len(vectors))
	}

	records := make([]*core.EmbeddingRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = &core.EmbeddingRecord{
			Id:         core.ChunkID(document.Id, chunk.Index),
			TenantID:   tenantID,
			DocumentID: document.Id,
			Filename:   document.Filename,
			ChunkIndex: chunk.Index,
			Text:       chunk.Text,
			Vector:     core.NormalizeVector(vectors[i]),
		}
	}

	stored, err := p.repository.UpsertRecords(ctx, tenantID, records...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrStorageFailed, err)
	}

	p.logger.Info("document ingested",
		"tenant", tenantID, "document", document.Id,
		"filename", document.Filename, "chunks", stored)

	return &IngestResult{
		DocumentID:      document.Id,
		Filename:        document.Filename,
		ChunksProcessed: len(chunks),
		ChunksStored:    stored,
	}, nil
}

// IngestFile builds a document from the filename and ingests it. The
// format is inferred from the filename extension.
func (p *Pipeline) IngestFile(ctx context.Context, tenantID string, file File) (*IngestResult, error) {
	format, err := core.FormatFromFilename(file.Filename)
	if err != nil {
		return nil, err
	}

	document := core.NewDocument(tenantID, file.Filename, format)
	return p.Ingest(ctx, tenantID, document, file.Data)
}

// IngestBatch ingests multiple files concurrently over the worker pool.
// A failing file is recorded in the batch result and never aborts its
// siblings. Cancellation stops scheduling new files; documents already
// upserted remain stored.
func (p *Pipeline) IngestBatch(ctx context.Context, tenantID string, files []File) (*BatchResult, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}

	result := &BatchResult{
		PerFile: make([]FileResult, len(files)),
	}

	var wg sync.WaitGroup
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			result.PerFile[i] = FileResult{Filename: file.Filename, Err: err}
			continue
		}

		wg.Add(1)
		i, file := i, file
		submitErr := p.pool.Submit(func() {
			defer wg.Done()

			res, err := p.IngestFile(ctx, tenantID, file)
			if err != nil {
				p.logger.Error("file ingestion failed",
					"tenant", tenantID, "filename", file.Filename, "err", err)
			}
			result.PerFile[i] = FileResult{Filename: file.Filename, Result: res, Err: err}
		})
		if submitErr != nil {
			wg.Done()
			result.PerFile[i] = FileResult{Filename: file.Filename, Err: submitErr}
		}
	}
	wg.Wait()

	for _, fr := range result.PerFile {
		if fr.Err != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}

	p.logger.Info("batch ingestion finished",
		"tenant", tenantID, "files", len(files),
		"succeeded", result.Succeeded, "failed", result.Failed)

	return result, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
