// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package docquery

import (
	"context"
	"log/slog"

	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/ai/openai"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/ingestion"
	"github.com/poiesic/docquery/search"
	"github.com/poiesic/docquery/storage"
	"github.com/poiesic/docquery/storage/badger"
)

// Database is the top-level handle: a vector store plus the AI provider,
// exposing tenant-scoped ingestion and retrieval. Every operation takes
// the tenant identifier explicitly; there is no ambient tenant.
type Database struct {
	backend    *badger.Backend
	vectorRepo storage.VectorRepository
	provider   ai.Provider
	pipeline   *ingestion.Pipeline
	searcher   *search.Searcher
	logger     *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig     *ai.Config
	provider     ai.Provider
	inMemory     bool
	chunkSize    int
	chunkOverlap int
	poolSize     int
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies a pre-built AI provider instead of constructing
// one from configuration. Used in tests with mock providers.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory opens the database in memory with no files on disk.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithChunking sets the chunk window size and overlap, in runes.
func WithChunking(size, overlap int) DatabaseOption {
	return func(o *databaseOptions) {
		o.chunkSize = size
		o.chunkOverlap = overlap
	}
}

// WithIngestionPoolSize sets the batch ingestion worker pool size.
func WithIngestionPoolSize(size int) DatabaseOption {
	return func(o *databaseOptions) {
		o.poolSize = size
	}
}

// NewDatabase opens (or creates) a document database at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig:     ai.DefaultConfig(),
		chunkSize:    ingestion.DefaultChunkSize,
		chunkOverlap: ingestion.DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	vectorRepo, err := badger.NewVectorRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			vectorRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	pipelineOpts := []ingestion.Option{
		ingestion.WithChunking(options.chunkSize, options.chunkOverlap),
	}
	if options.poolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(options.poolSize))
	}

	pipeline, err := ingestion.NewPipeline(vectorRepo, provider.Embedder(), pipelineOpts...)
	if err != nil {
		provider.Close()
		vectorRepo.Close()
		backend.Close()
		return nil, err
	}

	searcher, err := search.NewSearcher(vectorRepo, provider.Embedder(),
		search.WithAnswerGenerator(provider.AnswerGenerator()))
	if err != nil {
		pipeline.Release()
		provider.Close()
		vectorRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:    backend,
		vectorRepo: vectorRepo,
		provider:   provider,
		pipeline:   pipeline,
		searcher:   searcher,
		logger:     slog.Default(),
	}, nil
}

// Close releases the pipeline, provider, repository, and backend.
func (db *Database) Close() error {
	db.pipeline.Release()

	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.vectorRepo.Close(); err != nil {
		db.logger.Error("error closing vector repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Ingest extracts, chunks, embeds, and stores one document for the tenant.
// The format is inferred from the filename extension.
func (db *Database) Ingest(ctx context.Context, tenantID, filename string, data []byte) (*ingestion.IngestResult, error) {
	return db.pipeline.IngestFile(ctx, tenantID, ingestion.File{Filename: filename, Data: data})
}

// IngestBatch ingests multiple files concurrently. Per-file failures are
// reported in the result and never abort sibling files.
func (db *Database) IngestBatch(ctx context.Context, tenantID string, files []ingestion.File) (*ingestion.BatchResult, error) {
	return db.pipeline.IngestBatch(ctx, tenantID, files)
}

// Query returns the tenant's passages most relevant to the question.
// An empty result means no relevant content, not an error.
func (db *Database) Query(ctx context.Context, tenantID, question string, limit int) ([]core.Passage, error) {
	return db.searcher.Query(ctx, tenantID, question, limit)
}

// Ask retrieves passages for the question and generates an answer
// grounded in them.
func (db *Database) Ask(ctx context.Context, tenantID, question string, limit int) (*search.Answer, error) {
	return db.searcher.Ask(ctx, tenantID, question, limit)
}

// DeleteDocument removes one document's records for the tenant and
// returns how many were deleted.
func (db *Database) DeleteDocument(ctx context.Context, tenantID, documentID string) (int, error) {
	return db.vectorRepo.DeleteDocument(ctx, tenantID, documentID)
}

// Clear removes all of the tenant's records and returns how many were deleted.
func (db *Database) Clear(ctx context.Context, tenantID string) (int, error) {
	return db.vectorRepo.DeleteTenant(ctx, tenantID)
}

// DocumentCount returns how many documents the tenant has stored. Callers
// use this to tell "no documents uploaded yet" apart from "no relevant
// passages found".
func (db *Database) DocumentCount(ctx context.Context, tenantID string) (int, error) {
	return db.vectorRepo.CountDocuments(ctx, tenantID)
}

// VectorRepository exposes the underlying repository for maintenance
// tooling such as re-embedding migrations.
func (db *Database) VectorRepository() storage.VectorRepository {
	return db.vectorRepo
}

// Provider exposes the configured AI provider.
func (db *Database) Provider() ai.Provider {
	return db.provider
}
