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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/docquery"
	"github.com/poiesic/docquery/ai"
	"github.com/poiesic/docquery/ai/openai"
	"github.com/poiesic/docquery/ingestion"
	"github.com/poiesic/docquery/reembed"
	"github.com/poiesic/docquery/storage/badger"
)

func main() {
	// Optional .env for host/model/token settings
	godotenv.Load()

	app := &cli.App{
		Name:  "docquery",
		Usage: "Tenant-scoped document ingestion and semantic retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest documents for a tenant",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Chunk window size in characters",
						Value: ingestion.DefaultChunkSize,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Overlap between consecutive chunks in characters",
						Value: ingestion.DefaultChunkOverlap,
					},
				),
			},
			{
				Name:      "query",
				Usage:     "Retrieve the most relevant passages for a question",
				ArgsUsage: "QUESTION",
				Action:    queryCommand,
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of passages to return",
						Value: 5,
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Generate an answer grounded in retrieved passages",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of passages to ground the answer on",
						Value: 5,
					},
					&cli.StringFlag{
						Name:    "generation-host",
						Usage:   "Generation service host URL",
						EnvVars: []string{"DOCQUERY_GENERATION_HOST"},
					},
					&cli.StringFlag{
						Name:    "generation-model",
						Usage:   "Generation model name",
						EnvVars: []string{"DOCQUERY_GENERATION_MODEL"},
					},
				),
			},
			{
				Name:   "clear",
				Usage:  "Delete all stored documents for a tenant",
				Action: clearCommand,
				Flags: []cli.Flag{
					dbFlag(),
					tenantFlag(),
				},
			},
			{
				Name:   "stats",
				Usage:  "Show stored document and chunk counts for a tenant",
				Action: statsCommand,
				Flags: []cli.Flag{
					dbFlag(),
					tenantFlag(),
				},
			},
			{
				Name:   "reembed",
				Usage:  "Reembed a tenant's records with a new embedding model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					dbFlag(),
					tenantFlag(),
					&cli.StringFlag{
						Name:    "embedding-host",
						Usage:   "Embedding service host URL",
						Value:   "http://localhost:11434/v1",
						EnvVars: []string{"DOCQUERY_EMBEDDING_HOST"},
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
						EnvVars:  []string{"DOCQUERY_EMBEDDING_MODEL"},
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "Path to the database directory",
		Value:   "./docquery_db",
		EnvVars: []string{"DOCQUERY_DB"},
	}
}

func tenantFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "tenant",
		Aliases:  []string{"t"},
		Usage:    "Tenant identifier (every command is scoped to one tenant)",
		Required: true,
		EnvVars:  []string{"DOCQUERY_TENANT"},
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		dbFlag(),
		tenantFlag(),
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			EnvVars: []string{"DOCQUERY_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			EnvVars: []string{"DOCQUERY_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "API token for the AI services",
			EnvVars: []string{"DOCQUERY_API_TOKEN"},
		},
	}
}

func aiConfigFromFlags(c *cli.Context) *ai.Config {
	var opts []ai.ConfigOption
	if host := c.String("embedding-host"); host != "" {
		opts = append(opts, ai.WithEmbeddingHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if c.IsSet("generation-host") {
		opts = append(opts, ai.WithGenerationHost(c.String("generation-host")))
	}
	if c.IsSet("generation-model") {
		opts = append(opts, ai.WithGenerationModel(c.String("generation-model")))
	}
	if token := c.String("api-token"); token != "" {
		opts = append(opts, ai.WithAPIToken(token))
	}
	return ai.NewConfig(opts...)
}

func openDatabase(c *cli.Context, extra ...docquery.DatabaseOption) (*docquery.Database, error) {
	opts := append([]docquery.DatabaseOption{
		docquery.WithAIConfig(aiConfigFromFlags(c)),
	}, extra...)

	db, err := docquery.NewDatabase(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	db, err := openDatabase(c,
		docquery.WithChunking(c.Int("chunk-size"), c.Int("chunk-overlap")))
	if err != nil {
		return err
	}
	defer db.Close()

	files := make([]ingestion.File, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, ingestion.File{
			Filename: filepath.Base(path),
			Data:     data,
		})
	}

	result, err := db.IngestBatch(context.Background(), c.String("tenant"), files)
	if err != nil {
		return err
	}

	for _, fr := range result.PerFile {
		if fr.Err != nil {
			fmt.Printf("FAILED  %s: %v\n", fr.Filename, fr.Err)
			continue
		}
		fmt.Printf("OK      %s: %d chunks stored\n", fr.Filename, fr.Result.ChunksStored)
	}
	fmt.Printf("%d succeeded, %d failed\n", result.Succeeded, result.Failed)

	if result.Failed > 0 && result.Succeeded == 0 {
		return fmt.Errorf("all files failed")
	}
	return nil
}

func queryCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a question is required")
	}
	question := strings.Join(c.Args().Slice(), " ")

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	tenant := c.String("tenant")

	passages, err := db.Query(ctx, tenant, question, c.Int("limit"))
	if err != nil {
		return err
	}

	if len(passages) == 0 {
		count, countErr := db.DocumentCount(ctx, tenant)
		if countErr == nil && count == 0 {
			fmt.Println("No documents uploaded yet")
		} else {
			fmt.Println("No relevant passages found")
		}
		return nil
	}

	for i, p := range passages {
		fmt.Printf("%d: [%.3f] %s (chunk %d)\n   %s\n", i+1, p.Score, p.Filename, p.ChunkIndex, p.Text)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a question is required")
	}
	question := strings.Join(c.Args().Slice(), " ")

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	answer, err := db.Ask(context.Background(), c.String("tenant"), question, c.Int("limit"))
	if err != nil {
		return err
	}

	if len(answer.Passages) == 0 {
		fmt.Println("No relevant passages found")
		return nil
	}

	fmt.Println(answer.Text)
	fmt.Println()
	fmt.Println("Sources:")
	for _, p := range answer.Passages {
		fmt.Printf("  [%.3f] %s (chunk %d)\n", p.Score, p.Filename, p.ChunkIndex)
	}
	return nil
}

func clearCommand(c *cli.Context) error {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewVectorRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	deleted, err := repo.DeleteTenant(context.Background(), c.String("tenant"))
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %d records for tenant %q\n", deleted, c.String("tenant"))
	return nil
}

func statsCommand(c *cli.Context) error {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewVectorRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	ctx := context.Background()
	tenant := c.String("tenant")

	docs, err := repo.CountDocuments(ctx, tenant)
	if err != nil {
		return err
	}
	records, err := repo.CountRecords(ctx, tenant)
	if err != nil {
		return err
	}

	fmt.Printf("Tenant %q: %d documents, %d chunks\n", tenant, docs, records)
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewVectorRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(repo, embedder, reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Tenant: %s\n", c.String("tenant"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx, c.String("tenant")); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
