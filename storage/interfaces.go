package storage

import (
	"context"

	"github.com/poiesic/docquery/core"
)

// VectorRepository provides tenant-scoped operations over stored embedding
// records. The tenant id is a mandatory first argument of every operation;
// there is no code path that reads or writes records without one, which makes
// cross-tenant access structurally impossible rather than a filter convention.
// Implementations must be thread-safe and support concurrent access.
type VectorRepository interface {
	// UpsertRecords stores embedding records for the tenant. Upserts are
	// idempotent by record ID: re-ingesting the same chunk overwrites, never
	// duplicates. A record whose TenantID differs from tenantID fails the
	// whole call with core.ErrTenantMismatch.
	// Returns the number of records stored.
	UpsertRecords(ctx context.Context, tenantID string, records ...*core.EmbeddingRecord) (int, error)

	// Search runs nearest-neighbor search over the tenant's records only.
	// The tenant filter is applied during candidate selection, not as a
	// post-filter, so up to limit in-tenant results are returned no matter
	// how many other tenants share the index. Results are ordered by cosine
	// similarity descending; ties break by insertion order.
	Search(ctx context.Context, tenantID string, vector []float32, limit int) ([]*core.SearchResult, error)

	// GetRecords retrieves the tenant's records by ID.
	// Returns only the records that exist (no error for missing records).
	GetRecords(ctx context.Context, tenantID string, ids ...core.ID) ([]*core.EmbeddingRecord, error)

	// AllRecords iterates every record of the tenant in key order, invoking
	// fn for each. Iteration stops at the first error. Used by migration
	// tooling (re-embedding) rather than the query path.
	AllRecords(ctx context.Context, tenantID string, fn func(record *core.EmbeddingRecord) error) error

	// UpdateVectors rewrites the vectors of existing records in place.
	// Payload fields are untouched. Returns ErrNotFound if any record
	// doesn't exist. Used by re-embedding migration.
	UpdateVectors(ctx context.Context, tenantID string, records ...*core.EmbeddingRecord) error

	// DeleteDocument removes every record belonging to one document.
	// Returns the number of records removed.
	DeleteDocument(ctx context.Context, tenantID string, documentID string) (int, error)

	// DeleteTenant removes every record for the tenant; used for full
	// document-set reset. Returns the number of records removed.
	DeleteTenant(ctx context.Context, tenantID string) (int, error)

	// CountRecords returns the number of embedding records stored for the tenant.
	CountRecords(ctx context.Context, tenantID string) (int, error)

	// CountDocuments returns the number of distinct documents stored for the
	// tenant. Callers use this to distinguish "no documents uploaded yet"
	// from "no relevant passages found".
	CountDocuments(ctx context.Context, tenantID string) (int, error)

	// Close closes the repository and releases resources.
	Close() error
}
