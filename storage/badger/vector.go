package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
)

// VectorRepository implements storage.VectorRepository for BadgerDB.
//
// Records are keyed by tenant, so every read and write path starts from a
// tenant prefix. Candidate selection during Search iterates exactly one
// tenant's keyspace; there is no unfiltered scan to post-filter.
type VectorRepository struct {
	backend *Backend
	seq     *badger.Sequence
}

var _ storage.VectorRepository = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository.
func NewVectorRepository(backend *Backend) (*VectorRepository, error) {
	seq, err := backend.GetSequence(recordSeqName)
	if err != nil {
		return nil, err
	}

	return &VectorRepository{
		backend: backend,
		seq:     seq,
	}, nil
}

// Close releases the insertion sequence.
func (r *VectorRepository) Close() error {
	return r.seq.Release()
}

// checkTenant rejects operations on a closed backend or an invalid tenant id.
func (r *VectorRepository) checkTenant(tenantID string) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return core.ValidateTenantID(tenantID)
}

// UpsertRecords stores embedding records for the tenant, idempotently by
// record ID. Re-upserting an existing ID overwrites the payload and vector
// but keeps the original insertion sequence and timestamp, so re-ingestion
// never duplicates and never reshuffles tie-breaking order.
func (r *VectorRepository) UpsertRecords(ctx context.Context, tenantID string, records ...*core.EmbeddingRecord) (int, error) {
	if err := r.checkTenant(tenantID); err != nil {
		return 0, err
	}

	stored := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := core.ValidateEmbeddingRecord(tenantID, record); err != nil {
				return err
			}

			key := makeRecordKey(tenantID, record.Id)

			// Overwrites keep the original insertion sequence
			existing, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}
			if existing != nil {
				record.Seq = existing.Seq
				record.InsertedAt = existing.InsertedAt
			} else {
				next, err := r.seq.Next()
				if err != nil {
					return err
				}
				record.Seq = next
				record.InsertedAt = time.Now().UTC()
			}

			if err := tx.Set(key, storage.MarshalEmbeddingRecord(record)); err != nil {
				return err
			}

			docKey := makeDocIndexKey(tenantID, record.DocumentID, record.Id)
			if err := tx.Set(docKey, storage.MarshalID(record.Id)); err != nil {
				return err
			}
			stored++
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}

	return stored, nil
}

// Search finds the tenant's records most similar to the given vector.
// Scores are cosine similarity (dot product over unit vectors) in [-1, 1].
// Results are ordered by score descending, ties broken by insertion order.
func (r *VectorRepository) Search(ctx context.Context, tenantID string, vector []float32, limit int) ([]*core.SearchResult, error) {
	if err := r.checkTenant(tenantID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.SearchResult

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTenantPrefix(tenantID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.EmbeddingRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalEmbeddingRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil || len(record.Vector) == 0 {
				continue
			}
			// Key prefix match alone is not trusted: the payload's tenant
			// must agree before a record can be a candidate
			if record.TenantID != tenantID {
				continue
			}

			results = append(results, &core.SearchResult{
				Record: record,
				Score:  core.DotProduct(vector, record.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		// Equal scores: earlier insertion wins
		if a.Record.Seq < b.Record.Seq {
			return -1
		}
		if a.Record.Seq > b.Record.Seq {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// GetRecords retrieves the tenant's records by ID.
func (r *VectorRepository) GetRecords(ctx context.Context, tenantID string, ids ...core.ID) ([]*core.EmbeddingRecord, error) {
	if err := r.checkTenant(tenantID); err != nil {
		return nil, err
	}

	var result []*core.EmbeddingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := r.readRecord(tx, makeRecordKey(tenantID, id))
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	}, false)
	return result, err
}

// AllRecords iterates every record of the tenant in key order.
func (r *VectorRepository) AllRecords(ctx context.Context, tenantID string, fn func(record *core.EmbeddingRecord) error) error {
	if err := r.checkTenant(tenantID); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTenantPrefix(tenantID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			var record *core.EmbeddingRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalEmbeddingRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil || record.TenantID != tenantID {
				continue
			}
			if err := fn(record); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// UpdateVectors rewrites the vectors of existing records in place.
func (r *VectorRepository) UpdateVectors(ctx context.Context, tenantID string, records ...*core.EmbeddingRecord) error {
	if err := r.checkTenant(tenantID); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := core.ValidateEmbeddingRecord(tenantID, record); err != nil {
				return err
			}

			key := makeRecordKey(tenantID, record.Id)
			existing, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}
			if existing == nil {
				return storage.ErrNotFound
			}

			existing.Vector = record.Vector
			if err := tx.Set(key, storage.MarshalEmbeddingRecord(existing)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteDocument removes every record belonging to one document.
func (r *VectorRepository) DeleteDocument(ctx context.Context, tenantID string, documentID string) (int, error) {
	if err := r.checkTenant(tenantID); err != nil {
		return 0, err
	}

	deleted := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ids, err := r.collectDocRecordIDs(tx, tenantID, documentID)
		if err != nil {
			return err
		}

		for _, id := range ids {
			if err := tx.Delete(makeRecordKey(tenantID, id)); err != nil {
				return err
			}
			if err := tx.Delete(makeDocIndexKey(tenantID, documentID, id)); err != nil {
				return err
			}
			deleted++
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// DeleteTenant removes every record for the tenant.
func (r *VectorRepository) DeleteTenant(ctx context.Context, tenantID string) (int, error) {
	if err := r.checkTenant(tenantID); err != nil {
		return 0, err
	}

	deleted := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		keys, err := collectKeys(tx, makeTenantPrefix(tenantID))
		if err != nil {
			return err
		}
		docKeys, err := collectKeys(tx, makeTenantDocPrefix(tenantID))
		if err != nil {
			return err
		}

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
			deleted++
		}
		for _, key := range docKeys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// CountRecords returns the number of embedding records stored for the tenant.
func (r *VectorRepository) CountRecords(ctx context.Context, tenantID string) (int, error) {
	if err := r.checkTenant(tenantID); err != nil {
		return 0, err
	}

	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTenantPrefix(tenantID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// CountDocuments returns the number of distinct documents stored for the tenant.
func (r *VectorRepository) CountDocuments(ctx context.Context, tenantID string) (int, error) {
	if err := r.checkTenant(tenantID); err != nil {
		return 0, err
	}

	docs := make(map[string]struct{})
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTenantDocPrefix(tenantID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if docID := docIDFromIndexKey(tenantID, iter.Item().Key()); docID != "" {
				docs[docID] = struct{}{}
			}
		}
		return nil
	}, false)
	return len(docs), err
}

// readRecord reads and unmarshals a record, returning nil if the key is absent.
func (r *VectorRepository) readRecord(tx *badger.Txn, key []byte) (*core.EmbeddingRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.EmbeddingRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalEmbeddingRecord(val)
		return err
	})
	return record, err
}

// collectDocRecordIDs gathers the record IDs indexed under one document.
func (r *VectorRepository) collectDocRecordIDs(tx *badger.Txn, tenantID, documentID string) ([]core.ID, error) {
	var ids []core.ID

	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeDocPrefix(tenantID, documentID)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		// The raw record ID bytes at the end of an index key can contain
		// ':', so the parsed document segment is verified, not assumed
		if docIDFromIndexKey(tenantID, iter.Item().Key()) != documentID {
			continue
		}

		var id core.ID
		err := iter.Item().Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// collectKeys copies every key under a prefix.
func collectKeys(tx *badger.Txn, prefix []byte) ([][]byte, error) {
	var keys [][]byte

	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys, nil
}
