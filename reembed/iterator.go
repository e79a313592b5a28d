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

package reembed

import (
	"context"

	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
)

const (
	// DefaultBatchSize is the default number of records to collect per batch
	DefaultBatchSize = 100
)

// RecordIterator streams a tenant's embedding records in batches.
type RecordIterator struct {
	repo      storage.VectorRepository
	batchSize int
}

// NewRecordIterator creates a new record iterator.
// batchSize: number of records per batch (must be > 0)
func NewRecordIterator(repo storage.VectorRepository, batchSize int) *RecordIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &RecordIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach iterates over the tenant's records, calling fn for each batch.
// Iteration stops on the first error from fn. Context cancellation is
// checked between records by the underlying repository scan.
func (it *RecordIterator) ForEach(ctx context.Context, tenantID string, fn func([]*core.EmbeddingRecord) error) error {
	batch := make([]*core.EmbeddingRecord, 0, it.batchSize)

	err := it.repo.AllRecords(ctx, tenantID, func(record *core.EmbeddingRecord) error {
		batch = append(batch, record)
		if len(batch) < it.batchSize {
			return nil
		}

		if err := fn(batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	})
	if err != nil {
		return err
	}

	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}
