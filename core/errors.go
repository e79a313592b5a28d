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


package core

import "errors"

// Pipeline error taxonomy. Per-document failures wrap one of these so callers
// can classify them with errors.Is.
var (
	// ErrUnsupportedFormat indicates the declared document format is not in
	// the supported set (pdf, txt, md).
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtractionFailed indicates text extraction from the source bytes
	// failed. Recoverable at the per-document level: siblings in a batch
	// continue processing.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrEmptyContent indicates extraction produced no chunkable text.
	// A document with zero chunks is a failure, never a silent success.
	ErrEmptyContent = errors.New("document has no content")

	// ErrEmbeddingFailed indicates the embedding capability returned an
	// error. Retryable.
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	// ErrStorageFailed indicates the vector store returned an error. Retryable.
	ErrStorageFailed = errors.New("vector storage failed")

	// ErrTenantMismatch indicates a record carried a tenant id different from
	// the tenant the operation was scoped to. This is a caller bug and is
	// fatal to the request; it is never silently coerced.
	ErrTenantMismatch = errors.New("tenant mismatch")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyTenant indicates an operation was attempted without a tenant id.
	ErrEmptyTenant = errors.New("tenant id cannot be empty")

	// ErrInvalidTenantID indicates a tenant id contains characters reserved
	// by the storage key scheme.
	ErrInvalidTenantID = errors.New("invalid tenant id")
)
