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


// Package storage provides the vector store abstraction layer for docquery.
//
// This package defines the repository interface that decouples the vector
// index implementation from the ingestion and query pipelines. It allows for
// different backends (BadgerDB, in-memory, a remote vector service, etc.) to
// be used interchangeably.
//
// # Tenant Isolation
//
// The tenant id is a mandatory first argument of every repository operation.
// There is no unfiltered read or write path: backends key records by tenant so
// that candidate selection during search never visits another tenant's data.
// This is a structural guarantee, not a post-filter convention.
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.VectorRepository interface to
// enforce abstraction and enable multiple storage backend implementations:
//
//	repo, err := badger.NewVectorRepository(backend)  // returns storage.VectorRepository
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	repo, err := badger.NewVectorRepository(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines.
package storage
