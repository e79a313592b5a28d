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

// Package search provides semantic retrieval over stored documents.
//
// A query is embedded once, the tenant's candidate vectors are scored by
// cosine similarity, and the top passages come back with enough payload
// for citation. Retrieval is strictly tenant-scoped: candidate selection
// never crosses a tenant boundary. The optional Ask path feeds retrieved
// passages to an answer generator.
package search
