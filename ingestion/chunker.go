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

package ingestion

import (
	"github.com/poiesic/docquery/core"
)

const (
	// DefaultChunkSize is the chunk window width in runes.
	DefaultChunkSize = 2000

	// DefaultChunkOverlap is how many runes consecutive chunks share.
	DefaultChunkOverlap = 300
)

// Chunker splits extracted text into fixed-size overlapping windows.
// All offsets are rune offsets, so multi-byte text never splits a
// character in half.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. Size must be positive and overlap must be
// non-negative and strictly smaller than size, otherwise the window could
// never advance.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if overlap < 0 || overlap >= size {
		return nil, ErrInvalidChunkOverlap
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk splits text into windows of size runes, each starting size-overlap
// runes after the previous one. The final chunk may be shorter. Empty text
// produces no chunks.
func (c *Chunker) Chunk(documentID, text string) []core.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []core.Chunk

	for start := 0; ; start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, core.Chunk{
			DocumentID: documentID,
			Index:      len(chunks),
			Start:      start,
			End:        end,
			Text:       string(runes[start:end]),
		})

		if end == len(runes) {
			break
		}
	}

	return chunks
}
