package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a unique identifier for stored embedding records.
// It is generated using content-based hashing so that re-ingesting the same
// chunk always produces the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkID derives the stable record ID for a chunk from its parent document
// and zero-based chunk index. Re-ingestion of the same document yields the
// same IDs, which makes upserts idempotent.
func ChunkID(documentID string, index int) ID {
	return IDFromContent(documentID + ":" + strconv.Itoa(index))
}

// Format identifies the source format of an uploaded document.
// It is a closed set; anything else is rejected during extraction.
type Format int

const (
	// FormatPDF represents PDF documents.
	FormatPDF Format = iota + 1
	// FormatPlainText represents plain UTF-8 text documents.
	FormatPlainText
	// FormatMarkdown represents Markdown documents.
	FormatMarkdown
)

// String returns the canonical short name of the format.
func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatPlainText:
		return "txt"
	case FormatMarkdown:
		return "md"
	default:
		return "unknown"
	}
}

// Document represents a single uploaded document after text extraction.
// A document is owned by exactly one tenant and is immutable once ingested,
// except for deletion.
type Document struct {
	Id        string
	TenantID  string
	Filename  string
	Format    Format
	Text      string
	CreatedAt time.Time
}

// NewDocument creates a document with a fresh ID and creation timestamp.
// Text is filled in after extraction.
func NewDocument(tenantID, filename string, format Format) *Document {
	return &Document{
		Id:        uuid.NewString(),
		TenantID:  tenantID,
		Filename:  filename,
		Format:    format,
		CreatedAt: time.Now().UTC(),
	}
}

// Chunk is a bounded, overlapping substring of a document's extracted text.
// Start and End are rune offsets into the parent text ([Start, End)).
// Chunks ordered by Index cover the full text with overlapping boundaries.
type Chunk struct {
	DocumentID string
	Index      int
	Start      int
	End        int
	Text       string
}

// EmbeddingRecord is the unit stored in the vector index: a chunk vector plus
// the payload needed for citation. Records are created at ingestion time,
// never mutated (except by re-embedding migration), and deleted with the
// owning document or tenant.
type EmbeddingRecord struct {
	Id         ID
	TenantID   string
	DocumentID string
	Filename   string
	ChunkIndex int
	Text       string
	Vector     []float32
	Seq        uint64    // Insertion sequence, used for stable tie-breaking
	InsertedAt time.Time // When the record was inserted into the store
}

// Passage is a ranked retrieval result carrying enough payload for citation.
// Score is cosine similarity in [-1, 1], higher is more relevant.
type Passage struct {
	Score      float32
	DocumentID string
	Filename   string
	ChunkIndex int
	Text       string
}

// SearchResult represents a vector search hit with the full record and
// relevance score.
type SearchResult struct {
	Record *EmbeddingRecord
	Score  float32
}

// Passage converts a search result into the citation payload returned to callers.
func (r *SearchResult) Passage() Passage {
	return Passage{
		Score:      r.Score,
		DocumentID: r.Record.DocumentID,
		Filename:   r.Record.Filename,
		ChunkIndex: r.Record.ChunkIndex,
		Text:       r.Record.Text,
	}
}
