package ingestion

import (
	"strings"
	"testing"
)

func TestChunkerWindowsAndOverlap(t *testing.T) {
	chunker, err := NewChunker(2000, 300)
	if err != nil {
		t.Fatalf("NewChunker failed: %v", err)
	}

	text := strings.Repeat("a", 4500)
	chunks := chunker.Chunk("doc-1", text)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	spans := [][2]int{{0, 2000}, {1700, 3700}, {3400, 4500}}
	for i, want := range spans {
		if chunks[i].Start != want[0] || chunks[i].End != want[1] {
			t.Errorf("chunk %d: expected span [%d,%d), got [%d,%d)",
				i, want[0], want[1], chunks[i].Start, chunks[i].End)
		}
		if chunks[i].Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, chunks[i].Index)
		}
		if len([]rune(chunks[i].Text)) != want[1]-want[0] {
			t.Errorf("chunk %d: text length %d does not match span width %d",
				i, len([]rune(chunks[i].Text)), want[1]-want[0])
		}
	}
}

func TestChunkerShortText(t *testing.T) {
	chunker, err := NewChunker(2000, 300)
	if err != nil {
		t.Fatalf("NewChunker failed: %v", err)
	}

	chunks := chunker.Chunk("doc-1", "short document")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "short document" {
		t.Errorf("expected full text in single chunk, got %q", chunks[0].Text)
	}
	if chunks[0].Start != 0 || chunks[0].End != 14 {
		t.Errorf("expected span [0,14), got [%d,%d)", chunks[0].Start, chunks[0].End)
	}
}

func TestChunkerEmptyText(t *testing.T) {
	chunker, err := NewChunker(2000, 300)
	if err != nil {
		t.Fatalf("NewChunker failed: %v", err)
	}

	if chunks := chunker.Chunk("doc-1", ""); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
}

func TestChunkerRuneOffsets(t *testing.T) {
	chunker, err := NewChunker(4, 1)
	if err != nil {
		t.Fatalf("NewChunker failed: %v", err)
	}

	// Multi-byte runes must not be split
	chunks := chunker.Chunk("doc-1", "日本語のテキスト")
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "日本語の" {
		t.Errorf("unexpected first chunk: %q", chunks[0].Text)
	}
	if chunks[1].Text != "のテキス" {
		t.Errorf("unexpected second chunk: %q", chunks[1].Text)
	}
	if chunks[2].Text != "スト" {
		t.Errorf("unexpected third chunk: %q", chunks[2].Text)
	}
}

func TestChunkerCount(t *testing.T) {
	chunker, err := NewChunker(100, 20)
	if err != nil {
		t.Fatalf("NewChunker failed: %v", err)
	}

	// count = ceil((len - overlap) / (size - overlap)) for len > size
	tests := []struct {
		length int
		want   int
	}{
		{1, 1},
		{100, 1},
		{101, 2},
		{180, 2},
		{181, 3},
		{500, 6},
	}
	for _, tt := range tests {
		chunks := chunker.Chunk("doc-1", strings.Repeat("x", tt.length))
		if len(chunks) != tt.want {
			t.Errorf("length %d: expected %d chunks, got %d", tt.length, tt.want, len(chunks))
		}
	}
}

func TestNewChunkerRejectsBadConfig(t *testing.T) {
	if _, err := NewChunker(0, 0); err != ErrInvalidChunkSize {
		t.Errorf("expected ErrInvalidChunkSize, got %v", err)
	}
	if _, err := NewChunker(100, 100); err != ErrInvalidChunkOverlap {
		t.Errorf("expected ErrInvalidChunkOverlap, got %v", err)
	}
	if _, err := NewChunker(100, -1); err != ErrInvalidChunkOverlap {
		t.Errorf("expected ErrInvalidChunkOverlap, got %v", err)
	}
}
