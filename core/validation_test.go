package core

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr error
	}{
		{name: "pdf", input: "pdf", want: FormatPDF},
		{name: "txt", input: "txt", want: FormatPlainText},
		{name: "text alias", input: "text", want: FormatPlainText},
		{name: "md", input: "md", want: FormatMarkdown},
		{name: "markdown alias", input: "markdown", want: FormatMarkdown},
		{name: "uppercase", input: "PDF", want: FormatPDF},
		{name: "padded", input: " txt ", want: FormatPlainText},
		{name: "unknown", input: "docx", wantErr: ErrUnsupportedFormat},
		{name: "empty", input: "", wantErr: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseFormat(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Format
		wantErr  error
	}{
		{name: "pdf file", filename: "report.pdf", want: FormatPDF},
		{name: "text file", filename: "notes.txt", want: FormatPlainText},
		{name: "markdown file", filename: "README.md", want: FormatMarkdown},
		{name: "nested path", filename: "docs/guide/intro.md", want: FormatMarkdown},
		{name: "unknown extension", filename: "image.png", wantErr: ErrUnsupportedFormat},
		{name: "no extension", filename: "Makefile", wantErr: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatFromFilename(tt.filename)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("FormatFromFilename(%q) error = %v, want %v", tt.filename, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FormatFromFilename(%q) unexpected error: %v", tt.filename, err)
			}
			if got != tt.want {
				t.Errorf("FormatFromFilename(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid document",
			doc: &Document{
				TenantID: "tenant-a",
				Filename: "notes.txt",
				Format:   FormatPlainText,
			},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name: "missing tenant",
			doc: &Document{
				Filename: "notes.txt",
				Format:   FormatPlainText,
			},
			wantErr: ErrEmptyTenant,
		},
		{
			name: "missing filename",
			doc: &Document{
				TenantID: "tenant-a",
				Format:   FormatPlainText,
			},
			wantErr: ErrInvalidDocument,
		},
		{
			name: "invalid format",
			doc: &Document{
				TenantID: "tenant-a",
				Filename: "notes.bin",
				Format:   Format(42),
			},
			wantErr: ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTenantID(t *testing.T) {
	for _, tenantID := range []string{"acme", "tenant-a", "tenant_42"} {
		if err := ValidateTenantID(tenantID); err != nil {
			t.Errorf("ValidateTenantID(%q) unexpected error: %v", tenantID, err)
		}
	}

	if err := ValidateTenantID(""); !errors.Is(err, ErrEmptyTenant) {
		t.Errorf("ValidateTenantID(\"\"): error = %v, want ErrEmptyTenant", err)
	}

	// ':' separates key segments in storage, so a tenant id carrying it
	// could alias another tenant's key range.
	for _, tenantID := range []string{"a:b", ":", "acme:"} {
		if err := ValidateTenantID(tenantID); !errors.Is(err, ErrInvalidTenantID) {
			t.Errorf("ValidateTenantID(%q): error = %v, want ErrInvalidTenantID", tenantID, err)
		}
	}
}

func TestValidateEmbeddingRecord(t *testing.T) {
	valid := &EmbeddingRecord{
		Id:         ChunkID("doc-1", 0),
		TenantID:   "tenant-a",
		DocumentID: "doc-1",
		Filename:   "notes.txt",
		Text:       "some text",
		Vector:     []float32{0.1, 0.2, 0.3},
	}

	if err := ValidateEmbeddingRecord("tenant-a", valid); err != nil {
		t.Fatalf("ValidateEmbeddingRecord() unexpected error: %v", err)
	}

	if err := ValidateEmbeddingRecord("tenant-b", valid); !errors.Is(err, ErrTenantMismatch) {
		t.Errorf("ValidateEmbeddingRecord() with wrong tenant: error = %v, want ErrTenantMismatch", err)
	}

	if err := ValidateEmbeddingRecord("", valid); !errors.Is(err, ErrEmptyTenant) {
		t.Errorf("ValidateEmbeddingRecord() with empty tenant: error = %v, want ErrEmptyTenant", err)
	}

	noVector := *valid
	noVector.Vector = nil
	if err := ValidateEmbeddingRecord("tenant-a", &noVector); err == nil {
		t.Errorf("ValidateEmbeddingRecord() with no vector: expected error, got nil")
	}
}
