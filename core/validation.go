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

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ParseFormat maps a declared format name to a Format.
// Accepted names: "pdf", "txt", "md" (plus the common aliases "text" and
// "markdown"). Anything else is rejected with ErrUnsupportedFormat.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pdf":
		return FormatPDF, nil
	case "txt", "text":
		return FormatPlainText, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatFromFilename resolves a document format from a filename extension.
// Unknown extensions are rejected rather than passed to a text decoder.
func FormatFromFilename(filename string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return 0, fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, filename)
	}
	format, err := ParseFormat(ext)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
	return format, nil
}

// ValidateFormat validates that a Format has a valid value.
func ValidateFormat(format Format) error {
	switch format {
	case FormatPDF, FormatPlainText, FormatMarkdown:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}
}

// ValidateTenantID checks that a tenant id is usable as a storage key
// segment. Tenant ids must be non-empty and must not contain ':', which
// delimits key segments in the store; a tenant id containing the delimiter
// could place its records inside another tenant's iteration prefix.
func ValidateTenantID(tenantID string) error {
	if tenantID == "" {
		return ErrEmptyTenant
	}
	if strings.ContainsRune(tenantID, ':') {
		return fmt.Errorf("%w: %q must not contain ':'", ErrInvalidTenantID, tenantID)
	}
	return nil
}

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - TenantID must not be empty
//   - Filename must not be empty
//   - Format must be valid
//
// NOT validated:
//   - Text (empty text surfaces as ErrEmptyContent during chunking)
//   - Id (assigned by the ingestion pipeline)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if doc.TenantID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyTenant)
	}
	if doc.Filename == "" {
		return fmt.Errorf("%w: filename cannot be empty", ErrInvalidDocument)
	}
	if err := ValidateFormat(doc.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return nil
}

// ValidateEmbeddingRecord checks that a record is complete enough to store
// and that it belongs to the given tenant.
func ValidateEmbeddingRecord(tenantID string, record *EmbeddingRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidDocument)
	}
	if err := ValidateTenantID(tenantID); err != nil {
		return err
	}
	if record.TenantID != tenantID {
		return fmt.Errorf("%w: record belongs to %q, operation scoped to %q",
			ErrTenantMismatch, record.TenantID, tenantID)
	}
	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: record %d has no vector", ErrInvalidDocument, record.Id)
	}
	return nil
}
