package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"

	"github.com/poiesic/docquery/core"
)

// extractPDF extracts text from PDF bytes, one page at a time.
// Scanned or image-only PDFs parse successfully but yield no text; the
// length check in Extract turns that into core.ErrExtractionFailed.
func extractPDF(ctx context.Context, data []byte) (string, error) {
	loader := documentloaders.NewPDF(bytes.NewReader(data), int64(len(data)))

	docs, err := loader.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrExtractionFailed, err)
	}

	var sb strings.Builder
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(doc.PageContent)
	}
	return sb.String(), nil
}
