package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/poiesic/docquery/core"
)

// minExtractedLength is the minimum number of characters extraction must
// produce for a document to be considered readable. Scanned or image-only
// PDFs typically yield empty or near-empty text and are rejected here.
const minExtractedLength = 1

var whitespaceRun = regexp.MustCompile(`\s+`)

// Extract converts source file bytes into a single normalized UTF-8 text
// stream. It is a pure function of its input: no side effects, deterministic
// output. Failures are typed (core.ErrUnsupportedFormat,
// core.ErrExtractionFailed) and recoverable per document.
func Extract(ctx context.Context, data []byte, format core.Format) (string, error) {
	var text string
	var err error

	switch format {
	case core.FormatPlainText:
		text, err = extractPlainText(data)
	case core.FormatMarkdown:
		text, err = extractMarkdown(data)
	case core.FormatPDF:
		text, err = extractPDF(ctx, data)
	default:
		return "", fmt.Errorf("%w: %d", core.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return "", err
	}

	text = normalizeWhitespace(text)
	if len(text) < minExtractedLength {
		return "", fmt.Errorf("%w: no readable text", core.ErrExtractionFailed)
	}
	return text, nil
}

// normalizeWhitespace collapses whitespace runs into single spaces and trims
// the result, so chunk boundaries don't fall inside runs of newlines.
func normalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
