package extract

import (
	"fmt"
	"unicode/utf8"

	"github.com/poiesic/docquery/core"
)

// extractPlainText decodes plain text bytes, requiring valid UTF-8.
// Binary files declared as text are rejected rather than passed through.
func extractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: content is not valid UTF-8", core.ErrExtractionFailed)
	}
	return string(data), nil
}
