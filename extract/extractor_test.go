package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docquery/core"
)

func TestExtract_PlainText(t *testing.T) {
	ctx := context.Background()

	text, err := Extract(ctx, []byte("Hello, world!"), core.FormatPlainText)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", text)
}

func TestExtract_NormalizesWhitespace(t *testing.T) {
	ctx := context.Background()

	text, err := Extract(ctx, []byte("  line one\n\n\tline   two  \n"), core.FormatPlainText)
	require.NoError(t, err)
	assert.Equal(t, "line one line two", text)
}

func TestExtract_InvalidUTF8(t *testing.T) {
	ctx := context.Background()

	_, err := Extract(ctx, []byte{0xff, 0xfe, 0xfd}, core.FormatPlainText)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrExtractionFailed))
}

func TestExtract_EmptyInput(t *testing.T) {
	ctx := context.Background()

	_, err := Extract(ctx, []byte("   \n\t  "), core.FormatPlainText)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrExtractionFailed))
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	ctx := context.Background()

	_, err := Extract(ctx, []byte("content"), core.Format(99))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnsupportedFormat))
}

func TestExtract_MalformedPDF(t *testing.T) {
	ctx := context.Background()

	_, err := Extract(ctx, []byte("not a pdf at all"), core.FormatPDF)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrExtractionFailed))
}

func TestExtract_Deterministic(t *testing.T) {
	ctx := context.Background()
	data := []byte("# Title\n\nSome *emphasized* prose.")

	first, err := Extract(ctx, data, core.FormatMarkdown)
	require.NoError(t, err)
	second, err := Extract(ctx, data, core.FormatMarkdown)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
