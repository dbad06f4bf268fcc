package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/form-agent/constants"
)

func junkPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf at all"), 0o644))
	return path
}

func TestExtractPDFBrokenWithoutOCR(t *testing.T) {
	e := NewExtractor(Config{OCREnabled: false}, nil)

	doc, err := e.Extract(context.Background(), junkPDF(t))
	require.NoError(t, err)
	assert.Equal(t, constants.PDF, doc.Format)
	assert.Equal(t, MethodNative, doc.Method)
	assert.Empty(t, doc.Text)
	assert.Contains(t, doc.Metadata, "error")
}

func TestExtractPDFOCRFallback(t *testing.T) {
	e := NewExtractor(Config{OCREnabled: true}, nil)
	e.runner = stubRunner{run: func(name string, args []string) ([]byte, []byte, error) {
		if name == "pdftoppm" {
			prefix := args[len(args)-1]
			return nil, nil, os.WriteFile(fmt.Sprintf("%s-1.png", prefix), []byte("png"), 0o644)
		}
		return []byte("Scanned form text"), nil, nil
	}}

	doc, err := e.Extract(context.Background(), junkPDF(t))
	require.NoError(t, err)
	assert.Equal(t, MethodOCR, doc.Method)
	assert.Contains(t, doc.Text, "--- Page 1 (OCR) ---")
	assert.Contains(t, doc.Text, "Scanned form text")
	assert.Equal(t, true, doc.Metadata["ocr_used"])
	require.Len(t, doc.Pages, 1)
}

func TestExtractPDFOCRFallbackFailureDegrades(t *testing.T) {
	e := NewExtractor(Config{OCREnabled: true}, nil)
	e.runner = stubRunner{run: func(name string, args []string) ([]byte, []byte, error) {
		return nil, []byte("command not found"), fmt.Errorf("exit status 127")
	}}

	doc, err := e.Extract(context.Background(), junkPDF(t))
	require.NoError(t, err)
	assert.Equal(t, MethodNative, doc.Method)
	assert.Empty(t, doc.Text)
	assert.Contains(t, doc.Metadata["error"], "ocr fallback failed")
}
