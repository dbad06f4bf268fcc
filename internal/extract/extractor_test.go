package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/form-agent/constants"
	"github.com/joseph-ayodele/form-agent/internal/common"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractMissingPath(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	doc, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestExtractPlainText(t *testing.T) {
	path := writeFile(t, "note.txt", "hello world\nsecond line\n")
	e := NewExtractor(Config{}, nil)

	doc, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, constants.TEXT, doc.Format)
	assert.Equal(t, MethodText, doc.Method)
	assert.Equal(t, "hello world\nsecond line", doc.Text)
	assert.Empty(t, doc.Tables)
	assert.NotNil(t, doc.Tables)
	assert.Equal(t, 24, doc.Metadata["char_count"])
	assert.Equal(t, 3, doc.Metadata["line_count"])
}

func TestExtractUnknownExtensionIsText(t *testing.T) {
	path := writeFile(t, "weird.xyz", "payload")
	e := NewExtractor(Config{}, nil)

	doc, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, constants.TEXT, doc.Format)
}

func TestExtractLatin1Fallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin.txt")
	// "café" in Latin-1: 0xE9 is not valid UTF-8
	require.NoError(t, os.WriteFile(path, []byte{'c', 'a', 'f', 0xE9}, 0o644))
	e := NewExtractor(Config{}, nil)

	doc, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "café", doc.Text)
}

func TestExtractCSV(t *testing.T) {
	path := writeFile(t, "data.csv", "Name,Amount\nAlice,100\nBob,200\n")
	e := NewExtractor(Config{}, nil)

	doc, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, constants.CSV, doc.Format)
	require.Len(t, doc.Tables, 1)
	require.Len(t, doc.Tables[0], 3)
	assert.Equal(t, []string{"Name", "Amount"}, doc.Tables[0][0])
	assert.Equal(t, []string{"Alice", "100"}, doc.Tables[0][1])
	assert.Equal(t, []string{"Bob", "200"}, doc.Tables[0][2])
	assert.NotContains(t, doc.Metadata, "error")
}

func TestExtractCSVRaggedRows(t *testing.T) {
	path := writeFile(t, "ragged.csv", "a,b,c\n1,2\nx,y,z,extra\n")
	e := NewExtractor(Config{}, nil)

	doc, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, doc.Tables, 1)
	assert.Len(t, doc.Tables[0], 3)
}

func TestExtractJSONArrayTable(t *testing.T) {
	content := `[
  {"name": "Alice", "amount": 100, "active": true},
  {"amount": 200.5, "name": "Bob"}
]`
	path := writeFile(t, "rows.json", content)
	e := NewExtractor(Config{}, nil)

	doc, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, constants.JSON, doc.Format)
	require.Len(t, doc.Tables, 1)
	table := doc.Tables[0]
	require.Len(t, table, 3)
	// header follows the first object's key order
	assert.Equal(t, []string{"name", "amount", "active"}, table[0])
	assert.Equal(t, []string{"Alice", "100", "true"}, table[1])
	// missing key stringifies to empty
	assert.Equal(t, []string{"Bob", "200.5", ""}, table[2])
}

func TestExtractJSONNotATable(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"object", `{"a": 1}`},
		{"empty array", `[]`},
		{"array of scalars", `[1, 2, 3]`},
		{"invalid", `{not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "doc.json", tt.content)
			e := NewExtractor(Config{}, nil)

			doc, err := e.Extract(context.Background(), path)
			require.NoError(t, err)
			assert.Empty(t, doc.Tables)
		})
	}
}

func TestExtractHTMLRendersMarkdown(t *testing.T) {
	path := writeFile(t, "page.html", "<html><body><h1>Title</h1><p>Some <b>bold</b> text.</p></body></html>")
	e := NewExtractor(Config{}, nil)

	doc, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, constants.HTML, doc.Format)
	assert.Contains(t, doc.Text, "Title")
	assert.NotContains(t, doc.Text, "<h1>")
	assert.Equal(t, "markdown", doc.Metadata["html_rendered"])
	// raw HTML is preserved as the single page
	require.Len(t, doc.Pages, 1)
	assert.Contains(t, doc.Pages[0], "<h1>")
}

func TestExtractImageOCRDisabled(t *testing.T) {
	path := writeFile(t, "scan.png", "not really a png")
	e := NewExtractor(Config{OCREnabled: false}, nil)

	doc, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, constants.IMAGE, doc.Format)
	assert.Empty(t, doc.Text)
	assert.Equal(t, "OCR disabled", doc.Metadata["error"])
}
