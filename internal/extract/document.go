package extract

import (
	"path/filepath"
	"time"
)

// Extraction method tags recorded on every document.
const (
	MethodNative = "native"
	MethodOCR    = "ocr"
	MethodText   = "text"
)

// Table is an ordered grid of trimmed cell strings. Rows may be ragged.
type Table [][]string

// Document is the canonical text+table representation of one source file,
// independent of the format it came from. Text is always set (possibly empty),
// Tables and Metadata are always non-nil.
type Document struct {
	SourcePath  string         `json:"source_path"`
	Format      string         `json:"format"`
	Text        string         `json:"text"`
	Pages       []string       `json:"pages,omitempty"`
	Tables      []Table        `json:"tables"`
	Metadata    map[string]any `json:"metadata"`
	Method      string         `json:"extraction_method"`
	ExtractedAt time.Time      `json:"extracted_at"`
}

// Name returns the base name of the source file.
func (d *Document) Name() string {
	return filepath.Base(d.SourcePath)
}

func newDocument(path, format, method string) *Document {
	return &Document{
		SourcePath:  path,
		Format:      format,
		Tables:      []Table{},
		Metadata:    map[string]any{},
		Method:      method,
		ExtractedAt: time.Now(),
	}
}
