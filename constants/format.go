package constants

import "strings"

// Canonical format tags for ingested documents.
const (
	PDF      = "pdf"
	IMAGE    = "image"
	TEXT     = "text"
	CSV      = "csv"
	JSON     = "json"
	HTML     = "html"
	MARKDOWN = "markdown"
)

// Formats holds every canonical format tag the extractor can emit.
var Formats = []string{PDF, IMAGE, TEXT, CSV, JSON, HTML, MARKDOWN}

// extToFormat is the closed extension lookup table. Anything absent maps to TEXT.
var extToFormat = map[string]string{
	"pdf":      PDF,
	"png":      IMAGE,
	"jpg":      IMAGE,
	"jpeg":     IMAGE,
	"tiff":     IMAGE,
	"tif":      IMAGE,
	"bmp":      IMAGE,
	"txt":      TEXT,
	"text":     TEXT,
	"json":     JSON,
	"csv":      CSV,
	"html":     HTML,
	"htm":      HTML,
	"md":       MARKDOWN,
	"markdown": MARKDOWN,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension (with or without dot) to a format tag.
// Unrecognized extensions are treated as plain text.
func MapExtToFormat(ext string) string {
	if f, ok := extToFormat[NormalizeExt(ext)]; ok {
		return f
	}
	return TEXT
}
