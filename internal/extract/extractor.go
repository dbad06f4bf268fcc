// Package extract normalizes heterogeneous source files (PDF, scanned images,
// text, CSV, JSON, HTML, markdown) into a canonical text+table Document.
//
// Only a missing source file is an error. Every other failure (broken PDF,
// OCR unavailable, bad JSON body) degrades to a partially-filled document with
// a diagnostic note in Metadata, so one bad file never aborts a batch.
package extract

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/form-agent/constants"
	"github.com/joseph-ayodele/form-agent/internal/common"
)

type Config struct {
	OCREnabled  bool
	OCRLanguage string // default "eng"
	DPI         int    // rasterization DPI for scanned PDFs, default 300
	MaxPages    int    // 0 = no limit

	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TessdataDir string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.OCRLanguage == "" {
		cfg.OCRLanguage = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = constants.DefaultOCRDPI
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Extract classifies the file by extension and dispatches to the matching
// extraction strategy. It fails only when the path does not exist.
func (e *Extractor) Extract(ctx context.Context, path string) (*Document, error) {
	start := time.Now()

	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	if _, err := os.Stat(path); err != nil {
		e.logger.Error("extract.not_found", "path", path, "error", err)
		return nil, common.NewAppError("EXTRACT_NOT_FOUND", "document not found: "+path, common.ErrNotFound)
	}

	format := constants.MapExtToFormat(filepath.Ext(path))
	e.logger.Debug("extract.start", "path", path, "format", format)

	var doc *Document
	switch format {
	case constants.PDF:
		doc = e.extractPDF(ctx, path)
	case constants.IMAGE:
		doc = e.extractImage(ctx, path)
	default:
		doc = e.extractText(path, format)
	}

	e.logger.Info("extract.ok",
		"path", path,
		"format", doc.Format,
		"method", doc.Method,
		"text_len", len(doc.Text),
		"tables", len(doc.Tables),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return doc, nil
}
