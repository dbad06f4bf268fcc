package extract

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/joseph-ayodele/form-agent/constants"
)

// extractImage runs OCR over a single image. With OCR disabled the document
// comes back empty, carrying a diagnostic note instead of an error.
func (e *Extractor) extractImage(ctx context.Context, path string) *Document {
	doc := newDocument(path, constants.IMAGE, MethodOCR)
	e.imageMeta(path, doc)

	if !e.cfg.OCREnabled {
		doc.Metadata["error"] = "OCR disabled"
		return doc
	}

	txt, err := e.tesseractOCR(ctx, path)
	if err != nil {
		doc.Metadata["error"] = err.Error()
		e.logger.Warn("extract.image.ocr_failed", "path", path, "error", err)
		return doc
	}
	txt = NormalizeOCR(txt)
	doc.Text = txt
	doc.Pages = []string{txt}

	conf, cerr := e.tesseractConfidence(ctx, path)
	if cerr != nil {
		e.logger.Warn("extract.image.confidence_failed", "path", path, "error", cerr)
	}
	doc.Metadata["ocr_confidence"] = conf
	return doc
}

// imageMeta records dimensions and color mode when the stdlib can decode the
// header; TIFF/BMP headers are simply skipped.
func (e *Extractor) imageMeta(path string, doc *Document) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return
	}
	doc.Metadata["image_width"] = cfg.Width
	doc.Metadata["image_height"] = cfg.Height
	doc.Metadata["image_format"] = strings.ToUpper(format)
}
