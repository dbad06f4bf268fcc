package extract

import (
	"context"
	"fmt"
	"strings"

	pdf "github.com/dslipak/pdf"

	"github.com/joseph-ayodele/form-agent/constants"
)

// extractPDF reads native text page by page. When the whole document yields no
// text (scanned PDFs) and OCR is enabled, it falls back to rasterizing every
// page and running OCR. OCR failures are best-effort: the document keeps
// whatever partial result is already there, with the error noted in metadata.
func (e *Extractor) extractPDF(ctx context.Context, path string) *Document {
	doc := newDocument(path, constants.PDF, MethodNative)

	if err := e.pdfNativeText(path, doc); err != nil {
		doc.Metadata["error"] = err.Error()
		e.logger.Warn("extract.pdf.native_failed", "path", path, "error", err)
	}

	if strings.TrimSpace(doc.Text) == "" && e.cfg.OCREnabled {
		text, pages, err := e.ocrPDF(ctx, path)
		if err != nil {
			doc.Metadata["error"] = fmt.Sprintf("ocr fallback failed: %v", err)
			e.logger.Warn("extract.pdf.ocr_failed", "path", path, "error", err)
		} else {
			doc.Text = strings.TrimSpace(text)
			doc.Pages = pages
			doc.Method = MethodOCR
			doc.Metadata["ocr_used"] = true
		}
	}
	return doc
}

// pdfNativeText fills doc with per-page text, a page-delimited full text,
// tables recovered from layout, and a page count.
func (e *Extractor) pdfNativeText(path string, doc *Document) (err error) {
	// dslipak/pdf panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	r, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("open pdf: %w", err)
	}
	doc.Metadata["page_count"] = r.NumPage()

	var all strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		pageText := ""
		p := r.Page(i)
		if !p.V.IsNull() {
			if txt, terr := p.GetPlainText(nil); terr == nil {
				pageText = txt
			} else {
				e.logger.Warn("extract.pdf.page_failed", "path", path, "page", i, "error", terr)
			}
		}
		doc.Pages = append(doc.Pages, pageText)
		fmt.Fprintf(&all, "\n--- Page %d ---\n%s", i, pageText)
		doc.Tables = append(doc.Tables, tablesFromPageText(pageText)...)
	}
	doc.Text = strings.TrimSpace(all.String())
	return nil
}
