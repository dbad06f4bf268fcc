package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", e.cfg.OCRLanguage}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}

// tesseractConfidence runs tesseract in TSV mode and returns the mean
// confidence over positive-confidence detections, scaled to 0..1. Returns 0
// when nothing was detected.
func (e *Extractor) tesseractConfidence(ctx context.Context, path string) (float64, error) {
	args := []string{path, "stdout", "-l", e.cfg.OCRLanguage}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract tsv: %w (%s)", err, truncate(string(errb), 512))
	}

	var sum, n float64
	for i, ln := range strings.Split(string(out), "\n") {
		if i == 0 || ln == "" {
			continue // header
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		v, err := strconv.ParseFloat(cols[len(cols)-2], 64)
		if err != nil || v <= 0 {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / n / 100.0, nil
}

// ocrPDF rasterizes every page with pdftoppm and OCRs each image, returning
// the page-delimited full text and the per-page texts.
func (e *Extractor) ocrPDF(ctx context.Context, path string) (string, []string, error) {
	tmpDir, err := os.MkdirTemp("", "fa-ocr-*")
	if err != nil {
		return "", nil, err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			e.logger.Warn("extract.ocr.tmp_cleanup_failed", "dir", tmpDir, "error", rerr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", strconv.Itoa(e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", nil, fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", nil, fmt.Errorf("pdftoppm produced no images")
	}

	var all strings.Builder
	var pages []string
	for i, img := range matches {
		txt, oerr := e.tesseractOCR(ctx, img)
		if oerr != nil {
			e.logger.Warn("extract.ocr.page_failed", "image", img, "error", oerr)
			txt = ""
		}
		txt = NormalizeOCR(txt)
		pages = append(pages, txt)
		fmt.Fprintf(&all, "\n--- Page %d (OCR) ---\n%s", i+1, txt)
	}
	return all.String(), pages, nil
}
