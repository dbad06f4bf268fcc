package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/form-agent/constants"
)

// stubRunner scripts external command output per binary name.
type stubRunner struct {
	run func(name string, args []string) (stdout, stderr []byte, err error)
}

func (s stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	return s.run(name, args)
}

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t100\t100\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t10\t10\t40\t12\t90\tINVOICE\n" +
	"5\t1\t1\t1\t1\t2\t60\t10\t40\t12\t80\tTOTAL\n"

func TestExtractImageWithOCR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))

	e := NewExtractor(Config{OCREnabled: true}, nil)
	e.runner = stubRunner{run: func(name string, args []string) ([]byte, []byte, error) {
		require.Equal(t, "tesseract", name)
		if args[len(args)-1] == "tsv" {
			return []byte(sampleTSV), nil, nil
		}
		return []byte("INVOICE\r\n\r\n\r\nTOTAL:\t100\n"), nil, nil
	}}

	doc, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, constants.IMAGE, doc.Format)
	assert.Equal(t, MethodOCR, doc.Method)
	// normalized: CRLF folded, tabs to spaces, blank runs collapsed
	assert.Equal(t, "INVOICE\n\nTOTAL: 100", doc.Text)
	require.Len(t, doc.Pages, 1)
	// mean of 90 and 80, scaled
	assert.InDelta(t, 0.85, doc.Metadata["ocr_confidence"], 1e-9)
}

func TestExtractImageOCRFailureDegrades(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))

	e := NewExtractor(Config{OCREnabled: true}, nil)
	e.runner = stubRunner{run: func(string, []string) ([]byte, []byte, error) {
		return nil, []byte("no such language pack"), errors.New("exit status 1")
	}}

	doc, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, doc.Text)
	assert.Contains(t, doc.Metadata["error"], "tesseract")
}

func TestTesseractConfidenceNoDetections(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	e.runner = stubRunner{run: func(string, []string) ([]byte, []byte, error) {
		return []byte("level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n"), nil, nil
	}}

	conf, err := e.tesseractConfidence(context.Background(), "x.png")
	require.NoError(t, err)
	assert.Zero(t, conf)
}

func TestTesseractOCRPassesLanguageAndTessdata(t *testing.T) {
	e := NewExtractor(Config{OCRLanguage: "deu", TessdataDir: "/opt/tessdata"}, nil)
	var got []string
	e.runner = stubRunner{run: func(_ string, args []string) ([]byte, []byte, error) {
		got = args
		return []byte("ok"), nil, nil
	}}

	_, err := e.tesseractOCR(context.Background(), "scan.png")
	require.NoError(t, err)
	assert.Equal(t, []string{"scan.png", "stdout", "-l", "deu", "--tessdata-dir", "/opt/tessdata"}, got)
}

func TestOCRPDFPagesInOrder(t *testing.T) {
	e := NewExtractor(Config{OCREnabled: true, MaxPages: 0}, nil)
	page := 0
	e.runner = stubRunner{run: func(name string, args []string) ([]byte, []byte, error) {
		if name == "pdftoppm" {
			// last arg is the output prefix; fake the rasterized pages
			prefix := args[len(args)-1]
			for i := 1; i <= 2; i++ {
				if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o644); err != nil {
					return nil, nil, err
				}
			}
			return nil, nil, nil
		}
		page++
		return []byte(fmt.Sprintf("page %d text", page)), nil, nil
	}}

	text, pages, err := e.ocrPDF(context.Background(), "scan.pdf")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "page 1 text", pages[0])
	assert.Equal(t, "page 2 text", pages[1])
	assert.Contains(t, text, "--- Page 1 (OCR) ---")
	assert.Contains(t, text, "--- Page 2 (OCR) ---")
}

func TestOCRPDFMaxPagesCap(t *testing.T) {
	e := NewExtractor(Config{OCREnabled: true, MaxPages: 1}, nil)
	e.runner = stubRunner{run: func(name string, args []string) ([]byte, []byte, error) {
		if name == "pdftoppm" {
			prefix := args[len(args)-1]
			for i := 1; i <= 3; i++ {
				if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o644); err != nil {
					return nil, nil, err
				}
			}
			return nil, nil, nil
		}
		return []byte("text"), nil, nil
	}}

	_, pages, err := e.ocrPDF(context.Background(), "scan.pdf")
	require.NoError(t, err)
	assert.Len(t, pages, 1)
}

func TestOCRPDFNoImages(t *testing.T) {
	e := NewExtractor(Config{OCREnabled: true}, nil)
	e.runner = stubRunner{run: func(name string, args []string) ([]byte, []byte, error) {
		return nil, nil, nil
	}}

	_, _, err := e.ocrPDF(context.Background(), "scan.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no images")
}

func TestNormalizeOCR(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"tabs", "a\t\tb", "a b"},
		{"box noise", "a\n----\nb", "a\n\nb"},
		{"blank runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"trailing spaces", "a   \nb", "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeOCR(tt.in))
		})
	}
}

func TestTablesFromPageText(t *testing.T) {
	text := strings.Join([]string{
		"Some header paragraph",
		"Item        Qty    Price",
		"Widget      2      10.00",
		"Gadget      1      25.00",
		"",
		"closing remark",
	}, "\n")

	tables := tablesFromPageText(text)
	require.Len(t, tables, 1)
	require.Len(t, tables[0], 3)
	assert.Equal(t, []string{"Item", "Qty", "Price"}, tables[0][0])
	assert.Equal(t, []string{"Widget", "2", "10.00"}, tables[0][1])
}

func TestTablesFromPageTextSingleRowIgnored(t *testing.T) {
	assert.Empty(t, tablesFromPageText("a  b  c\nplain line\nanother plain line"))
}

func TestTablesFromPageTextColumnChangeSplits(t *testing.T) {
	text := strings.Join([]string{
		"a  b",
		"c  d",
		"e  f  g",
		"h  i  j",
	}, "\n")
	tables := tablesFromPageText(text)
	require.Len(t, tables, 2)
	assert.Len(t, tables[0][0], 2)
	assert.Len(t, tables[1][0], 3)
}
