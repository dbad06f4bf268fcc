package extract

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	htmltomd "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/joseph-ayodele/form-agent/constants"
)

// extractText handles every text-like format: plain text, markdown, HTML,
// CSV, and JSON. CSV parses into a single table; a JSON array of objects
// synthesizes one table in first-object key order. Parse failures are silent
// (the document keeps its raw text and a metadata note).
func (e *Extractor) extractText(path, format string) *Document {
	doc := newDocument(path, format, MethodText)

	b, err := os.ReadFile(path)
	if err != nil {
		doc.Metadata["error"] = err.Error()
		return doc
	}
	content := decodeText(b)

	doc.Text = strings.TrimSpace(content)
	doc.Pages = []string{content}
	doc.Metadata["char_count"] = len(content)
	doc.Metadata["line_count"] = strings.Count(content, "\n") + 1

	switch format {
	case constants.CSV:
		if t := parseCSVTable(content); len(t) > 0 {
			doc.Tables = append(doc.Tables, t)
		}
	case constants.JSON:
		if t := tableFromJSONArray(content); len(t) > 0 {
			doc.Tables = append(doc.Tables, t)
		}
	case constants.HTML:
		// canonical text is the markdown rendering; raw HTML stays in Pages
		if md, merr := htmltomd.ConvertString(content); merr == nil && strings.TrimSpace(md) != "" {
			doc.Text = strings.TrimSpace(md)
			doc.Metadata["html_rendered"] = "markdown"
		} else if merr != nil {
			e.logger.Warn("extract.html.convert_failed", "path", path, "error", merr)
		}
	}
	return doc
}

// decodeText never fails: invalid UTF-8 falls back to a Latin-1 decode.
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

// parseCSVTable reads CSV permissively: ragged rows are kept, quoting is lazy,
// and a row that fails to parse is skipped rather than aborting the table.
func parseCSVTable(content string) Table {
	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var t Table
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		t = append(t, rec)
	}
	return t
}

// tableFromJSONArray synthesizes a table from a non-empty JSON array of
// objects: the header row is the first object's keys in document order, each
// data row stringifies that object's values in the same order (missing keys
// become empty strings). Any parse failure yields no table.
func tableFromJSONArray(content string) Table {
	var rows []map[string]any
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil || len(rows) == 0 {
		return nil
	}

	headers := firstObjectKeys(content)
	if len(headers) == 0 {
		return nil
	}

	t := Table{headers}
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i] = stringifyCell(row[h])
		}
		t = append(t, cells)
	}
	return t
}

// firstObjectKeys walks the token stream to recover the first object's key
// order, which encoding/json maps do not preserve.
func firstObjectKeys(content string) []string {
	dec := json.NewDecoder(strings.NewReader(content))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('[') {
		return nil
	}
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	var keys []string
	depth := 0
	expectKey := true
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{', '[':
				depth++
				expectKey = false
			case '}', ']':
				if depth == 0 {
					return keys
				}
				depth--
				if depth == 0 {
					expectKey = true
				}
			}
		case string:
			if depth == 0 && expectKey {
				keys = append(keys, t)
				expectKey = false
				continue
			}
			if depth == 0 {
				expectKey = true
			}
		default:
			if depth == 0 {
				expectKey = true
			}
		}
	}
}

func stringifyCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
