// Package export renders processed forms for download: indented JSON, a
// markdown summary report, and an XLSX field workbook.
package export

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/form-agent/internal/agent"
	"github.com/joseph-ayodele/form-agent/internal/tools"
)

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// FormJSON renders one processed form as indented JSON.
func (s *Service) FormJSON(form *agent.ProcessedForm) ([]byte, error) {
	return form.ToJSON()
}

// SummaryReport renders a human-readable markdown report for one form and its
// summary.
func (s *Service) SummaryReport(form *agent.ProcessedForm, sum tools.SummaryResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Form Summary Report\n")
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "File: %s\n", form.SourcePath)
	fmt.Fprintf(&b, "Type: %s\n", form.FormType)
	fmt.Fprintf(&b, "Extraction Confidence: %.1f%%\n", form.Confidence*100)

	fmt.Fprintf(&b, "\n## Summary\n%s\n", sum.Summary)

	b.WriteString("\n## Key Points\n")
	for _, p := range sum.KeyPoints {
		fmt.Fprintf(&b, "- %s\n", p)
	}

	b.WriteString("\n## Important Values\n")
	for _, k := range sortedKeys(sum.ImportantValues) {
		fmt.Fprintf(&b, "- **%s**: %v\n", k, sum.ImportantValues[k])
	}

	b.WriteString("\n## All Extracted Fields\n")
	for _, k := range sortedKeys(form.Fields) {
		fmt.Fprintf(&b, "- **%s**: %v\n", k, form.Fields[k])
	}
	return b.String()
}

// FieldsXLSX returns an XLSX workbook (as bytes) with one row per extracted
// field across the given forms.
func (s *Service) FieldsXLSX(forms []*agent.ProcessedForm) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Fields"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet excelize creates
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{"Source", "Form Type", "Confidence", "Field", "Value"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, form := range forms {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		if len(form.Fields) == 0 {
			write(1, form.SourcePath)
			write(2, form.FormType)
			write(3, form.Confidence)
			row++
			continue
		}
		for _, k := range sortedKeys(form.Fields) {
			write(1, form.SourcePath)
			write(2, form.FormType)
			write(3, form.Confidence)
			write(4, k)
			write(5, fmt.Sprintf("%v", form.Fields[k]))
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.fields_xlsx.ok",
		"forms", len(forms),
		"rows", row-2,
		"bytes", buf.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
