package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/form-agent/internal/extract"
	"github.com/joseph-ayodele/form-agent/internal/llm"
)

const extractSystemPrompt = `You are an expert form analyzer. Your task is to extract structured information from form documents.

Analyze the document carefully and:
1. Identify all key-value fields (names, dates, amounts, IDs, etc.)
2. Determine the form type (W-2, insurance claim, job application, etc.)
3. Rate your confidence in the extraction (0.0-1.0)
4. Explain your reasoning

For sensitive data like SSN, mask all but the last 4 digits (e.g., XXX-XX-1234).

Be thorough but precise. Only extract fields you're confident about.`

// FieldExtraction identifies key-value fields and a form-type label in one
// document.
type FieldExtraction struct {
	proto   *llm.Protocol
	budgets Budgets
	schema  llm.Schema
}

func NewFieldExtraction(proto *llm.Protocol, budgets Budgets) *FieldExtraction {
	return &FieldExtraction{
		proto:   proto,
		budgets: budgets.withDefaults(),
		schema: llm.Schema{
			Properties: []llm.Property{
				{Name: "fields", Kind: llm.KindObject, Description: "Dictionary of field names to values"},
				{Name: "form_type", Kind: llm.KindString, Description: "Type of form (e.g., W-2, insurance_claim, job_application)"},
				{Name: "confidence", Kind: llm.KindNumber, Description: "Confidence score 0.0-1.0"},
				{Name: "reasoning", Kind: llm.KindString, Description: "Explanation of extraction process"},
			},
			Required: []string{"fields", "form_type", "confidence", "reasoning"},
		},
	}
}

func (t *FieldExtraction) Kind() Kind { return KindExtract }

func (t *FieldExtraction) Run(ctx context.Context, doc *extract.Document) (ExtractionResult, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this form document and extract all fields:\n\n<document>\n%s\n</document>\n",
		clip(doc.Text, t.budgets.TextBudget))
	if len(doc.Tables) > 0 {
		tables := doc.Tables
		if len(tables) > t.budgets.TableLimit {
			tables = tables[:t.budgets.TableLimit]
		}
		fmt.Fprintf(&b, "\nTables found in document: %s\n", indentJSON(tables))
	}
	b.WriteString("\nExtract all key-value pairs, identify the form type, and rate your confidence.")

	res, err := t.proto.Run(ctx, b.String(), extractSystemPrompt, t.schema)
	if err != nil {
		return ExtractionResult{}, err
	}

	return ExtractionResult{
		Fields:     asMap(res, "fields"),
		FormType:   asString(res, "form_type", ""),
		Confidence: asFloat(res, "confidence"),
		Reasoning:  asString(res, "reasoning", ""),
	}, nil
}
