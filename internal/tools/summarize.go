package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/form-agent/internal/extract"
	"github.com/joseph-ayodele/form-agent/internal/llm"
)

const summarizeSystemPrompt = `You are an expert at summarizing form documents.

Create summaries that:
1. Identify the form type and purpose
2. Highlight the most important information
3. List key data points and values
4. Note any unusual or notable items
5. Be concise but comprehensive

Format the summary clearly with key points and important values.`

// Style selects the summary register. It changes only the instruction text,
// never the schema.
type Style string

const (
	StyleBrief        Style = "brief"
	StyleDetailed     Style = "detailed"
	StyleBulletPoints Style = "bullet_points"
)

func (s Style) instruction() string {
	switch s {
	case StyleBrief:
		return "Create a 2-3 sentence summary."
	case StyleBulletPoints:
		return "Create a bullet-point summary of key information."
	default:
		return "Create a comprehensive summary with all important details."
	}
}

// Summarization produces a structured summary of one document.
type Summarization struct {
	proto   *llm.Protocol
	budgets Budgets
	schema  llm.Schema
}

func NewSummarization(proto *llm.Protocol, budgets Budgets) *Summarization {
	return &Summarization{
		proto:   proto,
		budgets: budgets.withDefaults(),
		schema: llm.Schema{
			Properties: []llm.Property{
				{Name: "summary", Kind: llm.KindString, Description: "The document summary"},
				{Name: "key_points", Kind: llm.KindList, Items: llm.KindString, Description: "List of key points from the document"},
				{Name: "form_type", Kind: llm.KindString, Description: "Type of form"},
				{Name: "important_values", Kind: llm.KindObject, Description: "Dictionary of the most important values"},
			},
			Required: []string{"summary", "key_points", "form_type", "important_values"},
		},
	}
}

func (t *Summarization) Kind() Kind { return KindSummarize }

func (t *Summarization) Run(ctx context.Context, doc *extract.Document, fields map[string]any, style Style) (SummaryResult, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize this form document.\n\n%s\n\n<document>\n%s\n</document>\n",
		style.instruction(), clip(doc.Text, t.budgets.TextBudget))
	if len(fields) > 0 {
		fmt.Fprintf(&b, "\nExtracted fields:\n%s\n", indentJSON(fields))
	}

	res, err := t.proto.Run(ctx, b.String(), summarizeSystemPrompt, t.schema)
	if err != nil {
		return SummaryResult{}, err
	}

	return SummaryResult{
		Summary:         asString(res, "summary", ""),
		KeyPoints:       asStringList(res, "key_points"),
		FormType:        asString(res, "form_type", "unknown"),
		ImportantValues: asMap(res, "important_values"),
	}, nil
}
