package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/form-agent/internal/extract"
	"github.com/joseph-ayodele/form-agent/internal/llm"
)

const analyzeSystemPrompt = `You are an expert at analyzing multiple form documents together.

When analyzing multiple documents:
1. Compare similar fields across documents
2. Calculate statistics for numeric values (totals, averages, ranges)
3. Identify patterns and trends
4. Answer questions that require information from multiple documents
5. Provide insights that wouldn't be visible from individual documents

Be analytical and data-driven. Support conclusions with specific evidence.`

// CrossDocument analyzes several documents at once. Each document is
// represented to the model as a bounded preview plus its extracted fields,
// never the full text, to keep the multi-document prompt small.
type CrossDocument struct {
	proto   *llm.Protocol
	budgets Budgets
	schema  llm.Schema
}

func NewCrossDocument(proto *llm.Protocol, budgets Budgets) *CrossDocument {
	return &CrossDocument{
		proto:   proto,
		budgets: budgets.withDefaults(),
		schema: llm.Schema{
			Properties: []llm.Property{
				{Name: "answer", Kind: llm.KindString, Description: "Direct answer to the question"},
				{Name: "insights", Kind: llm.KindList, Items: llm.KindString, Description: "Key insights discovered from the analysis"},
				{Name: "comparisons", Kind: llm.KindObject, Description: "Comparisons between documents"},
				{Name: "statistics", Kind: llm.KindObject, Description: "Calculated statistics (totals, averages, etc.)"},
			},
			Required: []string{"answer", "insights", "comparisons", "statistics"},
		},
	}
}

func (t *CrossDocument) Kind() Kind { return KindAnalyze }

func (t *CrossDocument) Run(ctx context.Context, question string, docs []*extract.Document, fieldsList []map[string]any) (AnalysisResult, error) {
	summaries := make([]map[string]any, 0, len(docs))
	for i, doc := range docs {
		var fields map[string]any
		if i < len(fieldsList) {
			fields = fieldsList[i]
		}
		summaries = append(summaries, map[string]any{
			"file":    doc.Name(),
			"fields":  fields,
			"preview": clip(doc.Text, t.budgets.PreviewBudget),
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze these %d documents to answer the question.\n\nQuestion: %s\n\n<documents>\n%s\n</documents>\n",
		len(docs), question, indentJSON(summaries))
	b.WriteString("\nProvide a comprehensive analysis with statistics, comparisons, and insights.")

	res, err := t.proto.Run(ctx, b.String(), analyzeSystemPrompt, t.schema)
	if err != nil {
		return AnalysisResult{}, err
	}

	return AnalysisResult{
		Answer:      asString(res, "answer", ""),
		Insights:    asStringList(res, "insights"),
		Comparisons: asMap(res, "comparisons"),
		Statistics:  asMap(res, "statistics"),
	}, nil
}
