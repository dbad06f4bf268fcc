// Package tools pairs fixed instruction templates and output schemas with the
// structured-generation protocol. Each tool issues exactly one model call per
// run and maps the returned object into a typed result, filling missing
// optional keys with neutral defaults so a partially conformant response never
// fails — only a response that is not JSON at all is an error.
package tools

import (
	"encoding/json"

	"github.com/joseph-ayodele/form-agent/constants"
)

// Kind is the closed enumeration of capability tools.
type Kind string

const (
	KindExtract   Kind = "extract_fields"
	KindQA        Kind = "answer_question"
	KindSummarize Kind = "summarize_document"
	KindAnalyze   Kind = "analyze_documents"
)

// Budgets caps how much document content rides along in prompts. Truncation
// is silent by contract.
type Budgets struct {
	TextBudget    int // characters of document text per single-document prompt
	PreviewBudget int // characters of per-document preview in analysis prompts
	TableLimit    int // tables serialized into the extraction prompt
}

func (b Budgets) withDefaults() Budgets {
	if b.TextBudget <= 0 {
		b.TextBudget = constants.DocTextBudget
	}
	if b.PreviewBudget <= 0 {
		b.PreviewBudget = constants.AnalysisPreviewBudget
	}
	if b.TableLimit <= 0 {
		b.TableLimit = constants.PromptTableLimit
	}
	return b
}

func clip(s string, max int) string {
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}

// Permissive field accessors over a decoded model response.

func asString(m map[string]any, key, def string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return def
}

func asFloat(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case json.Number:
		f, _ := v.Float64()
		return f
	default:
		return 0
	}
}

func asStringList(m map[string]any, key string) []string {
	out := []string{}
	items, ok := m[key].([]any)
	if !ok {
		return out
	}
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asMap(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
