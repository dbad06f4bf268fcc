package tools

// ExtractionResult is the field-extraction tool's typed output.
type ExtractionResult struct {
	Fields     map[string]any `json:"fields"`
	FormType   string         `json:"form_type,omitempty"`
	Confidence float64        `json:"confidence"`
	Reasoning  string         `json:"reasoning"`
}

// QAResult is the question-answering tool's typed output.
type QAResult struct {
	Answer     string   `json:"answer"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence"`
	Reasoning  string   `json:"reasoning"`
}

// SummaryResult is the summarization tool's typed output.
type SummaryResult struct {
	Summary         string         `json:"summary"`
	KeyPoints       []string       `json:"key_points"`
	FormType        string         `json:"form_type"`
	ImportantValues map[string]any `json:"important_values"`
}

// AnalysisResult is the cross-document analysis tool's typed output. The
// statistics and comparisons come from the model, not local arithmetic.
type AnalysisResult struct {
	Answer      string         `json:"answer"`
	Insights    []string       `json:"insights"`
	Comparisons map[string]any `json:"comparisons"`
	Statistics  map[string]any `json:"statistics"`
}
