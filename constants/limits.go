package constants

// Default prompt and extraction budgets. These are deliberately plain named
// constants so callers can override them through configuration instead of
// re-deriving "correct" values.
const (
	// DocTextBudget caps how many characters of document text a single-document
	// prompt carries.
	DocTextBudget = 8000

	// AnalysisPreviewBudget caps the per-document preview included in
	// cross-document analysis prompts.
	AnalysisPreviewBudget = 1000

	// PromptTableLimit caps how many extracted tables are serialized into the
	// field-extraction prompt.
	PromptTableLimit = 3

	// DefaultOCRDPI is the rasterization DPI for scanned PDFs.
	DefaultOCRDPI = 300
)
