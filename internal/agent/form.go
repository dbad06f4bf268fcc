package agent

import (
	"encoding/json"
	"time"

	"github.com/joseph-ayodele/form-agent/internal/extract"
)

// ProcessedForm is the cached unit: a canonical document plus the fields the
// extraction tool pulled out of it. Never mutated after creation; forced
// reprocessing replaces the cache entry wholesale.
type ProcessedForm struct {
	SourcePath  string          `json:"source_path"`
	Format      string          `json:"format"`
	Text        string          `json:"text"`
	Pages       []string        `json:"pages,omitempty"`
	Tables      []extract.Table `json:"tables"`
	Fields      map[string]any  `json:"extracted_fields"`
	FormType    string          `json:"form_type,omitempty"`
	Confidence  float64         `json:"extraction_confidence"`
	Reasoning   string          `json:"extraction_reasoning,omitempty"`
	Metadata    map[string]any  `json:"metadata"`
	Method      string          `json:"extraction_method"`
	ProcessedAt time.Time       `json:"processed_at"`
}

// Document reconstructs the canonical-document view for the tools.
func (f *ProcessedForm) Document() *extract.Document {
	return &extract.Document{
		SourcePath:  f.SourcePath,
		Format:      f.Format,
		Text:        f.Text,
		Pages:       f.Pages,
		Tables:      f.Tables,
		Metadata:    f.Metadata,
		Method:      f.Method,
		ExtractedAt: f.ProcessedAt,
	}
}

// ToJSON renders the form as indented JSON.
func (f *ProcessedForm) ToJSON() ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}
