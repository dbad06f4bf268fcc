// Package llm holds the structured-generation protocol: a schema-constrained
// wrapper around an opaque generation capability that decodes free-form model
// text into a validated mapping. Retry and backoff are deliberately absent
// here; they belong to the transport behind Generator.
package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/form-agent/internal/common"
)

// Protocol is a pure decode/validate boundary over a Generator.
type Protocol struct {
	gen    Generator
	logger *slog.Logger
}

func NewProtocol(gen Generator, logger *slog.Logger) *Protocol {
	if logger == nil {
		logger = slog.Default()
	}
	return &Protocol{gen: gen, logger: logger}
}

// Run issues exactly one structured generation call and decodes the response.
// The schema is serialized into the system preamble with an instruction to
// answer with only a matching JSON object. Schema violations beyond outright
// unparseability are logged, not raised: tools fill missing optionals with
// neutral defaults.
func (p *Protocol) Run(ctx context.Context, prompt, system string, schema Schema) (map[string]any, error) {
	rid := uuid.New().String()
	start := time.Now()
	js := schema.JSONSchema()

	raw, err := p.gen.GenerateStructured(ctx, prompt, js, structuredSystem(system, js))
	if err != nil {
		p.logger.Error("llm.protocol.generate_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, common.WrapError(err, "structured generation")
	}

	obj, err := DecodeObject(raw)
	if err != nil {
		p.logger.Error("llm.protocol.decode_error", "req_id", rid, "error", err,
			"raw_len", len(raw), "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	if verr := ValidateAgainstSchema(js, obj); verr != nil {
		p.logger.Warn("llm.protocol.schema_mismatch", "req_id", rid, "error", verr)
	}

	p.logger.Info("llm.protocol.ok", "req_id", rid, "keys", len(obj),
		"elapsed_ms", time.Since(start).Milliseconds())
	return obj, nil
}

func structuredSystem(system string, js map[string]any) string {
	if system == "" {
		system = "You are a helpful assistant."
	}
	sb, _ := json.MarshalIndent(js, "", "  ")
	return system + "\n\nYou must respond with valid JSON that matches this schema:\n" +
		string(sb) +
		"\n\nRespond ONLY with the JSON object, no other text or markdown formatting."
}
