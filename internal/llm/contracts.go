package llm

import "context"

// Generator is the generation capability this core consumes. Both calls are
// synchronous round trips returning the model's raw text; transport and retry
// policy live behind the implementation.
type Generator interface {
	Generate(ctx context.Context, prompt, system string) (string, error)
	GenerateStructured(ctx context.Context, prompt string, schema map[string]any, system string) (string, error)
}
