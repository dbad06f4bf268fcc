// Package llmtest provides a scripted Generator for tests: queue responses,
// inspect recorded calls, no network.
package llmtest

import (
	"context"
	"sync"
)

// Call records one generation request.
type Call struct {
	Structured bool
	Prompt     string
	System     string
	Schema     map[string]any
}

// Mock implements llm.Generator. Responses are consumed in order; when the
// queue is empty, Default is returned. A non-nil Err fails every call.
type Mock struct {
	mu        sync.Mutex
	Responses []string
	Default   string
	Err       error
	Calls     []Call
}

func (m *Mock) Generate(_ context.Context, prompt, system string) (string, error) {
	return m.record(Call{Prompt: prompt, System: system})
}

func (m *Mock) GenerateStructured(_ context.Context, prompt string, schema map[string]any, system string) (string, error) {
	return m.record(Call{Structured: true, Prompt: prompt, System: system, Schema: schema})
}

func (m *Mock) record(c Call) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, c)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) > 0 {
		r := m.Responses[0]
		m.Responses = m.Responses[1:]
		return r, nil
	}
	return m.Default, nil
}

// CallCount returns how many calls were recorded.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
