package agent_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/form-agent/internal/agent"
	"github.com/joseph-ayodele/form-agent/internal/extract"
	"github.com/joseph-ayodele/form-agent/internal/llm/llmtest"
	"github.com/joseph-ayodele/form-agent/internal/tools"
)

const extractionResponse = `{
	"fields": {"name": "Alice", "total": "100"},
	"form_type": "invoice",
	"confidence": 0.9,
	"reasoning": "clear layout"
}`

func newAgent(mock *llmtest.Mock) *agent.Agent {
	extractor := extract.NewExtractor(extract.Config{}, nil)
	return agent.New(mock, extractor, tools.Budgets{}, nil)
}

func formFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "form.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcessFormCachesByPath(t *testing.T) {
	mock := &llmtest.Mock{Default: extractionResponse}
	a := newAgent(mock)
	path := formFile(t, "Name: Alice\nTotal: 100")

	first, err := a.ProcessForm(context.Background(), path, false)
	require.NoError(t, err)
	assert.Equal(t, "invoice", first.FormType)
	assert.Equal(t, map[string]any{"name": "Alice", "total": "100"}, first.Fields)

	second, err := a.ProcessForm(context.Background(), path, false)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, mock.CallCount())
}

func TestProcessFormForceReplacesEntry(t *testing.T) {
	mock := &llmtest.Mock{Responses: []string{
		extractionResponse,
		`{"fields": {}, "form_type": "receipt", "confidence": 0.5, "reasoning": ""}`,
	}}
	a := newAgent(mock)
	path := formFile(t, "Name: Alice")

	first, err := a.ProcessForm(context.Background(), path, false)
	require.NoError(t, err)
	assert.Equal(t, "invoice", first.FormType)

	second, err := a.ProcessForm(context.Background(), path, true)
	require.NoError(t, err)
	assert.Equal(t, "receipt", second.FormType)
	assert.Equal(t, 2, mock.CallCount())

	// the cache now holds the reprocessed form
	third, err := a.ProcessForm(context.Background(), path, false)
	require.NoError(t, err)
	assert.Same(t, second, third)
	assert.Equal(t, 2, mock.CallCount())
}

func TestProcessFormsDeduplicates(t *testing.T) {
	mock := &llmtest.Mock{Default: extractionResponse}
	a := newAgent(mock)
	path := formFile(t, "x")

	forms, err := a.ProcessForms(context.Background(), []string{path, path})
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Same(t, forms[0], forms[1])
	assert.Equal(t, 1, mock.CallCount())
}

func TestProcessFormMissingFile(t *testing.T) {
	mock := &llmtest.Mock{Default: extractionResponse}
	a := newAgent(mock)

	_, err := a.ProcessForm(context.Background(), filepath.Join(t.TempDir(), "gone.txt"), false)
	require.Error(t, err)
	assert.Zero(t, mock.CallCount())
}

func TestAskBypassesCache(t *testing.T) {
	mock := &llmtest.Mock{Responses: []string{
		extractionResponse,
		`{"answer": "Alice", "confidence": 0.9, "evidence": [], "reasoning": ""}`,
		`{"answer": "Alice", "confidence": 0.9, "evidence": [], "reasoning": ""}`,
	}}
	a := newAgent(mock)
	form, err := a.ProcessForm(context.Background(), formFile(t, "Name: Alice"), false)
	require.NoError(t, err)

	for range 2 {
		res, err := a.Ask(context.Background(), "who?", form)
		require.NoError(t, err)
		assert.Equal(t, "Alice", res.Answer)
	}
	// one extraction call plus one per question, no QA caching
	assert.Equal(t, 3, mock.CallCount())
}

func TestCompareUsesFixedQuestion(t *testing.T) {
	mock := &llmtest.Mock{Responses: []string{
		extractionResponse,
		extractionResponse,
		`{"answer": "similar", "insights": [], "comparisons": {}, "statistics": {}}`,
	}}
	a := newAgent(mock)
	f1, err := a.ProcessForm(context.Background(), formFile(t, "a"), false)
	require.NoError(t, err)
	f2, err := a.ProcessForm(context.Background(), formFile(t, "b"), false)
	require.NoError(t, err)

	res, err := a.Compare(context.Background(), f1, f2)
	require.NoError(t, err)
	assert.Equal(t, "similar", res.Answer)
	assert.Contains(t, mock.Calls[2].Prompt, "Compare these two forms")
}

func TestStatsAndClearCache(t *testing.T) {
	mock := &llmtest.Mock{Default: extractionResponse}
	a := newAgent(mock)
	path := formFile(t, "x")

	_, err := a.ProcessForm(context.Background(), path, false)
	require.NoError(t, err)

	stats := a.Stats()
	assert.Equal(t, 1, stats.LLMCalls)
	assert.Equal(t, 1, stats.CachedForms)
	abs, _ := filepath.Abs(path)
	assert.Equal(t, []string{abs}, stats.CachedPaths)

	a.ClearCache()
	stats = a.Stats()
	assert.Equal(t, 1, stats.LLMCalls) // counter survives the clear
	assert.Zero(t, stats.CachedForms)
	assert.Empty(t, stats.CachedPaths)

	// next process pays extraction again
	_, err = a.ProcessForm(context.Background(), path, false)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Stats().LLMCalls)
}
