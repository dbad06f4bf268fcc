// Package agent orchestrates form processing: it caches processed documents
// per source path, dispatches to the capability tools, and tracks model-call
// accounting. One agent instance assumes one logical caller; the cache and
// counter sit behind a single mutex so concurrent use stays safe, though
// concurrent ProcessForm calls for the same new path may each pay an
// extraction call.
package agent

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/joseph-ayodele/form-agent/internal/common"
	"github.com/joseph-ayodele/form-agent/internal/extract"
	"github.com/joseph-ayodele/form-agent/internal/llm"
	"github.com/joseph-ayodele/form-agent/internal/tools"
)

type Agent struct {
	logger    *slog.Logger
	extractor *extract.Extractor
	proto     *llm.Protocol

	extractTool *tools.FieldExtraction
	qaTool      *tools.QuestionAnswering
	sumTool     *tools.Summarization
	analyzeTool *tools.CrossDocument

	mu       sync.Mutex
	forms    map[string]*ProcessedForm
	llmCalls int
}

func New(gen llm.Generator, extractor *extract.Extractor, budgets tools.Budgets, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	proto := llm.NewProtocol(gen, logger)
	return &Agent{
		logger:      logger,
		extractor:   extractor,
		proto:       proto,
		extractTool: tools.NewFieldExtraction(proto, budgets),
		qaTool:      tools.NewQuestionAnswering(proto, budgets),
		sumTool:     tools.NewSummarization(proto, budgets),
		analyzeTool: tools.NewCrossDocument(proto, budgets),
		forms:       make(map[string]*ProcessedForm),
	}
}

// ProcessForm runs ingestion plus field extraction for one path, at most once
// per path per cache lifetime. The cached form is returned on every later call
// unless force is set, in which case the entry is replaced wholesale. Model
// calls are the expensive resource; this cache is the central saver.
func (a *Agent) ProcessForm(ctx context.Context, path string, force bool) (*ProcessedForm, error) {
	key := cacheKey(path)

	a.mu.Lock()
	if cached, ok := a.forms[key]; ok && !force {
		a.mu.Unlock()
		a.logger.Debug("agent.process.cache_hit", "path", key)
		return cached, nil
	}
	a.mu.Unlock()

	start := time.Now()
	a.logger.Info("agent.process.start", "path", key, "force", force)

	doc, err := a.extractor.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	res, err := a.extractTool.Run(ctx, doc)
	a.countCall()
	if err != nil {
		return nil, common.WrapError(err, "field extraction")
	}

	form := &ProcessedForm{
		SourcePath:  doc.SourcePath,
		Format:      doc.Format,
		Text:        doc.Text,
		Pages:       doc.Pages,
		Tables:      doc.Tables,
		Fields:      res.Fields,
		FormType:    res.FormType,
		Confidence:  res.Confidence,
		Reasoning:   res.Reasoning,
		Metadata:    doc.Metadata,
		Method:      doc.Method,
		ProcessedAt: time.Now(),
	}

	a.mu.Lock()
	a.forms[key] = form
	a.mu.Unlock()

	a.logger.Info("agent.process.ok",
		"path", key,
		"form_type", form.FormType,
		"fields", len(form.Fields),
		"confidence", form.Confidence,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return form, nil
}

// ProcessForms processes paths strictly in order, one at a time.
func (a *Agent) ProcessForms(ctx context.Context, paths []string) ([]*ProcessedForm, error) {
	forms := make([]*ProcessedForm, 0, len(paths))
	for _, p := range paths {
		form, err := a.ProcessForm(ctx, p, false)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// Ask answers a question about one form. Never consults the cache.
func (a *Agent) Ask(ctx context.Context, question string, form *ProcessedForm) (tools.QAResult, error) {
	a.logger.Info("agent.ask", "path", form.SourcePath, "question_len", len(question))
	res, err := a.qaTool.Run(ctx, question, form.Document(), form.Fields)
	a.countCall()
	return res, err
}

// Summarize generates a summary of one form in the given style.
func (a *Agent) Summarize(ctx context.Context, form *ProcessedForm, style tools.Style) (tools.SummaryResult, error) {
	a.logger.Info("agent.summarize", "path", form.SourcePath, "style", string(style))
	res, err := a.sumTool.Run(ctx, form.Document(), form.Fields, style)
	a.countCall()
	return res, err
}

// Analyze runs cross-document analysis over several forms.
func (a *Agent) Analyze(ctx context.Context, question string, forms []*ProcessedForm) (tools.AnalysisResult, error) {
	a.logger.Info("agent.analyze", "question_len", len(question), "forms", len(forms))
	docs := make([]*extract.Document, len(forms))
	fieldsList := make([]map[string]any, len(forms))
	for i, f := range forms {
		docs[i] = f.Document()
		fieldsList[i] = f.Fields
	}
	res, err := a.analyzeTool.Run(ctx, question, docs, fieldsList)
	a.countCall()
	return res, err
}

// Compare is Analyze with a fixed comparison question over two forms.
func (a *Agent) Compare(ctx context.Context, first, second *ProcessedForm) (tools.AnalysisResult, error) {
	return a.Analyze(ctx,
		"Compare these two forms. What are the similarities and differences? "+
			"Identify matching fields and highlight any discrepancies.",
		[]*ProcessedForm{first, second})
}

// Stats is a snapshot of call accounting and cache population.
type Stats struct {
	LLMCalls    int      `json:"total_llm_calls"`
	CachedForms int      `json:"cached_forms"`
	CachedPaths []string `json:"cached_form_paths"`
}

func (a *Agent) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	paths := make([]string, 0, len(a.forms))
	for p := range a.forms {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return Stats{
		LLMCalls:    a.llmCalls,
		CachedForms: len(a.forms),
		CachedPaths: paths,
	}
}

// ClearCache drops every cached form. The call counter survives.
func (a *Agent) ClearCache() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.forms = make(map[string]*ProcessedForm)
}

func (a *Agent) countCall() {
	a.mu.Lock()
	a.llmCalls++
	a.mu.Unlock()
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
