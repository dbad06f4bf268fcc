package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/form-agent/internal/common"
	"github.com/joseph-ayodele/form-agent/internal/llm"
	"github.com/joseph-ayodele/form-agent/internal/tools"
)

// Workflow kinds. The classifier enum covers the first four; anything it
// returns outside that vocabulary falls back to KindGeneral.
const (
	WorkflowExtract   = "extract"
	WorkflowQA        = "qa"
	WorkflowSummarize = "summarize"
	WorkflowAnalyze   = "analyze"
	WorkflowGeneral   = "general"
)

// FormSummary pairs a source path with its summary.
type FormSummary struct {
	SourcePath string              `json:"source_path"`
	Summary    tools.SummaryResult `json:"summary"`
}

// WorkflowResult carries whichever branch of the workflow ran. Kind tells the
// caller which fields are populated.
type WorkflowResult struct {
	Task      string                `json:"task"`
	Kind      string                `json:"type"`
	Forms     []*ProcessedForm      `json:"forms,omitempty"`
	QA        *tools.QAResult       `json:"qa,omitempty"`
	Analysis  *tools.AnalysisResult `json:"analysis,omitempty"`
	Summaries []FormSummary         `json:"summaries,omitempty"`
}

// RunWorkflow processes every path (through the cache), classifies the task
// with one model call, and dispatches: extract returns the processed forms,
// qa routes to single- or multi-document answering by document count,
// summarize runs per document, analyze runs cross-document analysis. An
// unrecognized classification summarizes everything and returns forms plus
// summaries. Single-shot; no loop back to classification.
func (a *Agent) RunWorkflow(ctx context.Context, task string, paths []string, question string) (*WorkflowResult, error) {
	a.logger.Info("agent.workflow.start", "task", task, "paths", len(paths))

	forms, err := a.ProcessForms(ctx, paths)
	if err != nil {
		return nil, err
	}

	kind, err := a.classifyTask(ctx, task, question, len(forms))
	if err != nil {
		return nil, err
	}
	a.logger.Info("agent.workflow.classified", "task_type", kind)

	q := question
	if q == "" {
		q = task
	}

	out := &WorkflowResult{Task: task, Kind: kind}
	switch kind {
	case WorkflowExtract:
		out.Forms = forms

	case WorkflowQA:
		if len(forms) == 1 {
			res, err := a.Ask(ctx, q, forms[0])
			if err != nil {
				return nil, err
			}
			out.QA = &res
		} else {
			res, err := a.Analyze(ctx, q, forms)
			if err != nil {
				return nil, err
			}
			out.Analysis = &res
		}

	case WorkflowSummarize:
		sums, err := a.summarizeAll(ctx, forms)
		if err != nil {
			return nil, err
		}
		out.Summaries = sums

	case WorkflowAnalyze:
		res, err := a.Analyze(ctx, q, forms)
		if err != nil {
			return nil, err
		}
		out.Analysis = &res

	default:
		out.Kind = WorkflowGeneral
		sums, err := a.summarizeAll(ctx, forms)
		if err != nil {
			return nil, err
		}
		out.Forms = forms
		out.Summaries = sums
	}
	return out, nil
}

func (a *Agent) summarizeAll(ctx context.Context, forms []*ProcessedForm) ([]FormSummary, error) {
	sums := make([]FormSummary, 0, len(forms))
	for _, f := range forms {
		s, err := a.Summarize(ctx, f, tools.StyleDetailed)
		if err != nil {
			return nil, err
		}
		sums = append(sums, FormSummary{SourcePath: f.SourcePath, Summary: s})
	}
	return sums, nil
}

var classifySchema = llm.Schema{
	Properties: []llm.Property{
		{Name: "task_type", Kind: llm.KindString, Enum: []string{WorkflowExtract, WorkflowQA, WorkflowSummarize, WorkflowAnalyze}},
		{Name: "reasoning", Kind: llm.KindString},
	},
	Required: []string{"task_type"},
}

// classifyTask maps a free-text task description onto the closed operation
// vocabulary with one structured call. The model is not mechanically bound to
// the enum, so callers must treat anything else as the general fallback.
func (a *Agent) classifyTask(ctx context.Context, task, question string, docCount int) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this task and determine what type of form processing is needed.\n\nTask: %s\n", task)
	if question != "" {
		fmt.Fprintf(&b, "Question: %s\n", question)
	}
	fmt.Fprintf(&b, "Number of documents: %d\n", docCount)
	b.WriteString(`
What type of task is this?
- "extract": User wants to extract/see the fields from forms
- "qa": User is asking a specific question about the forms
- "summarize": User wants a summary of the forms
- "analyze": User wants analysis/comparison across multiple forms`)

	res, err := a.proto.Run(ctx, b.String(), "", classifySchema)
	a.countCall()
	if err != nil {
		return "", common.WrapError(err, "task classification")
	}
	return strings.TrimSpace(strings.ToLower(fmt.Sprint(res["task_type"]))), nil
}
