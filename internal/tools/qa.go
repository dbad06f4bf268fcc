package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/form-agent/internal/extract"
	"github.com/joseph-ayodele/form-agent/internal/llm"
)

const qaSystemPrompt = `You are an expert at answering questions about form documents.

Given a document and a question:
1. Carefully read and understand the document content
2. Find the relevant information to answer the question
3. Provide a clear, accurate answer
4. Cite specific evidence from the document
5. Rate your confidence (0.0-1.0)
6. Explain your reasoning

If the answer cannot be determined from the document, say so clearly.
Be precise and factual. Don't make assumptions beyond what's in the document.`

// QuestionAnswering answers one question about one document, optionally with
// previously extracted fields as extra context.
type QuestionAnswering struct {
	proto   *llm.Protocol
	budgets Budgets
	schema  llm.Schema
}

func NewQuestionAnswering(proto *llm.Protocol, budgets Budgets) *QuestionAnswering {
	return &QuestionAnswering{
		proto:   proto,
		budgets: budgets.withDefaults(),
		schema: llm.Schema{
			Properties: []llm.Property{
				{Name: "answer", Kind: llm.KindString, Description: "The answer to the question"},
				{Name: "confidence", Kind: llm.KindNumber, Description: "Confidence score 0.0-1.0"},
				{Name: "evidence", Kind: llm.KindList, Items: llm.KindString, Description: "Quotes or references from the document supporting the answer"},
				{Name: "reasoning", Kind: llm.KindString, Description: "Explanation of how you arrived at the answer"},
			},
			Required: []string{"answer", "confidence", "evidence", "reasoning"},
		},
	}
}

func (t *QuestionAnswering) Kind() Kind { return KindQA }

func (t *QuestionAnswering) Run(ctx context.Context, question string, doc *extract.Document, fields map[string]any) (QAResult, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Answer this question about the form document:\n\nQuestion: %s\n\n<document>\n%s\n</document>\n",
		question, clip(doc.Text, t.budgets.TextBudget))
	if len(fields) > 0 {
		fmt.Fprintf(&b, "\nPreviously extracted fields:\n%s\n", indentJSON(fields))
	}
	b.WriteString("\nProvide a clear answer with evidence from the document.")

	res, err := t.proto.Run(ctx, b.String(), qaSystemPrompt, t.schema)
	if err != nil {
		return QAResult{}, err
	}

	return QAResult{
		Answer:     asString(res, "answer", "Unable to determine"),
		Confidence: asFloat(res, "confidence"),
		Evidence:   asStringList(res, "evidence"),
		Reasoning:  asString(res, "reasoning", ""),
	}, nil
}
