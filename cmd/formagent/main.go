package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/form-agent/internal/agent"
	"github.com/joseph-ayodele/form-agent/internal/common"
	"github.com/joseph-ayodele/form-agent/internal/export"
	"github.com/joseph-ayodele/form-agent/internal/extract"
	"github.com/joseph-ayodele/form-agent/internal/llm/openai"
	"github.com/joseph-ayodele/form-agent/internal/tools"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:           "formagent",
		Short:         "LLM-powered form processing: extract, ask, summarize, analyze",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var force bool
	processCmd := &cobra.Command{
		Use:   "process <file>...",
		Short: "Process forms and print their extracted fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildAgent(logger)
			if err != nil {
				return err
			}
			for _, path := range args {
				form, err := a.ProcessForm(cmd.Context(), path, force)
				if err != nil {
					return err
				}
				if err := printJSON(form); err != nil {
					return err
				}
			}
			return printJSON(a.Stats())
		},
	}
	processCmd.Flags().BoolVar(&force, "force", false, "reprocess even if cached")

	var question string
	askCmd := &cobra.Command{
		Use:   "ask <file>",
		Short: "Ask a question about one form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if question == "" {
				return common.NewAppError("CLI_ERROR", "--question is required", common.ErrInvalidInput)
			}
			a, err := buildAgent(logger)
			if err != nil {
				return err
			}
			form, err := a.ProcessForm(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			res, err := a.Ask(cmd.Context(), question, form)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	askCmd.Flags().StringVarP(&question, "question", "q", "", "question to answer")

	var style string
	summarizeCmd := &cobra.Command{
		Use:   "summarize <file>",
		Short: "Summarize one form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildAgent(logger)
			if err != nil {
				return err
			}
			form, err := a.ProcessForm(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			res, err := a.Summarize(cmd.Context(), form, tools.Style(style))
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	summarizeCmd.Flags().StringVar(&style, "style", "detailed", "summary style: brief | detailed | bullet_points")

	analyzeCmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Analyze several forms together",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if question == "" {
				return common.NewAppError("CLI_ERROR", "--question is required", common.ErrInvalidInput)
			}
			a, err := buildAgent(logger)
			if err != nil {
				return err
			}
			forms, err := a.ProcessForms(cmd.Context(), args)
			if err != nil {
				return err
			}
			res, err := a.Analyze(cmd.Context(), question, forms)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	analyzeCmd.Flags().StringVarP(&question, "question", "q", "", "analysis question")

	var task string
	workflowCmd := &cobra.Command{
		Use:   "workflow <file>...",
		Short: "Classify a task and run the matching operation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if task == "" {
				return common.NewAppError("CLI_ERROR", "--task is required", common.ErrInvalidInput)
			}
			a, err := buildAgent(logger)
			if err != nil {
				return err
			}
			res, err := a.RunWorkflow(cmd.Context(), task, args, question)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	workflowCmd.Flags().StringVar(&task, "task", "", "task description")
	workflowCmd.Flags().StringVarP(&question, "question", "q", "", "optional specific question")

	var out string
	exportCmd := &cobra.Command{
		Use:   "export <file>...",
		Short: "Process forms and write their fields to an XLSX workbook",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildAgent(logger)
			if err != nil {
				return err
			}
			forms, err := a.ProcessForms(cmd.Context(), args)
			if err != nil {
				return err
			}
			b, err := export.NewService(logger).FieldsXLSX(forms)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&out, "out", "fields.xlsx", "output workbook path")

	root.AddCommand(processCmd, askCmd, summarizeCmd, analyzeCmd, workflowCmd, exportCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func buildAgent(logger *slog.Logger) (*agent.Agent, error) {
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gen := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	extractor := extract.NewExtractor(extract.Config{
		OCREnabled:  cfg.OCR.Enabled,
		OCRLanguage: cfg.OCR.Language,
		DPI:         cfg.OCR.DPI,
		MaxPages:    cfg.OCR.MaxPages,
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)

	budgets := tools.Budgets{
		TextBudget:    cfg.Agent.DocTextBudget,
		PreviewBudget: cfg.Agent.PreviewBudget,
		TableLimit:    cfg.Agent.PromptTableLimit,
	}

	return agent.New(gen, extractor, budgets, logger), nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
