package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lifepath/internal/numerology"
	"lifepath/internal/report"
)

type reportOptions struct {
	birthFlags
	language string
	out      string
}

// reportOutput is the document written by the report command.
type reportOutput struct {
	Report       *report.Report    `json:"report"`
	Calculations numerology.Result `json:"calculations"`
	Usage        report.Usage      `json:"usage"`
	Cost         report.Cost       `json:"cost"`
	Model        string            `json:"model"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report <YYYY-MM-DD>",
		Short: "Generate a full report with Gemini",
		Long: `Compute the numbers for a birth date and ask Gemini for the structured
four-chapter report. Requires GEMINI_API_KEY. Generation can take minutes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, rootOpts, opts, args[0])
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&opts.language, "language", "", "report language, a BCP 47 tag or display name (default REPORT_LANGUAGE)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the report JSON to this file instead of stdout")
	return cmd
}

func runReport(cmd *cobra.Command, rootOpts *RootOptions, opts *reportOptions, birthDate string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := rootOpts.logger(cmd, cfg.Log)

	result, err := opts.calculate(birthDate, cfg.Report.ReferenceYear)
	if err != nil {
		return err
	}
	prompt, err := buildPrompt(result, opts.language, cfg.Report.Language)
	if err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Gemini.APIKey) == "" {
		return usageError("GEMINI_API_KEY is not set", nil)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	generator, err := rootOpts.NewGenerator(ctx, cfg, logger)
	if err != nil {
		return failure("create generator", err)
	}

	start := time.Now()
	logger.InfoContext(ctx, "generating report", "model", generator.Model(), "life_path", result.LifePath.Number)
	gen, err := generator.Generate(ctx, prompt)
	if err != nil {
		return failure(generationMessage(err), err)
	}
	rep, err := report.DecodeReport(gen.Raw)
	if err != nil {
		return failure("model returned an unreadable report", err)
	}
	if err := rep.Check(); err != nil {
		logger.WarnContext(ctx, "report failed structural check", "error", err)
	}

	model := gen.Model
	if model == "" {
		model = generator.Model()
	}
	doc := reportOutput{
		Report:       rep,
		Calculations: result,
		Usage:        gen.Usage,
		Cost:         gen.Usage.Cost(cfg.Report.Pricing()),
		Model:        model,
		GeneratedAt:  time.Now().UTC(),
	}
	if err := writeReport(cmd, opts.out, doc); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "model %s, %d tokens, cost %.6f %s, %s\n",
		doc.Model, doc.Usage.TotalTokens, doc.Cost.Amount, doc.Cost.Currency, time.Since(start).Round(time.Millisecond))
	return nil
}

func writeReport(cmd *cobra.Command, path string, doc reportOutput) error {
	if path == "" {
		if err := writeJSON(cmd.OutOrStdout(), doc); err != nil {
			return failure("write output", err)
		}
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return failure("create output file", err)
	}
	if err := writeJSON(f, doc); err != nil {
		_ = f.Close()
		return failure("write output file", err)
	}
	if err := f.Close(); err != nil {
		return failure("close output file", err)
	}
	return nil
}

// buildPrompt renders the prompt in the flag language, falling back to the
// configured one.
func buildPrompt(result numerology.Result, flagLanguage, configured string) (report.Prompt, error) {
	language := flagLanguage
	if strings.TrimSpace(language) == "" {
		language = configured
	}
	prompt, err := report.BuildPrompt(result, report.LanguageName(language))
	if err != nil {
		return report.Prompt{}, failure("render prompt", err)
	}
	return prompt, nil
}

func generationMessage(err error) string {
	switch {
	case errors.Is(err, report.ErrGenerationTimeout):
		return "generation timed out"
	case errors.Is(err, report.ErrRateLimited):
		return "generation rate limited, try again later"
	case errors.Is(err, report.ErrNetwork):
		return "could not reach the model service"
	case errors.Is(err, report.ErrCredentials):
		return "the model service rejected GEMINI_API_KEY"
	default:
		return "generation failed"
	}
}
