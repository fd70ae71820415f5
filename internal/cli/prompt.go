package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type promptOptions struct {
	birthFlags
	language string
	json     bool
}

// NewPromptCommand creates the prompt command.
func NewPromptCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &promptOptions{}
	cmd := &cobra.Command{
		Use:   "prompt <YYYY-MM-DD>",
		Short: "Render the report prompt without calling the model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompt(cmd, opts, args[0])
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&opts.language, "language", "", "report language, a BCP 47 tag or display name (default REPORT_LANGUAGE)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the prompt as a JSON object")
	return cmd
}

func runPrompt(cmd *cobra.Command, opts *promptOptions, birthDate string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	result, err := opts.calculate(birthDate, cfg.Report.ReferenceYear)
	if err != nil {
		return err
	}
	prompt, err := buildPrompt(result, opts.language, cfg.Report.Language)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		if err := writeJSON(out, prompt); err != nil {
			return failure("write output", err)
		}
		return nil
	}
	if _, err := fmt.Fprintf(out, "=== system ===\n%s\n\n=== user ===\n%s\n", prompt.System, prompt.User); err != nil {
		return failure("write output", err)
	}
	return nil
}
