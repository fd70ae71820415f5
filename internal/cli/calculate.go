package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type calculateOptions struct {
	birthFlags
	format string
}

// NewCalculateCommand creates the calculate command.
func NewCalculateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &calculateOptions{}
	cmd := &cobra.Command{
		Use:   "calculate <YYYY-MM-DD>",
		Short: "Compute numerology numbers for a birth date",
		Long: `Compute age, main personality, life path, birthday number, challenges
and personal year for a birth date. No network access.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculate(cmd, opts, args[0])
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&opts.format, "format", "text", fmt.Sprintf("output format %v", ValidFormats))
	return cmd
}

func runCalculate(cmd *cobra.Command, opts *calculateOptions, birthDate string) error {
	if !isValidFormat(opts.format) {
		return usageError(fmt.Sprintf("invalid format %q: must be one of %v", opts.format, ValidFormats), nil)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	result, err := opts.calculate(birthDate, cfg.Report.ReferenceYear)
	if err != nil {
		return err
	}
	if err := writeCalculation(cmd.OutOrStdout(), opts.format, birthDate, result); err != nil {
		return failure("write output", err)
	}
	return nil
}
