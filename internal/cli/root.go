// Package cli implements the lifepath command line.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"lifepath/internal/platform/config"
	"lifepath/internal/platform/logger"
	"lifepath/internal/report"
	"lifepath/internal/report/gemini"
)

// Generator produces a raw report for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt report.Prompt) (*report.Generation, error)
	Model() string
}

// GeneratorFactory builds the Generator used by the report command.
type GeneratorFactory func(ctx context.Context, cfg config.Config, logger *slog.Logger) (Generator, error)

// RootOptions holds global flags and collaborators shared by all commands.
type RootOptions struct {
	Verbose      bool
	NewGenerator GeneratorFactory
}

type Option func(*RootOptions)

// WithGeneratorFactory replaces the Gemini client used by the report command.
func WithGeneratorFactory(f GeneratorFactory) Option {
	return func(o *RootOptions) {
		if f != nil {
			o.NewGenerator = f
		}
	}
}

// NewRootCommand creates the lifepath root command.
func NewRootCommand(opts ...Option) *cobra.Command {
	rootOpts := &RootOptions{NewGenerator: newGeminiGenerator}
	for _, opt := range opts {
		opt(rootOpts)
	}

	cmd := &cobra.Command{
		Use:           "lifepath",
		Short:         "Pythagorean numerology from a birth date",
		Long:          "Compute life path numbers from a birth date, render the report prompt, generate a full report with Gemini, or tail audit events.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&rootOpts.Verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.AddCommand(NewCalculateCommand(rootOpts))
	cmd.AddCommand(NewPromptCommand(rootOpts))
	cmd.AddCommand(NewReportCommand(rootOpts))
	cmd.AddCommand(NewEventsCommand(rootOpts))
	return cmd
}

// loadConfig reads the environment without the server's production checks.
func loadConfig() (config.Config, error) {
	var cfg config.Config
	if err := config.ParseEnv(&cfg); err != nil {
		return config.Config{}, usageError("invalid environment", err)
	}
	return cfg, nil
}

func (o *RootOptions) logger(cmd *cobra.Command, cfg config.Log) *slog.Logger {
	if o.Verbose {
		cfg.Level = "debug"
	} else if cfg.Level == "" || cfg.Level == "info" {
		cfg.Level = "warn"
	}
	return logger.NewWithWriter(cmd.ErrOrStderr(), cfg, false)
}

func newGeminiGenerator(ctx context.Context, cfg config.Config, logger *slog.Logger) (Generator, error) {
	return gemini.New(ctx, cfg.Gemini.APIKey,
		gemini.WithModel(cfg.Gemini.Model),
		gemini.WithTimeout(cfg.Gemini.Timeout),
		gemini.WithMaxOutputTokens(cfg.Gemini.MaxOutputTokens),
		gemini.WithPricing(cfg.Report.Pricing()),
		gemini.WithLogger(logger),
	)
}
