package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wizard/internal/config"
	"github.com/roach88/wizard/internal/stepper"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool             `json:"valid"`
	Errors   []config.Problem `json:"errors,omitempty"`
	Resolved *ResolvedConfig  `json:"resolved,omitempty"`
}

// ResolvedConfig is a validated file with defaults applied.
type ResolvedConfig struct {
	Algorithm  string  `json:"algorithm"`
	Elements   int     `json:"elements"`
	Speed      float64 `json:"speed"`
	Seed       *uint64 `json:"seed,omitempty"`
	IntervalMS int64   `json:"interval_ms"`
	MaxTicks   int     `json:"max_ticks"`
	DB         string  `json:"db,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a config file",
		Long: `Validate a CUE or JSON config file against the config schema and print
the resolved settings, defaults included.

Example:
  wizard validate ./wizard.cue`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	formatter.VerboseLog("Validating %s", path)

	cfg, err := config.Load(path)
	if err != nil {
		return outputValidationErrors(formatter, err)
	}

	resolved := &ResolvedConfig{
		Algorithm:  cfg.Algorithm.String(),
		Elements:   cfg.Elements,
		Speed:      cfg.Speed,
		Seed:       cfg.Seed,
		IntervalMS: cfg.Interval.Milliseconds(),
		MaxTicks:   cfg.MaxTicks,
		DB:         cfg.DB,
	}
	if formatter.JSON() {
		return formatter.Success(ValidationResult{Valid: true, Resolved: resolved})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ %s is valid\n", path)
	if opts.Verbose {
		fmt.Fprintf(w, "  algorithm:   %s\n", resolved.Algorithm)
		fmt.Fprintf(w, "  elements:    %d\n", resolved.Elements)
		fmt.Fprintf(w, "  speed:       %g\n", resolved.Speed)
		fmt.Fprintf(w, "  interval_ms: %d\n", resolved.IntervalMS)
		fmt.Fprintf(w, "  max_ticks:   %d\n", resolved.MaxTicks)
	}
	return nil
}

// outputValidationErrors reports why a file was rejected. Schema and
// algorithm problems are validation failures; anything else, such as an
// unreadable file, is a command error.
func outputValidationErrors(formatter *OutputFormatter, err error) error {
	var problems []config.Problem
	var cfgErr *config.Error
	var stepErr *stepper.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		problems = cfgErr.Problems
	case errors.As(err, &stepErr):
		problems = []config.Problem{{Field: stepErr.Field, Message: stepErr.Message}}
	default:
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read config", err)
	}

	msg := fmt.Sprintf("validation failed with %d error(s)", len(problems))
	if formatter.JSON() {
		if err := formatter.Failure(ErrCodeInvalid, msg, ValidationResult{Errors: problems}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	w := formatter.Writer
	fmt.Fprintln(w, "✗ Validation failed")
	fmt.Fprintln(w)
	for _, p := range problems {
		if p.Field != "" {
			fmt.Fprintf(w, "  %s: %s\n", p.Field, p)
		} else {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
	return NewExitError(ExitFailure, msg)
}
