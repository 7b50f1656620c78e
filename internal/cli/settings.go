package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/wizard/internal/config"
	"github.com/roach88/wizard/internal/stepper"
)

// RunFlags are the flags shared by commands that drive a sort. Flags set
// on the command line override the config file, which overrides the
// schema defaults.
type RunFlags struct {
	Config    string
	Algorithm string
	Elements  int
	Speed     float64
	Seed      uint64
	Interval  time.Duration
	MaxTicks  int
	Input     []int
}

func (f *RunFlags) register(cmd *cobra.Command) {
	defaults := config.Default()

	fs := cmd.Flags()
	fs.StringVarP(&f.Config, "config", "c", "", "path to a CUE or JSON config file")
	fs.StringVarP(&f.Algorithm, "algorithm", "a", defaults.Algorithm.String(),
		"sorting algorithm (selection|bubble|insertion|quick|merge|bogo)")
	fs.IntVarP(&f.Elements, "elements", "n", defaults.Elements, "number of random elements")
	fs.Float64VarP(&f.Speed, "speed", "s", defaults.Speed, "speed multiplier for the tick interval")
	fs.Uint64Var(&f.Seed, "seed", 0, "random seed (default: drawn fresh)")
	fs.DurationVar(&f.Interval, "interval", defaults.Interval, "base delay between ticks at speed 1 (0 disables pacing)")
	fs.IntVar(&f.MaxTicks, "max-ticks", defaults.MaxTicks, "abort after this many ticks (0 = unlimited)")
	fs.IntSliceVar(&f.Input, "input", nil, "explicit input values in [1,100] instead of random elements")
}

// resolve merges defaults, the config file and explicitly set flags.
func (f *RunFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if f.Config != "" {
		loaded, err := config.Load(f.Config)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	fs := cmd.Flags()
	if fs.Changed("algorithm") {
		alg, err := stepper.ParseAlgorithm(f.Algorithm)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Algorithm = alg
	}
	if fs.Changed("elements") {
		cfg.Elements = f.Elements
	}
	if fs.Changed("speed") {
		cfg.Speed = f.Speed
	}
	if fs.Changed("seed") {
		seed := f.Seed
		cfg.Seed = &seed
	}
	if fs.Changed("interval") {
		if f.Interval < 0 {
			return config.Config{}, fmt.Errorf("interval must be non-negative, got %s", f.Interval)
		}
		cfg.Interval = f.Interval
	}
	if fs.Changed("max-ticks") {
		if f.MaxTicks < 0 {
			return config.Config{}, fmt.Errorf("max-ticks must be non-negative, got %d", f.MaxTicks)
		}
		cfg.MaxTicks = f.MaxTicks
	}
	return cfg, nil
}

// build constructs the stepper cfg describes. Explicit input replaces the
// random array; its seed defaults to 0 so the trace is reproducible.
func (f *RunFlags) build(cfg config.Config) (stepper.Stepper, error) {
	if f.Input == nil {
		return stepper.New(cfg.StepperConfig())
	}
	var seed uint64
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	if err := cfg.StepperConfig().Validate(); err != nil && !isElementsError(err) {
		return nil, err
	}
	return stepper.NewWithValues(cfg.Algorithm, f.Input, seed)
}

// isElementsError reports a rejected element count, which explicit input
// makes irrelevant.
func isElementsError(err error) bool {
	var ce *stepper.ConfigError
	return errors.As(err, &ce) && ce.Code == stepper.ErrCodeInvalidElements
}

// configExit maps a configuration failure to a command error.
func configExit(err error) error {
	return WrapExitError(ExitCommandError, "invalid configuration", err)
}
