// Package config loads run configuration files.
//
// Files are CUE (JSON is valid CUE) and are unified against an embedded
// schema that closes the field set, bounds every number and fills defaults.
// Command-line flags override whatever the file sets.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/wizard/internal/stepper"
)

//go:embed schema.cue
var schemaCUE string

// Config is a validated run configuration.
type Config struct {
	Algorithm stepper.Algorithm
	Elements  int
	Speed     float64
	Seed      *uint64
	Interval  time.Duration
	MaxTicks  int

	// DB is the run ledger path. Empty disables recording.
	DB string
}

// StepperConfig returns the part of c that builds a stepper.
func (c Config) StepperConfig() stepper.Config {
	return stepper.Config{
		Algorithm: c.Algorithm,
		Elements:  c.Elements,
		Speed:     c.Speed,
		Seed:      c.Seed,
	}
}

// fileConfig mirrors #Config for decoding.
type fileConfig struct {
	Algorithm  string  `json:"algorithm"`
	Elements   int     `json:"elements"`
	Speed      float64 `json:"speed"`
	Seed       *uint64 `json:"seed,omitempty"`
	IntervalMS int64   `json:"interval_ms"`
	MaxTicks   int     `json:"max_ticks"`
	DB         string  `json:"db,omitempty"`
}

// Problem is one schema violation, positioned in the source file when CUE
// can tell where.
type Problem struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func (p Problem) String() string {
	if p.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", p.Line, p.Column, p.Message)
	}
	return p.Message
}

// Error reports why a file was rejected.
type Error struct {
	Source   string
	Problems []Problem
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return fmt.Sprintf("config %s: %s", e.Source, strings.Join(msgs, "; "))
}

// Default returns the schema defaults.
func Default() Config {
	cfg, err := LoadBytes("<default>", []byte("{}"))
	if err != nil {
		// The embedded schema is fixed at build time.
		panic(fmt.Sprintf("config: embedded schema defaults invalid: %v", err))
	}
	return cfg
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadBytes(path, data)
}

// LoadBytes validates data as if read from a file named name.
func LoadBytes(name string, data []byte) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue")).
		LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile config schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return Config{}, newError(name, err)
	}

	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return Config{}, newError(name, err)
	}

	var fc fileConfig
	if err := unified.Decode(&fc); err != nil {
		return Config{}, newError(name, err)
	}

	alg, err := stepper.ParseAlgorithm(fc.Algorithm)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Algorithm: alg,
		Elements:  fc.Elements,
		Speed:     fc.Speed,
		Seed:      fc.Seed,
		Interval:  time.Duration(fc.IntervalMS) * time.Millisecond,
		MaxTicks:  fc.MaxTicks,
		DB:        fc.DB,
	}, nil
}

// newError flattens CUE errors into problems. Paths are reported relative to
// #Config, and the duplicates CUE emits once per rejected disjunct of a
// defaulted field are collapsed.
func newError(source string, err error) *Error {
	e := &Error{Source: source}
	seen := make(map[[2]string]bool)
	for _, ce := range cueerrors.Errors(err) {
		format, args := ce.Msg()
		p := Problem{
			Field:   fieldPath(ce.Path()),
			Message: strings.TrimSpace(fmt.Sprintf(format, args...)),
		}
		key := [2]string{p.Field, p.Message}
		if seen[key] {
			continue
		}
		seen[key] = true
		if pos := ce.Position(); pos.IsValid() && pos.Filename() == source {
			p.Line = pos.Line()
			p.Column = pos.Column()
		}
		e.Problems = append(e.Problems, p)
	}
	if len(e.Problems) == 0 {
		e.Problems = []Problem{{Message: err.Error()}}
	}
	return e
}

func fieldPath(path []string) string {
	if len(path) > 0 && path[0] == "#Config" {
		path = path[1:]
	}
	return strings.Join(path, ".")
}
