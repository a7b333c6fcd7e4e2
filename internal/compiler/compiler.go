// Package compiler drives the semantic checks for the command line: it loads
// the configuration, decodes the source files, checks them in parallel and
// renders the diagnostics.
package compiler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/thrushlang/thrushc-sub007/colors"
	"github.com/thrushlang/thrushc-sub007/internal/config"
	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/sexpr"
	"github.com/thrushlang/thrushc-sub007/internal/pipeline"
)

// InMemoryFile is the file name given to Options.Code
const InMemoryFile = "<input>"

// Options for a check run
type Options struct {
	// Files are s-expression modules, one compilation unit each
	Files []string
	// Code is checked as one extra in-memory unit when not empty
	Code string
	// ConfigPath overrides the thrush.yaml lookup next to the first file
	ConfigPath string
	// Debug prints phase progress
	Debug bool
	// Summary prints one line per unit after the diagnostics
	Summary bool
	// Output receives diagnostics; os.Stderr when nil
	Output io.Writer
}

// Result of a check run
type Result struct {
	// Success is true when every unit decoded and may be handed to code generation
	Success bool
	Units   []*pipeline.Result
}

// Check runs the semantic passes over every unit named by opts and writes
// the diagnostics. Problems that stop a unit from being checked at all
// (unreadable file, malformed s-expression, bad configuration) are written
// as plain errors and make the run fail.
func Check(ctx context.Context, opts *Options) Result {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		colors.RED.Fprintf(out, "error: %v\n", err)
		return Result{Success: false}
	}
	if opts.Debug {
		cfg.Debug = true
	}

	emitter := diagnostics.NewEmitter(out, cfg.Color)
	success := true

	var modules []*ast.Module
	add := func(file, content string) {
		mod, err := sexpr.Decode(file, content)
		if err != nil {
			colors.RED.Fprintf(out, "error: %v\n", err)
			success = false
			return
		}
		emitter.Cache().AddSource(file, content)
		modules = append(modules, mod)
	}

	for _, file := range opts.Files {
		data, err := os.ReadFile(file)
		if err != nil {
			colors.RED.Fprintf(out, "error: %v\n", err)
			success = false
			continue
		}
		add(file, string(data))
	}
	if opts.Code != "" {
		add(InMemoryFile, opts.Code)
	}

	units, err := pipeline.RunAll(ctx, cfg, modules)
	if err != nil {
		colors.RED.Fprintf(out, "error: %v\n", err)
		return Result{Success: false, Units: units}
	}

	for _, r := range units {
		r.Diagnostics.EmitAll(emitter)
		if !r.CanGenerate() {
			success = false
		}
	}

	if opts.Summary {
		pipeline.PrintSummary(out, units)
	}

	return Result{Success: success, Units: units}
}

func loadConfig(opts *Options) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}
	dir := "."
	if len(opts.Files) > 0 {
		abs, err := filepath.Abs(opts.Files[0])
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", opts.Files[0], err)
		}
		dir = filepath.Dir(abs)
	}
	return config.Find(dir)
}
