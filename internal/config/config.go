// Package config loads the thrush.yaml options that tune the semantic passes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up next to the sources.
const FileName = "thrush.yaml"

// MutDeref selects how field access treats a value of type `mut T`.
type MutDeref string

const (
	// MutDerefImplicit lets `mut Struct` auto-dereference like `ptr[Struct]`.
	MutDerefImplicit MutDeref = "implicit"
	// MutDerefExplicit only auto-dereferences `ptr[Struct]`.
	MutDerefExplicit MutDeref = "explicit"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds compiler options for the semantic core.
type Config struct {
	// Strict turns unreachable code into an error instead of a warning.
	Strict bool `yaml:"strict"`

	// DefaultInt is the type of an integer literal with no expected type.
	DefaultInt string `yaml:"default_int"`

	FieldAccess FieldAccess `yaml:"field_access"`

	// Jobs bounds how many compilation units are checked in parallel.
	Jobs int `yaml:"jobs"`

	// Debug prints phase progress.
	Debug bool `yaml:"debug"`

	// Color is one of auto, always or never.
	Color string `yaml:"color"`
}

type FieldAccess struct {
	MutDeref MutDeref `yaml:"mut_deref"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Strict:      true,
		DefaultInt:  "s32",
		FieldAccess: FieldAccess{MutDeref: MutDerefImplicit},
		Jobs:        runtime.NumCPU(),
		Color:       "auto",
	}
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Find loads thrush.yaml from dir, or returns the defaults when the file is absent.
func Find(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes YAML on top of the defaults. Unknown keys are rejected.
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks option values and fills zero values with defaults.
func (c *Config) Validate() error {
	switch c.DefaultInt {
	case "s8", "s16", "s32", "s64", "u8", "u16", "u32", "u64":
	case "":
		c.DefaultInt = "s32"
	default:
		return fmt.Errorf("%w: default_int %q is not an integer type", ErrInvalidConfig, c.DefaultInt)
	}

	switch c.FieldAccess.MutDeref {
	case MutDerefImplicit, MutDerefExplicit:
	case "":
		c.FieldAccess.MutDeref = MutDerefImplicit
	default:
		return fmt.Errorf("%w: field_access.mut_deref must be implicit or explicit, got %q", ErrInvalidConfig, c.FieldAccess.MutDeref)
	}

	switch c.Color {
	case "auto", "always", "never":
	case "":
		c.Color = "auto"
	default:
		return fmt.Errorf("%w: color must be auto, always or never, got %q", ErrInvalidConfig, c.Color)
	}

	if c.Jobs < 0 {
		return fmt.Errorf("%w: jobs must not be negative", ErrInvalidConfig)
	}
	if c.Jobs == 0 {
		c.Jobs = runtime.NumCPU()
	}
	return nil
}
