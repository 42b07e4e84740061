package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/piblocks/internal/engine"
	"github.com/san-kum/piblocks/internal/rational"
)

// Defaults for the classic demonstration scenario.
const (
	DefaultMass1          = 1.0
	DefaultMass2          = 10000.0
	DefaultPos1           = 150.0
	DefaultPos2           = 600.0
	DefaultVel2           = -5.0
	DefaultMaxDenominator = 1_000_000_000
	DefaultSimplifyEvery  = 100
	DefaultMaxSteps       = 10_000_000
)

// Config is the YAML-facing scenario description. Quantities are floats
// here for ergonomic config files; Engine converts them to exact rationals
// under the configured denominator bound.
type Config struct {
	Mass1          float64 `yaml:"mass1"`
	Mass2          float64 `yaml:"mass2"`
	Pos1           float64 `yaml:"pos1"`
	Pos2           float64 `yaml:"pos2"`
	Vel2           float64 `yaml:"vel2"`
	MaxDenominator int64   `yaml:"max_denominator"`
	SimplifyEvery  int     `yaml:"simplify_every"`
	MaxSteps       int     `yaml:"max_steps"`
}

// DefaultConfig returns the classic scenario: unit mass at rest, a 10000x
// block incoming at speed 5.
func DefaultConfig() *Config {
	return &Config{
		Mass1:          DefaultMass1,
		Mass2:          DefaultMass2,
		Pos1:           DefaultPos1,
		Pos2:           DefaultPos2,
		Vel2:           DefaultVel2,
		MaxDenominator: DefaultMaxDenominator,
		SimplifyEvery:  DefaultSimplifyEvery,
		MaxSteps:       DefaultMaxSteps,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Engine converts the float scenario to an exact engine configuration.
// Floats carry binary noise in their low bits, so each quantity passes
// through the denominator bound once (or the default bound when limiting
// is off) to recover the intended small-denominator value.
func (c *Config) Engine() (engine.Config, error) {
	bound := c.MaxDenominator
	if bound <= 0 {
		bound = DefaultMaxDenominator
	}

	conv := func(name string, f float64) (rational.Value, error) {
		v, err := rational.FromFloat(f)
		if err != nil {
			return rational.Value{}, fmt.Errorf("%s: %w", name, err)
		}
		v, err = v.LimitDenominator(bound)
		if err != nil {
			return rational.Value{}, fmt.Errorf("%s: %w", name, err)
		}
		return v, nil
	}

	var (
		cfg engine.Config
		err error
	)
	if cfg.Mass1, err = conv("mass1", c.Mass1); err != nil {
		return engine.Config{}, err
	}
	if cfg.Mass2, err = conv("mass2", c.Mass2); err != nil {
		return engine.Config{}, err
	}
	if cfg.Pos1, err = conv("pos1", c.Pos1); err != nil {
		return engine.Config{}, err
	}
	if cfg.Pos2, err = conv("pos2", c.Pos2); err != nil {
		return engine.Config{}, err
	}
	if cfg.Vel2, err = conv("vel2", c.Vel2); err != nil {
		return engine.Config{}, err
	}
	cfg.MaxDenominator = c.MaxDenominator
	cfg.SimplifyEvery = c.SimplifyEvery
	return cfg, nil
}
