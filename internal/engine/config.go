package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mode selects how the engine balances interpretation and compilation.
type Mode string

const (
	// ModeOff never compiles; every evaluation walks the tree.
	ModeOff Mode = "off"

	// ModeMixed interprets until an expression proves hot (it has been
	// evaluated CompileThreshold times), then compiles it once and runs
	// the machine code from then on. This is the default.
	ModeMixed Mode = "mixed"

	// ModeImmediate compiles compilable expressions at parse time.
	ModeImmediate Mode = "immediate"
)

// Config controls the hybrid evaluator.
type Config struct {
	Mode Mode `yaml:"mode"`

	// CompileThreshold is the number of interpreted evaluations after
	// which a mixed-mode expression is compiled.
	CompileThreshold int `yaml:"compile_threshold"`
}

// DefaultConfig returns the mixed-mode defaults.
func DefaultConfig() Config {
	return Config{
		Mode:             ModeMixed,
		CompileThreshold: 100,
	}
}

// Validate rejects unknown modes and nonsensical thresholds.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeOff, ModeMixed, ModeImmediate:
	default:
		return fmt.Errorf("engine: unknown mode %q", c.Mode)
	}
	if c.CompileThreshold <= 0 {
		return fmt.Errorf("engine: compile_threshold must be positive, got %d", c.CompileThreshold)
	}
	return nil
}

// LoadConfig reads a YAML config file, applying defaults for absent keys.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("engine: reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
