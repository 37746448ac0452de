package engine

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/wildfunctions/genetic_programs/pkg/gen"
)

// Config holds all parameters for building a population.
type Config struct {
	Pool        string  `yaml:"pool" json:"pool"`
	PoolFile    string  `yaml:"pool_file" json:"pool_file,omitempty"`
	Strategy    string  `yaml:"strategy" json:"strategy"`
	Type        string  `yaml:"type" json:"type"` // "" = untyped
	Population  int     `yaml:"population" json:"population"`
	MaxDepth    int     `yaml:"max_depth" json:"max_depth"`
	ConstProb   float64 `yaml:"const_prob" json:"const_prob"`
	SubtreeProb float64 `yaml:"subtree_prob" json:"subtree_prob"`
	Seed        int64   `yaml:"seed" json:"seed"`     // 0 = random
	Format      string  `yaml:"format" json:"format"` // "text" or "json"
	Verbose     bool    `yaml:"verbose" json:"verbose"`
	Workers     int     `yaml:"workers" json:"workers"`
	Verify      bool    `yaml:"verify" json:"verify"`
	Preview     int     `yaml:"preview" json:"preview"`
	Dump        bool    `yaml:"dump" json:"dump"`
	OutDir      string  `yaml:"out_dir" json:"out_dir,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	prm := gen.DefaultParams()
	return Config{
		Pool:        "arith",
		Strategy:    "ramped",
		Type:        "double",
		Population:  200,
		MaxDepth:    prm.MaxDepth,
		ConstProb:   prm.ConstProb,
		SubtreeProb: prm.SubtreeProb,
		Seed:        0, // 0 = random
		Format:      "text",
		Verbose:     false,
		Workers:     runtime.NumCPU(),
		Verify:      true,
		Preview:     10,
	}
}

// LoadConfig overlays a YAML file on DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig overlays YAML content on DefaultConfig. The path argument
// is used only for error messages.
func ParseConfig(data []byte, path string) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for semantic errors.
func (c Config) Validate() error {
	if c.Population < 1 {
		return fmt.Errorf("population must be positive, got %d", c.Population)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}
	if c.ConstProb < 0 || c.ConstProb > 1 {
		return fmt.Errorf("const_prob must be in [0, 1], got %g", c.ConstProb)
	}
	if c.SubtreeProb < 0 || c.SubtreeProb > 1 {
		return fmt.Errorf("subtree_prob must be in [0, 1], got %g", c.SubtreeProb)
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}

// Params returns the generation parameters described by c.
func (c Config) Params() gen.Params {
	prm := gen.DefaultParams()
	prm.MaxDepth = c.MaxDepth
	prm.ConstProb = c.ConstProb
	prm.SubtreeProb = c.SubtreeProb
	return prm
}
