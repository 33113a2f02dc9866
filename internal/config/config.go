package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the on-disk engine configuration.
type Config struct {
	Engine EngineSettings `hcl:"engine,block"`
}

// EngineSettings tunes the equity engine.
type EngineSettings struct {
	// Workers caps parallel workers; 0 uses every CPU.
	Workers int `hcl:"workers,optional"`
	// Iterations raises the Monte Carlo budget above the bracket default.
	Iterations int `hcl:"iterations,optional"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `hcl:"log_level,optional"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineSettings{
			Workers:    0,
			Iterations: 0,
			LogLevel:   "warn",
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to defaults
// for any omitted settings.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", filename)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %s", filename, diags.Error())
	}

	cfg := DefaultConfig()
	if diags := gohcl.DecodeBody(file.Body, nil, cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %s", filename, diags.Error())
	}

	return cfg, nil
}
