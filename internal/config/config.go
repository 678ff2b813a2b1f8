// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents settings that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be
// provided via CLI flags or environment variables.
type Config struct {
	// Behavior
	APIKey  string `json:"api_key,omitempty"`  // Gemini API key
	Model   string `json:"model,omitempty"`    // Override for the grading model
	Verbose bool   `json:"verbose,omitempty"`  // Print detailed reports

	// Scoring knobs. Zero means "use the documented default".
	SyntaxWeight    float64 `json:"syntax_weight,omitempty"`    // Default 30
	GroundingWeight float64 `json:"grounding_weight,omitempty"` // Default 35
	QualityWeight   float64 `json:"quality_weight,omitempty"`   // Default 35
	PassThreshold   int     `json:"pass_threshold,omitempty"`   // Default 80
	WarnThreshold   int     `json:"warn_threshold,omitempty"`   // Default 40

	// Quality grading
	QualityTimeoutSeconds int `json:"quality_timeout_seconds,omitempty"` // Default 60

	// Server
	Port      int    `json:"port,omitempty"`       // HTTP listen port
	JWTSecret string `json:"jwt_secret,omitempty"` // Enables bearer auth when set
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.SyntaxWeight < 0 || c.GroundingWeight < 0 || c.QualityWeight < 0 {
		return fmt.Errorf("config error: score weights must be non-negative")
	}
	if c.PassThreshold < 0 || c.PassThreshold > 100 {
		return fmt.Errorf("config error: 'pass_threshold' must be in [0,100]")
	}
	if c.WarnThreshold < 0 || c.WarnThreshold > 100 {
		return fmt.Errorf("config error: 'warn_threshold' must be in [0,100]")
	}
	if c.PassThreshold != 0 && c.WarnThreshold > c.PassThreshold {
		return fmt.Errorf("config error: 'warn_threshold' must not exceed 'pass_threshold'")
	}
	if c.QualityTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'quality_timeout_seconds' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid TCP port")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled
// from defaults. CLI flags should still win over the merged result.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.JWTSecret == "" {
		result.JWTSecret = defaults.JWTSecret
	}

	if result.SyntaxWeight == 0 {
		result.SyntaxWeight = defaults.SyntaxWeight
	}
	if result.GroundingWeight == 0 {
		result.GroundingWeight = defaults.GroundingWeight
	}
	if result.QualityWeight == 0 {
		result.QualityWeight = defaults.QualityWeight
	}
	if result.PassThreshold == 0 {
		result.PassThreshold = defaults.PassThreshold
	}
	if result.WarnThreshold == 0 {
		result.WarnThreshold = defaults.WarnThreshold
	}
	if result.QualityTimeoutSeconds == 0 {
		result.QualityTimeoutSeconds = defaults.QualityTimeoutSeconds
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
