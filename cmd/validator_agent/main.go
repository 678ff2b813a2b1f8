// Package main provides the entry point for the course content validator.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/course-validator/internal/config"
	"github.com/jonathan/course-validator/internal/grading"
	"github.com/jonathan/course-validator/internal/llm"
	"github.com/jonathan/course-validator/internal/validation"
)

var rootCmd = &cobra.Command{
	Use:   "validator_agent",
	Short: "Course material validation service",
	Long:  "Validates AI-generated course material: checks code block syntax, scores grounding against known source materials, grades quality via an LLM rubric, and combines everything into one pass/warn/fail report.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// defaultConfig holds the documented defaults that a config file or
// CLI flags may override.
func defaultConfig() config.Config {
	return config.Config{
		SyntaxWeight:          30,
		GroundingWeight:       35,
		QualityWeight:         35,
		PassThreshold:         80,
		WarnThreshold:         40,
		QualityTimeoutSeconds: 60,
		Port:                  8080,
	}
}

// loadEffectiveConfig loads the optional config file and merges it
// with defaults. An empty path yields the defaults.
func loadEffectiveConfig(path string) (config.Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg.MergeWithDefaults(defaultConfig()), nil
}

// optionsFromConfig translates file config into combiner options.
func optionsFromConfig(cfg config.Config) *validation.Options {
	return &validation.Options{
		Weights: validation.Weights{
			Syntax:    cfg.SyntaxWeight,
			Grounding: cfg.GroundingWeight,
			Quality:   cfg.QualityWeight,
		},
		PassThreshold: cfg.PassThreshold,
		WarnThreshold: cfg.WarnThreshold,
	}
}

// newGrader builds the LLM-backed quality grader. The API key comes
// from the config file or the GEMINI_API_KEY environment variable.
func newGrader(ctx context.Context, cfg config.Config) (*grading.Grader, llm.Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	llmConfig := llm.DefaultConfig()
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(llm.TierStandard, cfg.Model)
	}

	client, err := llm.NewClient(ctx, llmConfig, apiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	timeout := time.Duration(cfg.QualityTimeoutSeconds) * time.Second
	return grading.NewGrader(client, timeout), client, nil
}
