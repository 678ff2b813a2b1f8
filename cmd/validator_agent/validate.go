package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-validator/internal/observability"
	"github.com/jonathan/course-validator/internal/types"
	"github.com/jonathan/course-validator/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a course material document",
	Long:  "Runs the full validation pipeline on a markdown document and prints the combined report. Exits non-zero when the document fails validation.",
	RunE:  runValidate,
}

var (
	validateContent   string
	validateMaterials string
	validateTopic     string
	validateType      string
	validateContext   string
	validateConfig    string
	validateOutput    string
	validateVerbose   bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateContent, "content", "i", "", "Path to markdown content file (required)")
	validateCmd.Flags().StringVarP(&validateMaterials, "materials", "m", "", "Path to material sources JSON file (optional)")
	validateCmd.Flags().StringVar(&validateTopic, "topic", "", "Topic the content should cover")
	validateCmd.Flags().StringVar(&validateType, "type", "", "Material type: Theory or Lab")
	validateCmd.Flags().StringVar(&validateContext, "context", "", "Path to internal context file (optional)")
	validateCmd.Flags().StringVar(&validateConfig, "config", "", "Path to JSON config file")
	validateCmd.Flags().StringVarP(&validateOutput, "out", "o", "", "Path to output result JSON file (optional)")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Print detailed per-dimension reports")

	if err := validateCmd.MarkFlagRequired("content"); err != nil {
		panic(fmt.Sprintf("failed to mark content flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	cfg, err := loadEffectiveConfig(validateConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	req, err := buildValidationRequest(validateContent, validateMaterials, validateContext, validateTopic, validateType)
	if err != nil {
		return err
	}

	ctx := context.Background()
	grader, client, err := newGrader(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	result, err := validation.Run(ctx, req, grader, optionsFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if validateVerbose || cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintValidationResult(result)
	} else {
		fmt.Printf("Overall: %d/100 (%s)\n", result.Overall.OverallScore, result.Overall.Status)
	}

	if validateOutput != "" {
		if err := writeResultJSON(validateOutput, result); err != nil {
			return err
		}
		fmt.Printf("Output: %s\n", validateOutput)
	}

	if result.Overall.Status == types.StatusFail {
		return fmt.Errorf("content failed validation with score %d", result.Overall.OverallScore)
	}
	return nil
}

// buildValidationRequest assembles the pipeline input from CLI flag
// values, reading the referenced files.
func buildValidationRequest(contentPath, materialsPath, contextPath, topic, materialType string) (*types.ValidationRequest, error) {
	content, err := os.ReadFile(contentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}

	req := &types.ValidationRequest{
		Content: string(content),
		Topic:   topic,
		Type:    materialType,
	}

	if materialsPath != "" {
		data, err := os.ReadFile(materialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read materials file: %w", err)
		}
		if err := json.Unmarshal(data, &req.MaterialSources); err != nil {
			return nil, fmt.Errorf("failed to unmarshal materials JSON: %w", err)
		}
	}

	if contextPath != "" {
		data, err := os.ReadFile(contextPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read context file: %w", err)
		}
		req.InternalContext = string(data)
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	return req, nil
}

// writeResultJSON writes the result to disk, creating parent
// directories as needed.
func writeResultJSON(path string, result *types.ValidationResult) error {
	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result to JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}
	return nil
}
