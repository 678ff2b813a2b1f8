package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/course-validator/internal/types"
)

func sampleResult() *types.ValidationResult {
	return &types.ValidationResult{
		Overall: types.OverallResult{
			OverallScore:     86,
			Status:           types.StatusPass,
			PassesValidation: true,
			Breakdown:        types.ScoreBreakdown{Syntax: 100, Grounding: 80, Quality: 80},
		},
		Syntax: types.SyntaxReport{
			HasCode:       true,
			BlocksChecked: 1,
			ValidBlocks:   1,
			AllValid:      true,
			Details:       []types.CodeBlockResult{{Language: "python", IsValid: true}},
		},
		Grounding: types.GroundingReport{
			GroundingScore:    80,
			GroundingLevel:    types.GroundingHigh,
			TotalCitations:    2,
			InternalCitations: 2,
			MaterialsUsed:     []string{"mat-001"},
		},
		Quality: types.QualityVerdict{
			Success:      true,
			OverallScore: 8,
			Grade:        "B",
			Strengths:    []string{"clear explanations"},
		},
	}
}

func TestPrintValidationResult(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	printer.PrintValidationResult(sampleResult())

	out := buf.String()
	assert.Contains(t, out, "VALIDATION RESULT")
	assert.Contains(t, out, "86/100 (PASS)")
	assert.Contains(t, out, "SYNTAX")
	assert.Contains(t, out, "GROUNDING")
	assert.Contains(t, out, "QUALITY")
	assert.Contains(t, out, "clear explanations")
}

func TestPrintValidationResult_NilIsNoop(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	printer.PrintValidationResult(nil)

	assert.Empty(t, buf.String())
}

func TestPrintValidationResult_GraderFailure(t *testing.T) {
	result := sampleResult()
	result.Quality = types.QualityVerdict{Success: false, Error: "service unreachable"}
	result.Overall.Breakdown.Quality = -1

	var buf bytes.Buffer
	NewPrinter(&buf).PrintValidationResult(result)

	out := buf.String()
	assert.Contains(t, out, "Grading unavailable")
	assert.Contains(t, out, "—")
}

func TestPrintValidationResult_NoCode(t *testing.T) {
	result := sampleResult()
	result.Syntax = types.SyntaxReport{HasCode: false, AllValid: true}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintValidationResult(result)

	assert.Contains(t, buf.String(), "No code blocks found")
}
