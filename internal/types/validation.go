// Package types provides type definitions for structured data used throughout the course-validator system.
package types

import (
	"github.com/go-playground/validator/v10"
)

// Material type constants for generated course content.
const (
	MaterialTheory = "Theory"
	MaterialLab    = "Lab"
)

// MaterialSource identifies one known source material a generated
// document may cite.
type MaterialSource struct {
	ID       string `json:"id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Category string `json:"category,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// ValidationRequest is the immutable input to a single validation run.
type ValidationRequest struct {
	Content         string           `json:"content" validate:"required,min=1"`
	Topic           string           `json:"topic,omitempty"`
	Type            string           `json:"type,omitempty" validate:"omitempty,oneof=Theory Lab"`
	MaterialSources []MaterialSource `json:"material_sources,omitempty"`
	InternalContext string           `json:"internal_context,omitempty"`
}

// Validate validates the ValidationRequest using the validator.
// A missing content field fails fast before any analyzer runs.
func (r *ValidationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// CodeBlockResult records the outcome of checking one fenced code block,
// in order of appearance in the content.
type CodeBlockResult struct {
	Language string `json:"language"`
	IsValid  bool   `json:"is_valid"`
	Error    string `json:"error,omitempty"`
}

// SyntaxReport summarizes code-block checking for one document.
type SyntaxReport struct {
	HasCode       bool              `json:"has_code"`
	BlocksChecked int               `json:"blocks_checked"`
	ValidBlocks   int               `json:"valid_blocks"`
	InvalidBlocks int               `json:"invalid_blocks"`
	AllValid      bool              `json:"all_valid"`
	Details       []CodeBlockResult `json:"details,omitempty"`
}

// Citation is one reference marker found in generated text.
type Citation struct {
	RawText           string `json:"raw_text"`
	MatchedMaterialID string `json:"matched_material_id,omitempty"`
	External          bool   `json:"external"`
}

// Grounding level constants, from strongest to weakest.
const (
	GroundingHigh   = "high"
	GroundingMedium = "medium"
	GroundingLow    = "low"
	GroundingNone   = "none"
)

// GroundingReport summarizes how well generated text is anchored to
// the supplied source materials.
type GroundingReport struct {
	GroundingScore    int        `json:"grounding_score"`
	GroundingLevel    string     `json:"grounding_level"`
	TotalCitations    int        `json:"total_citations"`
	InternalCitations int        `json:"internal_citations"`
	MaterialsUsed     []string   `json:"materials_used"`
	Citations         []Citation `json:"citations,omitempty"`
}

// QualityVerdict is the parsed result of the external rubric grading
// call. Success is false when the call failed or the reply could not
// be parsed; all other fields are zero in that case.
type QualityVerdict struct {
	Success         bool               `json:"success"`
	OverallScore    float64            `json:"overall_score"`
	Grade           string             `json:"grade,omitempty"`
	Scores          map[string]float64 `json:"scores,omitempty"`
	Strengths       []string           `json:"strengths,omitempty"`
	Weaknesses      []string           `json:"weaknesses,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
	Error           string             `json:"error,omitempty"`
}

// Validation status constants.
const (
	StatusPass = "pass"
	StatusWarn = "warn"
	StatusFail = "fail"
)

// ScoreBreakdown holds the normalized 0-100 score for each dimension.
// A dimension that could not be computed (quality on grader failure)
// is reported as -1 and excluded from the weighted blend.
type ScoreBreakdown struct {
	Syntax    int `json:"syntax"`
	Grounding int `json:"grounding"`
	Quality   int `json:"quality"`
}

// OverallResult is the combined verdict across all dimensions.
type OverallResult struct {
	OverallScore     int            `json:"overall_score"`
	Status           string         `json:"status"`
	PassesValidation bool           `json:"passes_validation"`
	Breakdown        ScoreBreakdown `json:"breakdown"`
}

// ValidationResult is the full report for one validation run. It is
// computed fresh per call and never persisted by this subsystem.
type ValidationResult struct {
	Overall   OverallResult   `json:"overall"`
	Syntax    SyntaxReport    `json:"syntax"`
	Grounding GroundingReport `json:"grounding"`
	Quality   QualityVerdict  `json:"quality"`
}
