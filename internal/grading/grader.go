// Package grading grades generated course material against a fixed
// rubric using an external text-completion service. The grader never
// propagates transport or parse faults: every failure degrades to a
// QualityVerdict with Success=false so the combiner can re-weight the
// remaining dimensions.
package grading

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/course-validator/internal/llm"
	"github.com/jonathan/course-validator/internal/prompts"
	"github.com/jonathan/course-validator/internal/schemas"
	"github.com/jonathan/course-validator/internal/types"
)

// DefaultTimeout bounds the single grading call. Expiry is treated the
// same as any other grader failure.
const DefaultTimeout = 60 * time.Second

//go:embed quality_verdict.schema.json
var verdictSchema string

// verdictResponse is the expected JSON reply from the LLM.
type verdictResponse struct {
	OverallScore    float64            `json:"overall_score"`
	Grade           string             `json:"grade"`
	Scores          map[string]float64 `json:"scores"`
	Strengths       []string           `json:"strengths"`
	Weaknesses      []string           `json:"weaknesses"`
	Recommendations []string           `json:"recommendations"`
}

// Grader runs rubric grading calls against an llm.Client.
type Grader struct {
	client  llm.Client
	timeout time.Duration
}

// NewGrader creates a grader. A non-positive timeout falls back to
// DefaultTimeout.
func NewGrader(client llm.Client, timeout time.Duration) *Grader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Grader{client: client, timeout: timeout}
}

// Grade sends the content with topic/type context to the grading model
// and parses a structured verdict from the reply. One attempt per call;
// callers retry the whole validation if they want a second opinion.
func (g *Grader) Grade(ctx context.Context, req *types.ValidationRequest) *types.QualityVerdict {
	prompt := buildGradingPrompt(req)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	reply, err := g.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return failedVerdict(fmt.Sprintf("grading call failed: %v", err))
	}

	return parseVerdict(reply)
}

// parseVerdict validates the raw reply against the verdict schema and
// converts it to a QualityVerdict. Any shape divergence degrades to
// Success=false rather than an error.
func parseVerdict(reply string) *types.QualityVerdict {
	reply = llm.CleanJSONBlock(reply)

	if err := schemas.ValidateString(verdictSchema, reply); err != nil {
		return failedVerdict(fmt.Sprintf("grading reply rejected: %v", err))
	}

	var response verdictResponse
	if err := json.Unmarshal([]byte(reply), &response); err != nil {
		return failedVerdict(fmt.Sprintf("failed to parse grading reply: %v", err))
	}

	verdict := &types.QualityVerdict{
		Success:         true,
		OverallScore:    clampScore(response.OverallScore),
		Grade:           response.Grade,
		Scores:          make(map[string]float64, len(response.Scores)),
		Strengths:       response.Strengths,
		Weaknesses:      response.Weaknesses,
		Recommendations: response.Recommendations,
	}
	for category, score := range response.Scores {
		verdict.Scores[category] = clampScore(score)
	}
	if verdict.Grade == "" {
		verdict.Grade = letterGrade(verdict.OverallScore)
	}

	return verdict
}

// buildGradingPrompt fills the rubric template with request context.
func buildGradingPrompt(req *types.ValidationRequest) string {
	materialType := req.Type
	if materialType == "" {
		materialType = "Theory"
	}
	topic := req.Topic
	if topic == "" {
		topic = "Not specified"
	}
	internalContext := req.InternalContext
	if internalContext == "" {
		internalContext = "Not provided"
	}

	template := prompts.MustGet("grading.json", "grade-content-quality")
	return prompts.Format(template, map[string]string{
		"Type":            materialType,
		"Topic":           topic,
		"InternalContext": internalContext,
		"Content":         req.Content,
	})
}

func failedVerdict(reason string) *types.QualityVerdict {
	return &types.QualityVerdict{
		Success: false,
		Error:   reason,
	}
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

// letterGrade maps a 0-10 overall score to a letter when the model
// omitted one.
func letterGrade(score float64) string {
	switch {
	case score >= 9:
		return "A"
	case score >= 8:
		return "B"
	case score >= 7:
		return "C"
	case score >= 6:
		return "D"
	default:
		return "F"
	}
}
