// Package validation combines the syntax, grounding and quality
// analyzers into a single weighted report for one piece of generated
// course material. Each run is independent and safe to invoke
// concurrently; only the quality dimension leaves the process.
package validation

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/course-validator/internal/grounding"
	"github.com/jonathan/course-validator/internal/syntax"
	"github.com/jonathan/course-validator/internal/types"
)

// QualityGrader is the narrow interface the combiner needs from the
// grading layer. It must degrade internally: Grade never fails, it
// returns a verdict with Success=false instead.
type QualityGrader interface {
	Grade(ctx context.Context, req *types.ValidationRequest) *types.QualityVerdict
}

// Weights holds the relative weight of each score dimension. They are
// renormalized when a dimension is missing, so only ratios matter.
type Weights struct {
	Syntax    float64
	Grounding float64
	Quality   float64
}

// Options configures a validation run.
type Options struct {
	Weights       Weights
	PassThreshold int
	WarnThreshold int
}

// DefaultOptions returns the documented default weights (30/35/35) and
// status cutoffs (pass >= 80, warn >= 40).
func DefaultOptions() *Options {
	return &Options{
		Weights:       Weights{Syntax: 30, Grounding: 35, Quality: 35},
		PassThreshold: 80,
		WarnThreshold: 40,
	}
}

// Run validates the request, fans out to the three analyzers and
// reduces their reports into one ValidationResult. The syntax and
// grounding scans are pure CPU work; the quality grade is the only
// external round trip. A grader failure excludes the quality dimension
// from the blend rather than zeroing it.
func Run(ctx context.Context, req *types.ValidationRequest, grader QualityGrader, opts *Options) (*types.ValidationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid validation request: %w", err)
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	var (
		syntaxReport    *types.SyntaxReport
		groundingReport *types.GroundingReport
		qualityVerdict  *types.QualityVerdict
	)

	// No data dependency among the analyzers: plain fan-out/fan-in.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		syntaxReport = syntax.Check(req.Content)
		return nil
	})
	g.Go(func() error {
		groundingReport = grounding.Score(req.Content, req.MaterialSources)
		return nil
	})
	g.Go(func() error {
		qualityVerdict = grader.Grade(gCtx, req)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &types.ValidationResult{
		Syntax:    *syntaxReport,
		Grounding: *groundingReport,
		Quality:   *qualityVerdict,
	}
	result.Overall = combine(result, opts)
	return result, nil
}

// combine normalizes each dimension to 0-100 and reduces them to the
// overall verdict.
func combine(result *types.ValidationResult, opts *Options) types.OverallResult {
	breakdown := types.ScoreBreakdown{
		Syntax:    syntaxScore(&result.Syntax),
		Grounding: result.Grounding.GroundingScore,
		Quality:   qualityScore(&result.Quality),
	}

	overall := clamp(weightedBlend(breakdown, opts.Weights))
	status := statusFor(overall, opts)

	return types.OverallResult{
		OverallScore:     overall,
		Status:           status,
		PassesValidation: status != types.StatusFail,
		Breakdown:        breakdown,
	}
}

// syntaxScore normalizes the syntax report. Content without code gets
// the full neutral score so the absence of code never penalizes.
func syntaxScore(report *types.SyntaxReport) int {
	if !report.HasCode || report.BlocksChecked == 0 {
		return 100
	}
	return int(math.Round(float64(report.ValidBlocks) / float64(report.BlocksChecked) * 100))
}

// qualityScore maps the 0-10 verdict to 0-100, or -1 when the grader
// failed and the dimension must be excluded from the blend.
func qualityScore(verdict *types.QualityVerdict) int {
	if !verdict.Success {
		return -1
	}
	return int(math.Round(verdict.OverallScore * 10))
}

// weightedBlend computes the weighted average over the available
// dimensions, re-weighting proportionally when one is missing (-1).
func weightedBlend(breakdown types.ScoreBreakdown, weights Weights) int {
	type dimension struct {
		score  int
		weight float64
	}
	dimensions := []dimension{
		{breakdown.Syntax, weights.Syntax},
		{breakdown.Grounding, weights.Grounding},
		{breakdown.Quality, weights.Quality},
	}

	sum, totalWeight := 0.0, 0.0
	for _, d := range dimensions {
		if d.score < 0 || d.weight <= 0 {
			continue
		}
		sum += float64(d.score) * d.weight
		totalWeight += d.weight
	}
	if totalWeight == 0 {
		return 0
	}
	return int(math.Round(sum / totalWeight))
}

func statusFor(score int, opts *Options) string {
	switch {
	case score >= opts.PassThreshold:
		return types.StatusPass
	case score >= opts.WarnThreshold:
		return types.StatusWarn
	default:
		return types.StatusFail
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
