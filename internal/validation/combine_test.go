package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/course-validator/internal/types"
)

// stubGrader implements QualityGrader with a canned verdict.
type stubGrader struct {
	GradeFunc func(ctx context.Context, req *types.ValidationRequest) *types.QualityVerdict
}

func (s *stubGrader) Grade(ctx context.Context, req *types.ValidationRequest) *types.QualityVerdict {
	if s.GradeFunc != nil {
		return s.GradeFunc(ctx, req)
	}
	return &types.QualityVerdict{Success: true, OverallScore: 8, Grade: "B"}
}

func failingGrader() *stubGrader {
	return &stubGrader{
		GradeFunc: func(_ context.Context, _ *types.ValidationRequest) *types.QualityVerdict {
			return &types.QualityVerdict{Success: false, Error: "service unreachable"}
		},
	}
}

var bstMaterials = []types.MaterialSource{
	{ID: "mat-001", Title: "Binary Search Trees", Category: "Lecture", FileName: "week3_bst.md"},
	{ID: "mat-002", Title: "Tree Traversal Algorithms", Category: "Lecture", FileName: "week4_traversal.md"},
}

const bstContent = "# Binary Search Trees\n\n" +
	"A binary search tree keeps every key in the left subtree smaller than its root " +
	"and every key in the right subtree larger [Binary Search Trees].\n\n" +
	"```python\ndef insert(node, key):\n    if node is None:\n        return Node(key)\n    if key < node.key:\n        node.left = insert(node.left, key)\n    else:\n        node.right = insert(node.right, key)\n    return node\n```\n\n" +
	"An in-order walk of the tree visits the keys in sorted order [Tree Traversal Algorithms].\n"

func TestRun_MissingContentFailsFast(t *testing.T) {
	called := false
	grader := &stubGrader{
		GradeFunc: func(_ context.Context, _ *types.ValidationRequest) *types.QualityVerdict {
			called = true
			return &types.QualityVerdict{Success: true, OverallScore: 8}
		},
	}

	_, err := Run(context.Background(), &types.ValidationRequest{Topic: "BST"}, grader, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid validation request")
	assert.False(t, called, "no analyzer should run on invalid input")
}

func TestRun_EndToEndBSTScenario(t *testing.T) {
	req := &types.ValidationRequest{
		Content:         bstContent,
		Topic:           "Binary Search Trees",
		Type:            types.MaterialTheory,
		MaterialSources: bstMaterials,
	}

	result, err := Run(context.Background(), req, &stubGrader{}, nil)

	require.NoError(t, err)
	assert.True(t, result.Syntax.AllValid)
	assert.True(t, result.Syntax.HasCode)
	assert.Equal(t, 2, result.Grounding.InternalCitations)
	assert.Contains(t,
		[]string{types.GroundingMedium, types.GroundingHigh},
		result.Grounding.GroundingLevel)
	assert.True(t, result.Quality.Success)
	assert.Equal(t, types.StatusPass, result.Overall.Status)
	assert.True(t, result.Overall.PassesValidation)
}

func TestRun_NoCodeIsNeutral(t *testing.T) {
	// With syntax at the neutral 100, the overall score must not drop
	// below what grounding+quality alone would produce.
	req := &types.ValidationRequest{
		Content:         "Trees are covered in [Binary Search Trees] and [Tree Traversal Algorithms].",
		MaterialSources: bstMaterials,
	}

	result, err := Run(context.Background(), req, &stubGrader{}, nil)

	require.NoError(t, err)
	assert.False(t, result.Syntax.HasCode)
	assert.Equal(t, 100, result.Overall.Breakdown.Syntax)

	withoutSyntax := weightedBlend(types.ScoreBreakdown{
		Syntax:    -1,
		Grounding: result.Overall.Breakdown.Grounding,
		Quality:   result.Overall.Breakdown.Quality,
	}, DefaultOptions().Weights)
	assert.GreaterOrEqual(t, result.Overall.OverallScore, withoutSyntax)
}

func TestRun_GraderFailureReweights(t *testing.T) {
	req := &types.ValidationRequest{
		Content:         bstContent,
		MaterialSources: bstMaterials,
	}

	result, err := Run(context.Background(), req, failingGrader(), nil)

	require.NoError(t, err, "validation must complete despite grader failure")
	assert.False(t, result.Quality.Success)
	assert.Equal(t, -1, result.Overall.Breakdown.Quality)

	// Overall equals the syntax/grounding blend re-weighted to 30/35
	expected := weightedBlend(types.ScoreBreakdown{
		Syntax:    result.Overall.Breakdown.Syntax,
		Grounding: result.Overall.Breakdown.Grounding,
		Quality:   -1,
	}, DefaultOptions().Weights)
	assert.Equal(t, expected, result.Overall.OverallScore)
	assert.GreaterOrEqual(t, result.Overall.OverallScore, 0)
	assert.LessOrEqual(t, result.Overall.OverallScore, 100)
}

func TestRun_Idempotent(t *testing.T) {
	req := &types.ValidationRequest{
		Content:         bstContent,
		Topic:           "Binary Search Trees",
		MaterialSources: bstMaterials,
	}
	grader := &stubGrader{
		GradeFunc: func(_ context.Context, _ *types.ValidationRequest) *types.QualityVerdict {
			return &types.QualityVerdict{
				Success:      true,
				OverallScore: 7.5,
				Grade:        "C",
				Scores:       map[string]float64{"accuracy": 8},
			}
		},
	}

	first, err := Run(context.Background(), req, grader, nil)
	require.NoError(t, err)
	second, err := Run(context.Background(), req, grader, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWeightedBlend(t *testing.T) {
	weights := DefaultOptions().Weights

	tests := []struct {
		name      string
		breakdown types.ScoreBreakdown
		expected  int
	}{
		{
			name:      "all dimensions present",
			breakdown: types.ScoreBreakdown{Syntax: 100, Grounding: 80, Quality: 80},
			expected:  86, // 30*100 + 35*80 + 35*80 = 8600 / 100
		},
		{
			name:      "quality missing reweights to syntax+grounding",
			breakdown: types.ScoreBreakdown{Syntax: 100, Grounding: 35, Quality: -1},
			expected:  65, // (30*100 + 35*35) / 65
		},
		{
			name:      "all zero",
			breakdown: types.ScoreBreakdown{Syntax: 0, Grounding: 0, Quality: 0},
			expected:  0,
		},
		{
			name:      "all perfect",
			breakdown: types.ScoreBreakdown{Syntax: 100, Grounding: 100, Quality: 100},
			expected:  100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, weightedBlend(tt.breakdown, weights))
		})
	}
}

func TestStatusThresholds(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, types.StatusPass, statusFor(85, opts))
	assert.Equal(t, types.StatusPass, statusFor(80, opts))
	assert.Equal(t, types.StatusWarn, statusFor(79, opts))
	assert.Equal(t, types.StatusWarn, statusFor(45, opts))
	assert.Equal(t, types.StatusWarn, statusFor(40, opts))
	assert.Equal(t, types.StatusFail, statusFor(39, opts))
	assert.Equal(t, types.StatusFail, statusFor(10, opts))
}

func TestSyntaxScore(t *testing.T) {
	assert.Equal(t, 100, syntaxScore(&types.SyntaxReport{HasCode: false}))
	assert.Equal(t, 100, syntaxScore(&types.SyntaxReport{HasCode: true, BlocksChecked: 2, ValidBlocks: 2}))
	assert.Equal(t, 50, syntaxScore(&types.SyntaxReport{HasCode: true, BlocksChecked: 2, ValidBlocks: 1}))
	assert.Equal(t, 0, syntaxScore(&types.SyntaxReport{HasCode: true, BlocksChecked: 3, ValidBlocks: 0}))
}

func TestQualityScore(t *testing.T) {
	assert.Equal(t, -1, qualityScore(&types.QualityVerdict{Success: false}))
	assert.Equal(t, 85, qualityScore(&types.QualityVerdict{Success: true, OverallScore: 8.5}))
	assert.Equal(t, 0, qualityScore(&types.QualityVerdict{Success: true, OverallScore: 0}))
	assert.Equal(t, 100, qualityScore(&types.QualityVerdict{Success: true, OverallScore: 10}))
}
