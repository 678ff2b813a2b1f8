package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/course-validator/internal/schemas"
	"github.com/jonathan/course-validator/internal/types"
)

var schemaFiles = []string{
	"validation_request.schema.json",
	"validation_result.schema.json",
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err, "should be able to read schema file")

			var v interface{}
			err = json.Unmarshal(data, &v)
			assert.NoError(t, err, "schema file should be valid JSON: %s", schemaFile)
		})
	}
}

func TestSchemaFiles_ValidJSONSchema(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err)

			_, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			assert.NoError(t, err, "schema should load as a JSON Schema: %s", schemaFile)
		})
	}
}

func readSchema(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(".", name))
	require.NoError(t, err)
	return string(data)
}

func TestValidationRequestSchema_AcceptsWellFormedRequest(t *testing.T) {
	schema := readSchema(t, "validation_request.schema.json")

	doc := `{
		"content": "# BSTs\n\nOrdered trees. [Trees and Graphs]",
		"topic": "Binary Search Trees",
		"type": "Theory",
		"material_sources": [
			{"id": "mat-001", "title": "Trees and Graphs", "category": "Data Structures"}
		]
	}`

	assert.NoError(t, schemas.ValidateString(schema, doc))
}

func TestValidationRequestSchema_RejectsBadRequests(t *testing.T) {
	schema := readSchema(t, "validation_request.schema.json")

	tests := []struct {
		name string
		doc  string
	}{
		{"missing content", `{"topic": "BSTs"}`},
		{"empty content", `{"content": ""}`},
		{"bad type", `{"content": "x", "type": "Quiz"}`},
		{"material missing id", `{"content": "x", "material_sources": [{"title": "T"}]}`},
		{"unknown field", `{"content": "x", "bogus": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, schemas.ValidateString(schema, tt.doc))
		})
	}
}

func TestValidationResultSchema_AcceptsMarshaledResult(t *testing.T) {
	schema := readSchema(t, "validation_result.schema.json")

	result := types.ValidationResult{
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
			Scores:       map[string]float64{"accuracy": 8},
		},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	assert.NoError(t, schemas.ValidateString(schema, string(data)))
}

func TestValidationResultSchema_RejectsBadStatus(t *testing.T) {
	schema := readSchema(t, "validation_result.schema.json")

	doc := `{
		"overall": {
			"overall_score": 50,
			"status": "maybe",
			"passes_validation": true,
			"breakdown": {"syntax": 50, "grounding": 50, "quality": 50}
		},
		"syntax": {"has_code": false, "blocks_checked": 0, "valid_blocks": 0, "invalid_blocks": 0, "all_valid": true},
		"grounding": {"grounding_score": 0, "grounding_level": "none", "total_citations": 0, "internal_citations": 0, "materials_used": null},
		"quality": {"success": true, "overall_score": 5}
	}`

	require.Error(t, schemas.ValidateString(schema, doc))
}
