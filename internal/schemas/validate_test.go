package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/memo-analyzer/internal/presentation"
	"github.com/jonathan/memo-analyzer/internal/types"
)

func TestValidateDocument_AssembledDocuments(t *testing.T) {
	tests := []struct {
		name   string
		result types.AnalysisResult
	}{
		{
			name: "full result",
			result: types.AnalysisResult{
				QualityScore:           78,
				DocumentAnalysis:       "# Overview\n\nThe document is **complete**.\n\n* item one\n* item two",
				MemoAnalysis:           `{"content": "## Memo\nShort memo."}`,
				ImprovementSuggestions: []string{"Add citations"},
				ComplianceIssues:       []string{"Unsigned"},
			},
		},
		{
			name:   "structured wrapper content",
			result: types.AnalysisResult{DocumentAnalysis: `{"content": {"a": 1}}`},
		},
		{
			name:   "empty result",
			result: *types.EmptyAnalysisResult(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := presentation.Assemble(tt.result, "Title")
			assert.NoError(t, ValidateDocument(doc))
		})
	}
}

func TestValidateDocumentJSON_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantField string
	}{
		{
			name:      "missing sections",
			json:      `{"title": "", "quality_score": 1, "suggestions": [], "compliance_issues": []}`,
			wantField: "(root)",
		},
		{
			name:      "score out of range",
			json:      `{"title": "", "quality_score": 140, "sections": [], "suggestions": [], "compliance_issues": []}`,
			wantField: "quality_score",
		},
		{
			name: "unknown block kind",
			json: `{"title": "", "quality_score": 1, "suggestions": [], "compliance_issues": [],
				"sections": [{"label": "x", "blocks": [{"kind": "html", "spans": []}]}]}`,
			wantField: "sections.0.blocks.0.kind",
		},
		{
			name: "heading without level",
			json: `{"title": "", "quality_score": 1, "suggestions": [], "compliance_issues": [],
				"sections": [{"label": "x", "blocks": [{"kind": "heading", "spans": [{"text": "h"}]}]}]}`,
			wantField: "sections.0.blocks.0",
		},
		{
			name: "empty section",
			json: `{"title": "", "quality_score": 1, "suggestions": [], "compliance_issues": [],
				"sections": [{"label": "x", "blocks": []}]}`,
			wantField: "sections.0.blocks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentJSON([]byte(tt.json))
			require.Error(t, err)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "error should be ValidationError type")
			assert.Contains(t, validationErr.Fields(), tt.wantField)
		})
	}
}

func TestValidateDocumentJSON_Malformed(t *testing.T) {
	err := ValidateDocumentJSON([]byte(`{not json`))
	require.Error(t, err)

	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
}

func TestPresentationDocumentSchema_Compiles(t *testing.T) {
	assert.NotEmpty(t, PresentationDocumentSchema())
	_, err := compiledDocumentSchema()
	assert.NoError(t, err)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "memo"}`))

	err := ValidateJSONString(schema, `{"name": 3}`)
	require.Error(t, err)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, []string{"name"}, validationErr.Fields())
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "(string schema)", loadErr.Name)
}
