package types

import "strings"

// AnalysisResult is the outcome of a completed analysis run.
// Values are never mutated after a run returns them; a new run produces a new result.
type AnalysisResult struct {
	QualityScore           float64  `json:"quality_score"`
	DocumentAnalysis       string   `json:"document_analysis,omitempty"`
	MemoAnalysis           string   `json:"memo_analysis,omitempty"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
	ComplianceIssues       []string `json:"legal_compliance_issues"`
	// Empty is set when the service response carried no result object at all
	Empty bool `json:"empty,omitempty"`
}

// EmptyAnalysisResult returns the "no analysis content" result
func EmptyAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		ImprovementSuggestions: []string{},
		ComplianceIssues:       []string{},
		Empty:                  true,
	}
}

// HasContent reports whether any text field or list carries something to show
func (r *AnalysisResult) HasContent() bool {
	if r == nil {
		return false
	}
	return strings.TrimSpace(r.DocumentAnalysis) != "" ||
		strings.TrimSpace(r.MemoAnalysis) != "" ||
		len(r.ImprovementSuggestions) > 0 ||
		len(r.ComplianceIssues) > 0
}

// ClampScore bounds a quality score to the 0-100 range
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
