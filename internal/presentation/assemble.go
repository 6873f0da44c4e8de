// Package presentation assembles analysis results into render-ready documents.
package presentation

import (
	"strings"

	"github.com/jonathan/memo-analyzer/internal/content"
	"github.com/jonathan/memo-analyzer/internal/types"
)

// Section labels, in the fixed order sections appear in a document
const (
	LabelDocumentAnalysis = "Document analysis"
	LabelMemoAnalysis     = "Memo analysis"
)

// NoContentMessage is the neutral message shown for a document with no content
const NoContentMessage = "The analysis finished but produced no content to display."

// Assemble combines a result's structured fields with normalized analysis text.
//
// One section is built per non-empty text field, document analysis first. Suggestions
// and compliance issues are carried through as flat lists without normalization.
func Assemble(result types.AnalysisResult, title string) types.PresentationDocument {
	doc := types.PresentationDocument{
		Title:            strings.TrimSpace(title),
		QualityScore:     result.QualityScore,
		Sections:         []types.Section{},
		Suggestions:      copyItems(result.ImprovementSuggestions),
		ComplianceIssues: copyItems(result.ComplianceIssues),
	}

	fields := []struct {
		label string
		text  string
	}{
		{LabelDocumentAnalysis, result.DocumentAnalysis},
		{LabelMemoAnalysis, result.MemoAnalysis},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.text) == "" {
			continue
		}
		blocks := content.Normalize(f.text)
		if len(blocks) == 0 {
			continue
		}
		doc.Sections = append(doc.Sections, types.Section{Label: f.label, Blocks: blocks})
	}

	return doc
}

// copyItems copies a list so the document never aliases the result, dropping blank entries
func copyItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
