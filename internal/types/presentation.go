package types

// Section is one labelled group of content blocks
type Section struct {
	Label  string         `json:"label"`
	Blocks []ContentBlock `json:"blocks"`
}

// PresentationDocument is the fully assembled, render-ready output of one analysis run
type PresentationDocument struct {
	Title            string    `json:"title"`
	QualityScore     float64   `json:"quality_score"`
	Sections         []Section `json:"sections"`
	Suggestions      []string  `json:"suggestions"`
	ComplianceIssues []string  `json:"compliance_issues"`
}

// IsEmpty reports whether the analysis produced no content to show.
// Callers present a neutral message for an empty document instead of an empty panel.
func (d PresentationDocument) IsEmpty() bool {
	return len(d.Sections) == 0 && len(d.Suggestions) == 0 && len(d.ComplianceIssues) == 0
}
