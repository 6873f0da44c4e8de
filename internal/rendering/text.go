package rendering

import (
	"strings"

	"github.com/jonathan/memo-analyzer/internal/types"
)

// PlainText renders doc as unstyled text, e.g. for logs or clipboard export
func PlainText(doc types.PresentationDocument) string {
	var sb strings.Builder

	if doc.Title != "" {
		sb.WriteString(EscapeTerminal(doc.Title))
		sb.WriteString("\n")
	}
	sb.WriteString("Quality score: " + formatScore(doc.QualityScore) + "/100\n")

	if doc.IsEmpty() {
		sb.WriteString("\n" + emptyMessage + "\n")
		return sb.String()
	}

	for _, section := range doc.Sections {
		sb.WriteString("\n" + strings.ToUpper(EscapeTerminal(section.Label)) + "\n")
		sb.WriteString(PlainTextBlocks(section.Blocks))
	}
	writeTextList(&sb, "Improvement suggestions", doc.Suggestions)
	writeTextList(&sb, "Compliance issues", doc.ComplianceIssues)

	return sb.String()
}

// PlainTextBlocks renders a block sequence as unstyled text, one blank line between groups
func PlainTextBlocks(blocks []types.ContentBlock) string {
	var sb strings.Builder
	for i, g := range groupBlocks(blocks) {
		if i > 0 {
			sb.WriteString("\n")
		}
		if g.IsList() {
			for _, item := range g.Items {
				sb.WriteString("- " + EscapeTerminal(item.Text()) + "\n")
			}
			continue
		}
		sb.WriteString(EscapeTerminal(g.Block.Text()) + "\n")
	}
	return sb.String()
}

func writeTextList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n" + strings.ToUpper(label) + "\n")
	for _, item := range items {
		sb.WriteString("- " + EscapeTerminal(item) + "\n")
	}
}
