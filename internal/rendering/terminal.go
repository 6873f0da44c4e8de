package rendering

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/memo-analyzer/internal/types"
)

// DefaultTerminalWidth is the wrap width used when none is configured
const DefaultTerminalWidth = 80

// TerminalOptions configures the terminal renderer
type TerminalOptions struct {
	Width int
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	scoreStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("6"))
	heading1     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	heading2     = lipgloss.NewStyle().Bold(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true).Italic(true)
	issueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	rawStyle     = lipgloss.NewStyle().Faint(true)
	bulletMarker = "• "
)

// Terminal renders doc for a terminal. Control characters in analysis text are
// stripped before styling, so the text cannot emit its own escape sequences.
func Terminal(doc types.PresentationDocument, opts TerminalOptions) string {
	width := opts.Width
	if width <= 0 {
		width = DefaultTerminalWidth
	}
	wrap := lipgloss.NewStyle().Width(width)

	var parts []string
	if doc.Title != "" {
		parts = append(parts, titleStyle.Render(EscapeTerminal(doc.Title)))
	}
	parts = append(parts, scoreStyle.Render("Quality score: "+formatScore(doc.QualityScore)+"/100"))

	if doc.IsEmpty() {
		parts = append(parts, mutedStyle.Render(emptyMessage))
	}

	for _, section := range doc.Sections {
		parts = append(parts, labelStyle.Render(EscapeTerminal(section.Label)))
		for _, g := range groupBlocks(section.Blocks) {
			parts = append(parts, wrap.Render(terminalGroup(g)))
		}
	}

	if len(doc.Suggestions) > 0 {
		parts = append(parts, labelStyle.Render("Improvement suggestions"))
		parts = append(parts, wrap.Render(terminalList(doc.Suggestions, lipgloss.NewStyle())))
	}
	if len(doc.ComplianceIssues) > 0 {
		parts = append(parts, labelStyle.Render("Compliance issues"))
		parts = append(parts, wrap.Render(terminalList(doc.ComplianceIssues, issueStyle)))
	}

	return strings.Join(parts, "\n\n") + "\n"
}

func terminalGroup(g blockGroup) string {
	if g.IsList() {
		items := make([]string, 0, len(g.Items))
		for _, item := range g.Items {
			items = append(items, bulletMarker+terminalSpans(item.Spans))
		}
		return strings.Join(items, "\n")
	}

	b := g.Block
	switch b.Kind {
	case types.BlockHeading:
		if b.Level == 1 {
			return heading1.Render(EscapeTerminal(b.Text()))
		}
		return heading2.Render(EscapeTerminal(b.Text()))
	case types.BlockRawText:
		return rawStyle.Render(EscapeTerminal(b.Text()))
	default:
		return terminalSpans(b.Spans)
	}
}

func terminalSpans(spans []types.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		text := EscapeTerminal(s.Text)
		if s.Bold {
			sb.WriteString(boldStyle.Render(text))
			continue
		}
		sb.WriteString(text)
	}
	return sb.String()
}

func terminalList(items []string, style lipgloss.Style) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, bulletMarker+style.Render(EscapeTerminal(item)))
	}
	return strings.Join(lines, "\n")
}
