package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/memo-analyzer/internal/presentation"
	"github.com/jonathan/memo-analyzer/internal/types"
)

// emptyMessage is shown in place of sections for a document with no content
const emptyMessage = presentation.NoContentMessage

// Format names a renderer output format
type Format string

// Format constants
const (
	FormatHTML     Format = "html"
	FormatTerminal Format = "terminal"
	FormatText     Format = "text"
	FormatLaTeX    Format = "latex"
)

// ParseFormat converts a string into a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHTML, FormatTerminal, FormatText, FormatLaTeX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown render format %q", s)
	}
}

// Render renders doc in the given format
func Render(doc types.PresentationDocument, format Format) (string, error) {
	switch format {
	case FormatHTML:
		return HTML(doc, HTMLOptions{})
	case FormatTerminal:
		return Terminal(doc, TerminalOptions{}), nil
	case FormatText:
		return PlainText(doc), nil
	case FormatLaTeX:
		return LaTeX(doc)
	default:
		return "", &RenderError{Format: string(format), Message: "unsupported format"}
	}
}

// blockGroup is a render unit: a single block, or a run of consecutive bullet items
type blockGroup struct {
	Block types.ContentBlock
	Items []types.ContentBlock
}

// IsList reports whether the group is a run of bullet items
func (g blockGroup) IsList() bool {
	return len(g.Items) > 0
}

// groupBlocks collects consecutive bullet items into one list group
func groupBlocks(blocks []types.ContentBlock) []blockGroup {
	groups := make([]blockGroup, 0, len(blocks))
	for _, b := range blocks {
		if b.Kind == types.BlockBulletItem {
			if n := len(groups); n > 0 && groups[n-1].IsList() {
				groups[n-1].Items = append(groups[n-1].Items, b)
				continue
			}
			groups = append(groups, blockGroup{Items: []types.ContentBlock{b}})
			continue
		}
		groups = append(groups, blockGroup{Block: b})
	}
	return groups
}

// formatScore renders a quality score without a trailing ".0"
func formatScore(score float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", score), ".0")
}
