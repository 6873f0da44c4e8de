// Package content converts loosely-structured analysis text into typed content blocks.
//
// The output is a sequence of types.ContentBlock values, never pre-rendered markup;
// renderers in the rendering package are responsible for escaping.
package content

import (
	"strings"

	"github.com/jonathan/memo-analyzer/internal/types"
)

const (
	headingOneMarker = "# "
	headingTwoMarker = "## "
	bulletMarker     = "* "
)

// Normalize converts raw analysis text into an ordered list of content blocks.
//
// Rules are applied in order: JSON-wrapper unwrapping, bold spans, headings ("# ",
// "## "), bullets ("* "), and blank-line separated paragraphs whose single newlines
// are kept as soft line breaks. The same input always yields the same blocks.
func Normalize(raw string) []types.ContentBlock {
	text := raw
	if unwrapped, structured, ok := FromJSONWrapper(raw); ok {
		if structured {
			return Raw(unwrapped)
		}
		text = unwrapped
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if strings.TrimSpace(text) == "" {
		return []types.ContentBlock{}
	}

	blocks := parseBlocks(strings.Split(text, "\n"))
	if len(blocks) == 0 {
		return Raw(strings.TrimSpace(text))
	}
	return blocks
}

// Raw wraps text in a single raw-text block, bypassing normalization
func Raw(text string) []types.ContentBlock {
	if text == "" {
		return []types.ContentBlock{}
	}
	return []types.ContentBlock{types.RawText(text)}
}

func parseBlocks(lines []string) []types.ContentBlock {
	blocks := make([]types.ContentBlock, 0, len(lines))
	var paragraph []string

	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		if spans := joinLines(paragraph); len(spans) > 0 {
			blocks = append(blocks, types.Paragraph(spans...))
		}
		paragraph = nil
	}

	emit := func(block types.ContentBlock) {
		flush()
		if len(block.Spans) > 0 {
			blocks = append(blocks, block)
		}
	}

	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		marker := strings.TrimLeft(line, " \t")

		switch {
		case marker == "":
			flush()
		case strings.HasPrefix(marker, headingTwoMarker):
			emit(types.Heading(2, parseInline(strings.TrimSpace(marker[len(headingTwoMarker):]))...))
		case strings.HasPrefix(marker, headingOneMarker):
			emit(types.Heading(1, parseInline(strings.TrimSpace(marker[len(headingOneMarker):]))...))
		case strings.HasPrefix(marker, bulletMarker):
			emit(types.BulletItem(parseInline(strings.TrimSpace(marker[len(bulletMarker):]))...))
		default:
			paragraph = append(paragraph, marker)
		}
	}
	flush()

	return blocks
}
