package types

import "strings"

// BlockKind tags the variant of a ContentBlock
type BlockKind string

// BlockKind constants
const (
	BlockParagraph  BlockKind = "paragraph"
	BlockHeading    BlockKind = "heading"
	BlockBulletItem BlockKind = "bullet_item"
	BlockRawText    BlockKind = "raw_text"
)

// Span is a run of inline text. A bold span is a Span with Bold set.
// Soft line breaks are carried as "\n" inside Text.
type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// ContentBlock is a typed, renderer-agnostic unit of normalized display text
type ContentBlock struct {
	Kind  BlockKind `json:"kind"`
	Level int       `json:"level,omitempty"`
	Spans []Span    `json:"spans"`
}

// Paragraph builds a paragraph block from spans
func Paragraph(spans ...Span) ContentBlock {
	return ContentBlock{Kind: BlockParagraph, Spans: spans}
}

// Heading builds a heading block of the given level
func Heading(level int, spans ...Span) ContentBlock {
	return ContentBlock{Kind: BlockHeading, Level: level, Spans: spans}
}

// BulletItem builds a bullet item block from spans
func BulletItem(spans ...Span) ContentBlock {
	return ContentBlock{Kind: BlockBulletItem, Spans: spans}
}

// RawText builds a block that carries text through without structure
func RawText(text string) ContentBlock {
	return ContentBlock{Kind: BlockRawText, Spans: []Span{{Text: text}}}
}

// Plain returns a non-bold span
func Plain(text string) Span {
	return Span{Text: text}
}

// Bold returns a bold span
func Bold(text string) Span {
	return Span{Text: text, Bold: true}
}

// Text returns the visible text of the block with all markers removed
func (b ContentBlock) Text() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// BoldTexts returns the text of every bold span in order
func (b ContentBlock) BoldTexts() []string {
	var out []string
	for _, s := range b.Spans {
		if s.Bold {
			out = append(out, s.Text)
		}
	}
	return out
}

// Lines splits the block's spans at soft line breaks
func (b ContentBlock) Lines() [][]Span {
	lines := [][]Span{{}}
	for _, s := range b.Spans {
		parts := strings.Split(s.Text, "\n")
		for i, p := range parts {
			if i > 0 {
				lines = append(lines, []Span{})
			}
			if p != "" {
				last := len(lines) - 1
				lines[last] = append(lines[last], Span{Text: p, Bold: s.Bold})
			}
		}
	}
	return lines
}
