// Package rendering renders presentation documents through explicit, escaping renderers.
//
// Every renderer dispatches on the content block variant and escapes text for its
// output format; analysis text is never inserted as markup.
package rendering

import (
	"strings"
	"unicode"
)

// EscapeLaTeX escapes special LaTeX characters in text
// Special characters: \ { } $ & % # ^ _ ~
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2) // Pre-allocate space for potential escaping

	for _, r := range text {
		switch r {
		case '\\':
			result.WriteString(`\textbackslash{}`)
		case '{':
			result.WriteString(`\{`)
		case '}':
			result.WriteString(`\}`)
		case '$':
			result.WriteString(`\$`)
		case '&':
			result.WriteString(`\&`)
		case '%':
			result.WriteString(`\%`)
		case '#':
			result.WriteString(`\#`)
		case '^':
			result.WriteString(`\textasciicircum{}`)
		case '_':
			result.WriteString(`\_`)
		case '~':
			result.WriteString(`\textasciitilde{}`)
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// EscapeTerminal removes control characters, including ESC, so analysis text cannot
// move the cursor or change terminal colors. Newlines and tabs are kept.
func EscapeTerminal(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}
