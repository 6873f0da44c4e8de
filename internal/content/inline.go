package content

import (
	"strings"

	"github.com/jonathan/memo-analyzer/internal/types"
)

const boldDelimiter = "**"

// parseInline splits a single line into spans, turning each matched **pair** into a
// bold span. An unmatched delimiter is kept as literal text.
func parseInline(line string) []types.Span {
	var spans []types.Span
	rest := line
	for {
		open := strings.Index(rest, boldDelimiter)
		if open < 0 {
			break
		}
		closeRel := strings.Index(rest[open+len(boldDelimiter):], boldDelimiter)
		if closeRel < 0 {
			break
		}
		closeAt := open + len(boldDelimiter) + closeRel

		spans = appendSpan(spans, types.Plain(rest[:open]))
		spans = appendSpan(spans, types.Bold(rest[open+len(boldDelimiter):closeAt]))
		rest = rest[closeAt+len(boldDelimiter):]
	}
	return appendSpan(spans, types.Plain(rest))
}

// joinLines parses each line and joins them with soft line breaks
func joinLines(lines []string) []types.Span {
	var spans []types.Span
	for i, line := range lines {
		if i > 0 {
			spans = appendSpan(spans, types.Plain("\n"))
		}
		for _, s := range parseInline(line) {
			spans = appendSpan(spans, s)
		}
	}
	return spans
}

// appendSpan appends s, dropping empty spans and merging with a previous span of the same weight
func appendSpan(spans []types.Span, s types.Span) []types.Span {
	if s.Text == "" {
		return spans
	}
	if n := len(spans); n > 0 && spans[n-1].Bold == s.Bold {
		spans[n-1].Text += s.Text
		return spans
	}
	return append(spans, s)
}
