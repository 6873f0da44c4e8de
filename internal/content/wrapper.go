package content

import (
	"strings"

	"github.com/tidwall/gjson"
)

// wrapperField is the field the analysis service wraps plain text in
const wrapperField = "content"

// FromJSONWrapper unwraps text the analysis service sometimes returns as
// {"content": "..."}. It reports false, leaving the caller to use raw as-is, when
// raw is not a JSON object or has no content field. A non-string content value is
// returned as its JSON text with structured set.
func FromJSONWrapper(raw string) (text string, structured bool, ok bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") || !gjson.Valid(trimmed) {
		return "", false, false
	}

	field := gjson.Get(trimmed, wrapperField)
	if !field.Exists() || field.Type == gjson.Null {
		return "", false, false
	}
	if field.Type == gjson.String {
		return field.String(), false, true
	}
	return field.Raw, true, true
}
