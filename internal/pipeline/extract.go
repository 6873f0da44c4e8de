package pipeline

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jonathan/memo-analyzer/internal/pipeline/steps"
	"github.com/jonathan/memo-analyzer/internal/types"
)

// resultPaths are the locations the service has been observed to put the result at.
// The top-level field wins when both are present and non-empty.
var resultPaths = []string{
	"analysis_result",
	"data.analysis_result",
}

// stagePaths are the locations of the list of already-completed sub-stages
var stagePaths = []string{
	"steps",
	"analysis_steps",
	"data.steps",
	"data.analysis_steps",
}

// serviceFailure reports whether the body explicitly signals failure and the message to show
func serviceFailure(body []byte) (bool, string) {
	if !gjson.ValidBytes(body) {
		return false, ""
	}
	if gjson.GetBytes(body, "success").Type != gjson.False {
		return false, ""
	}
	for _, path := range []string{"message", "error", "data.message"} {
		if msg := strings.TrimSpace(gjson.GetBytes(body, path).String()); msg != "" {
			return true, msg
		}
	}
	return true, messageServiceFailed
}

// locateResult returns the first non-empty result object at a known location
func locateResult(body []byte) (gjson.Result, bool) {
	for _, path := range resultPaths {
		r := gjson.GetBytes(body, path)
		// Some responses carry the result double-encoded as a JSON string
		if r.Type == gjson.String && gjson.Valid(r.Str) {
			r = gjson.Parse(r.Str)
		}
		if r.IsObject() && len(r.Map()) > 0 {
			return r, true
		}
	}
	return gjson.Result{}, false
}

// extractResult builds the AnalysisResult from a response body. A body with no result
// at either known location yields the empty result.
func extractResult(body []byte) *types.AnalysisResult {
	r, ok := locateResult(body)
	if !ok {
		return types.EmptyAnalysisResult()
	}

	return &types.AnalysisResult{
		QualityScore:           types.ClampScore(r.Get("quality_score").Float()),
		DocumentAnalysis:       textField(r.Get("document_analysis")),
		MemoAnalysis:           textField(r.Get("memo_analysis")),
		ImprovementSuggestions: stringList(r.Get("improvement_suggestions")),
		ComplianceIssues:       stringList(r.Get("legal_compliance_issues")),
	}
}

// textField reads a text value; non-string JSON is kept as its raw text so the
// content normalizer can still unwrap {"content": ...} objects.
func textField(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.Str
	case gjson.JSON:
		return v.Raw
	default:
		return v.String()
	}
}

// stringList reads a list of strings, accepting a lone string as a one-item list
func stringList(v gjson.Result) []string {
	out := []string{}
	if !v.Exists() || v.Type == gjson.Null {
		return out
	}
	if !v.IsArray() {
		if s := strings.TrimSpace(textField(v)); s != "" {
			out = append(out, s)
		}
		return out
	}
	for _, item := range v.Array() {
		if s := strings.TrimSpace(textField(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// serverStages maps the service's completed sub-stages to steps, in service order
func serverStages(body []byte) []types.Step {
	var list gjson.Result
	for _, path := range stagePaths {
		if r := gjson.GetBytes(body, path); r.IsArray() {
			list = r
			break
		}
	}
	if !list.Exists() {
		return nil
	}

	items := list.Array()
	out := make([]types.Step, 0, len(items))
	for i, item := range items {
		if item.Type == gjson.String {
			out = append(out, steps.ServerStage(i, "", item.Str, ""))
			continue
		}
		title := item.Get("title").String()
		if title == "" {
			title = item.Get("name").String()
		}
		out = append(out, steps.ServerStage(i,
			item.Get("id").String(),
			title,
			textField(item.Get("result")),
		))
	}
	return out
}
