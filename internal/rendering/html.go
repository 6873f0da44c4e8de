package rendering

import (
	"html/template"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/memo-analyzer/internal/types"
)

// scopePrefix prefixes the per-render container class the stylesheet is scoped to
const scopePrefix = "ma-doc-"

// stylesheet is scoped to one rendered document; SCOPE is replaced per render
const stylesheet = `.SCOPE{font-family:system-ui,sans-serif;line-height:1.5}
.SCOPE .ma-score{font-weight:600}
.SCOPE h2,.SCOPE h3{margin:0.8em 0 0.3em}
.SCOPE .ma-section-label{text-transform:uppercase;font-size:0.8em;color:#555}
.SCOPE .ma-raw{white-space:pre-wrap}
.SCOPE .ma-empty{color:#777;font-style:italic}`

// HTMLOptions configures the HTML renderer
type HTMLOptions struct {
	// Scope is the container class the stylesheet applies to. Empty generates a unique one.
	Scope string
	// OmitStyle leaves out the scoped <style> element
	OmitStyle bool
}

type documentView struct {
	Scope            string
	Style            template.CSS
	Title            string
	Score            string
	Empty            bool
	EmptyMessage     string
	Sections         []sectionView
	Suggestions      []string
	ComplianceIssues []string
}

type sectionView struct {
	Label  string
	Groups []blockGroup
}

var htmlFuncs = template.FuncMap{
	// spans escapes each span and turns soft line breaks into <br>
	"spans": func(spans []types.Span) template.HTML {
		var sb strings.Builder
		for _, s := range spans {
			text := strings.ReplaceAll(template.HTMLEscapeString(s.Text), "\n", "<br>")
			if s.Bold {
				sb.WriteString("<strong>")
				sb.WriteString(text)
				sb.WriteString("</strong>")
				continue
			}
			sb.WriteString(text)
		}
		return template.HTML(sb.String()) //nolint:gosec // every span is escaped above
	},
}

const htmlTemplate = `{{define "blocks"}}{{range .}}{{if .IsList}}<ul>{{range .Items}}<li>{{spans .Spans}}</li>{{end}}</ul>
{{else}}{{with .Block}}{{if eq .Kind "heading"}}{{if eq .Level 1}}<h2>{{spans .Spans}}</h2>{{else}}<h3>{{spans .Spans}}</h3>{{end}}
{{else if eq .Kind "raw_text"}}<pre class="ma-raw">{{.Text}}</pre>
{{else}}<p>{{spans .Spans}}</p>
{{end}}{{end}}{{end}}{{end}}{{end}}
{{define "document"}}<div class="ma-doc {{.Scope}}">
{{if .Style}}<style>{{.Style}}</style>
{{end}}{{if .Title}}<h1>{{.Title}}</h1>
{{end}}<p class="ma-score">Quality score: {{.Score}}/100</p>
{{if .Empty}}<p class="ma-empty">{{.EmptyMessage}}</p>
{{end}}{{range .Sections}}<section>
<h2 class="ma-section-label">{{.Label}}</h2>
{{template "blocks" .Groups}}</section>
{{end}}{{if .Suggestions}}<section class="ma-suggestions">
<h2 class="ma-section-label">Improvement suggestions</h2>
<ul>{{range .Suggestions}}<li>{{.}}</li>{{end}}</ul>
</section>
{{end}}{{if .ComplianceIssues}}<section class="ma-compliance">
<h2 class="ma-section-label">Compliance issues</h2>
<ul>{{range .ComplianceIssues}}<li>{{.}}</li>{{end}}</ul>
</section>
{{end}}</div>
{{end}}`

var htmlTmpl = template.Must(template.New("html").Funcs(htmlFuncs).Parse(htmlTemplate))

// HTML renders doc as an HTML fragment. All text is escaped by html/template; the
// fragment carries its own stylesheet scoped to a per-render container class.
func HTML(doc types.PresentationDocument, opts HTMLOptions) (string, error) {
	scope := opts.Scope
	if scope == "" {
		scope = NewScope()
	}

	data := documentView{
		Scope:            scope,
		Title:            doc.Title,
		Score:            formatScore(doc.QualityScore),
		Empty:            doc.IsEmpty(),
		EmptyMessage:     emptyMessage,
		Suggestions:      doc.Suggestions,
		ComplianceIssues: doc.ComplianceIssues,
	}
	if !opts.OmitStyle {
		data.Style = template.CSS(strings.ReplaceAll(stylesheet, "SCOPE", scope)) //nolint:gosec // scope is generated, not user input
	}
	for _, s := range doc.Sections {
		data.Sections = append(data.Sections, sectionView{Label: s.Label, Groups: groupBlocks(s.Blocks)})
	}

	var sb strings.Builder
	if err := htmlTmpl.ExecuteTemplate(&sb, "document", data); err != nil {
		return "", &TemplateError{Message: "failed to execute HTML template", Cause: err}
	}
	return sb.String(), nil
}

// HTMLBlocks renders a bare block sequence as an HTML fragment without a container
func HTMLBlocks(blocks []types.ContentBlock) (string, error) {
	var sb strings.Builder
	if err := htmlTmpl.ExecuteTemplate(&sb, "blocks", groupBlocks(blocks)); err != nil {
		return "", &TemplateError{Message: "failed to execute HTML template", Cause: err}
	}
	return sb.String(), nil
}

// NewScope returns a unique container class for a scoped stylesheet
func NewScope() string {
	return scopePrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}
