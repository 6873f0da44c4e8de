package rendering

import (
	"strings"
	"text/template"

	"github.com/jonathan/memo-analyzer/internal/types"
)

// latexTemplate renders a standalone LaTeX article. Every piece of analysis text goes
// through the escape or spans functions.
const latexTemplate = `\documentclass[11pt]{article}
\usepackage[utf8]{inputenc}
\begin{document}
{{if .Title}}\section*{ {{- escape .Title -}} }
{{end}}\noindent\textbf{Quality score:} {{.Score}}/100
{{if .Empty}}
\emph{ {{- escape .EmptyMessage -}} }
{{end}}{{range .Sections}}
\subsection*{ {{- escape .Label -}} }
{{range .Groups}}{{if .IsList}}\begin{itemize}
{{range .Items}}  \item {{spans .Spans}}
{{end}}\end{itemize}
{{else}}{{with .Block}}{{if eq .Kind "heading"}}{{if eq .Level 1}}\subsubsection*{ {{- spans .Spans -}} }{{else}}\paragraph{ {{- spans .Spans -}} }{{end}}
{{else if eq .Kind "raw_text"}}\begin{verbatim}
{{verbatim .Text}}
\end{verbatim}
{{else}}{{spans .Spans}}

{{end}}{{end}}{{end}}{{end}}{{end}}{{if .Suggestions}}
\subsection*{Improvement suggestions}
\begin{itemize}
{{range .Suggestions}}  \item {{escape .}}
{{end}}\end{itemize}
{{end}}{{if .ComplianceIssues}}
\subsection*{Compliance issues}
\begin{itemize}
{{range .ComplianceIssues}}  \item {{escape .}}
{{end}}\end{itemize}
{{end}}\end{document}
`

var latexTmpl = template.Must(template.New("latex").Funcs(template.FuncMap{
	"escape": EscapeLaTeX,
	"spans":  latexSpans,
	// verbatim cannot contain its own terminator
	"verbatim": func(s string) string {
		return strings.ReplaceAll(s, `\end{verbatim}`, `\end {verbatim}`)
	},
}).Parse(latexTemplate))

// LaTeX renders doc as a standalone LaTeX document
func LaTeX(doc types.PresentationDocument) (string, error) {
	data := documentView{
		Title:            doc.Title,
		Score:            formatScore(doc.QualityScore),
		Empty:            doc.IsEmpty(),
		EmptyMessage:     emptyMessage,
		Suggestions:      doc.Suggestions,
		ComplianceIssues: doc.ComplianceIssues,
	}
	for _, s := range doc.Sections {
		data.Sections = append(data.Sections, sectionView{Label: s.Label, Groups: groupBlocks(s.Blocks)})
	}

	var result strings.Builder
	if err := latexTmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Message: "failed to execute LaTeX template",
			Cause:   err,
		}
	}
	return result.String(), nil
}

// latexSpans escapes spans, wrapping bold ones in \textbf and soft breaks in \\
func latexSpans(spans []types.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		lines := strings.Split(s.Text, "\n")
		for i, line := range lines {
			if i > 0 {
				sb.WriteString(`\\` + "\n")
			}
			if line == "" {
				continue
			}
			if s.Bold {
				sb.WriteString(`\textbf{` + EscapeLaTeX(line) + `}`)
				continue
			}
			sb.WriteString(EscapeLaTeX(line))
		}
	}
	return sb.String()
}
