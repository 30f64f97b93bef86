package generator

import (
	"bytes"
	"html/template"
	"io"

	"github.com/mcncl/jsonview/internal/errors"
	"github.com/mcncl/jsonview/internal/layout"
	"github.com/mcncl/jsonview/internal/render"
)

// definitions holds the recursive templates for trees and panels.
const definitions = `{{define "node" -}}
{{- if isList . -}}
<ul class="list">{{range .Children}}<li>{{template "node" .Body}}</li>{{end}}</ul>
{{- else if isBlock . -}}
<div class="block">{{range .Children}}<div class="section"><div class="label">{{label .Label}}</div><div class="panel">{{template "node" .Body}}</div></div>{{end}}</div>
{{- else -}}
<span class="leaf leaf-{{.Source}}">{{.Text}}</span>
{{- end -}}
{{- end}}

{{define "panel" -}}
<div class="box">
{{- if .Heading}}<h3>{{.Heading}}</h3>{{end -}}
{{- if or .Title .Subtitle}}<header><strong>{{.Title}}</strong><span class="muted">{{.Subtitle}}</span></header>{{end -}}
{{- if .Note}}<p class="muted">{{.Note}}</p>{{end -}}
{{- with .Tree}}{{template "node" .}}{{end -}}
{{- range .Children}}{{template "panel" .}}{{end -}}
</div>
{{- end}}`

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { max-width: 1000px; margin: 0 auto; padding: 20px; font-family: system-ui; }
.muted { opacity: 0.75; }
.notice { padding: 12px; border: 1px solid; margin-top: 12px; }
.box { border: 1px solid #ddd; border-radius: 14px; padding: 12px; margin: 12px 0; background: #fff; }
.box header { display: flex; justify-content: space-between; gap: 12px; }
.list { margin: 6px 0 0 20px; }
.block { margin-top: 6px; }
.section { margin-bottom: 8px; }
.label { font-size: 12px; opacity: 0.7; }
.panel { background: #f6f6f6; padding: 8px; border-radius: 12px; border: 1px solid #333; overflow-x: auto; }
pre { white-space: pre-wrap; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Fetching data from: <code>{{.Source}}</code></p>
{{if .ShowsError -}}
<div class="notice error" role="alert"><strong>Error:</strong> {{.Message}}</div>
{{- else if .ShowsLoading -}}
<p class="loading">Loading…</p>
{{- else -}}
<main>{{range .Panels}}{{template "panel" .}}{{end}}</main>
<section>
<details>
<summary>Show full JSON (raw data)</summary>
<pre>{{.Raw}}</pre>
</details>
</section>
{{- end}}
</body>
</html>
`

// Generator is responsible for generating HTML pages from composed layouts
type Generator struct {
	tmpl *template.Template
}

// NewGenerator creates a new Generator instance. label maps mapping keys to
// the text shown above their panel; nil shows keys unchanged.
func NewGenerator(label func(string) string) *Generator {
	if label == nil {
		label = func(s string) string { return s }
	}
	funcs := template.FuncMap{
		"isList":  func(n render.Node) bool { return n.Kind == render.List },
		"isBlock": func(n render.Node) bool { return n.Kind == render.Block },
		"label":   label,
	}
	tmpl := template.Must(template.New("page").Funcs(funcs).Parse(definitions))
	return &Generator{
		tmpl: template.Must(tmpl.Parse(pageTemplate)),
	}
}

// GeneratePage returns the HTML document for page
func (g *Generator) GeneratePage(page layout.Page) (string, error) {
	var buf bytes.Buffer
	if err := g.WritePage(&buf, page); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WritePage writes the HTML document for page to w
func (g *Generator) WritePage(w io.Writer, page layout.Page) error {
	if err := g.tmpl.Execute(w, page); err != nil {
		return errors.NewRenderError("failed to generate HTML page", err)
	}
	return nil
}

// GenerateNode returns the HTML fragment for a single presentation tree
func (g *Generator) GenerateNode(n render.Node) (string, error) {
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, "node", n); err != nil {
		return "", errors.NewRenderError("failed to generate HTML fragment", err)
	}
	return buf.String(), nil
}
