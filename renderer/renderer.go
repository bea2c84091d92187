// Package renderer turns reports into markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed *.md
var templates embed.FS

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// RenderHolding renders the holdings table.
func RenderHolding(h *Holding) string {
	return renderTemplate("holding", "holding.md", map[string]string{"anomalies": "anomalies.md"}, h)
}

// RenderGains renders the gains table.
func RenderGains(g *Gains) string {
	return renderTemplate("gains", "gains.md", map[string]string{"anomalies": "anomalies.md"}, g)
}

// RenderSummary renders the portfolio totals.
func RenderSummary(s *Summary) string {
	return renderTemplate("summary", "summary.md", nil, s)
}
