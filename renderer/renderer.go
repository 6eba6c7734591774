// Package renderer turns positions into markdown or coloured terminal tables.
package renderer

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// positions holds the table template and its row partial, named after their files.
var positions = template.Must(template.ParseFS(templates, "templates/*.md"))

// Markdown renders the table as a GFM table, or the empty state message.
func Markdown(t Table) string {
	var b strings.Builder
	if err := positions.ExecuteTemplate(&b, "positions.md", t); err != nil {
		return fmt.Sprintf("error rendering positions: %v", err)
	}
	return b.String()
}
