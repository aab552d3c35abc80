package view

import (
	"fmt"
	"html/template"
	"io"
)

// Page renders the full dashboard document.
type Page struct {
	site  string
	title string
}

// NewPage creates a page layout.
//
// Parameters:
//   - site: Site name shown in the header
//   - title: Document and header title
func NewPage(site, title string) *Page {
	return &Page{site: site, title: title}
}

// Render writes the page with control in the sidebar and chart in the main area.
func (p *Page) Render(w io.Writer, control, chart template.HTML) error {
	data := struct {
		Site    string
		Title   string
		Control template.HTML
		Chart   template.HTML
	}{
		Site:    p.site,
		Title:   p.title,
		Control: control,
		Chart:   chart,
	}

	if err := templates.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	return nil
}
