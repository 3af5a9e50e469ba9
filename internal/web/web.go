// Package web embeds the viewer page and the HTML fragments the SSE layer
// patches into it.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed viewer.html fragments/*.html
var files embed.FS

// PageHandler serves the viewer page.
func PageHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := files.ReadFile("viewer.html")
		if err != nil {
			http.Error(w, "viewer page unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	})
}

// Renderer renders the embedded fragment templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded fragments.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(files, "fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing fragments: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Render renders a named fragment to a string.
func (r *Renderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
