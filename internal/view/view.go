// Package view renders the account pages from embedded html/template
// files. Rendering goes to a buffer first: a template failure is returned
// as an error so the caller can fall back to a safe redirect instead of a
// half-written page.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/rizkypratama/go-accounts/internal/auth"
	"github.com/rizkypratama/go-accounts/pkg/flash"
)

//go:embed templates/*.html
var files embed.FS

// Page is the data shape shared by all account templates.
type Page struct {
	Title   string
	Notice  string            // page-level banner, e.g. "please correct the errors below"
	Flashes []flash.Message
	Errors  map[string]string // field name -> inline error
	Form    map[string]string // sticky values re-shown after a failed submit
	User    *auth.Identity
	Token   string // password-reset confirm only
}

type Renderer struct {
	tpl *template.Template
}

func New() (*Renderer, error) {
	tpl, err := template.ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// Render executes the named template into a buffer and returns the bytes.
func (r *Renderer) Render(name string, data Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
