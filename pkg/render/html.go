package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Funcs are the template helpers the fragments rely on.
var Funcs = template.FuncMap{
	"clickHint":     func() string { return ClickHint },
	"priceLinkText": func() string { return PriceLinkText },

	// trusted marks backend supplied analysis markup as safe.
	"trusted": func(s string) template.HTML { return template.HTML(s) }, //nolint:gosec // markup comes from the configured backend
}

// Templates parses the card, result, batch and deck fragments. Callers may
// add page templates to the returned set.
func Templates() (*template.Template, error) {
	t, err := template.New("render").Funcs(Funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing render templates: %w", err)
	}
	return t, nil
}

// HTML writes the named fragment ("results", "batch", "deck", "card" or
// "compact") for data to w.
func HTML(w io.Writer, name string, data any) error {
	t, err := Templates()
	if err != nil {
		return err
	}
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return nil
}
