// Package preview renders read-only HTML previews of form questions and
// resolves the document's theme into concrete presentation values.
package preview

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

//go:embed templates/*.tpl
var templateFS embed.FS

// Renderer produces the per-question preview markup shown on editor cards.
// Each question kind has its own template; unknown kinds fall back to the
// short-answer text input.
type Renderer struct {
	set *pongo2.TemplateSet

	mu    sync.RWMutex
	cache map[string]*pongo2.Template
}

// NewRenderer loads the embedded template set.
func NewRenderer() (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("preview: open templates: %w", err)
	}
	return &Renderer{
		set:   pongo2.NewSet("formbuilder-preview", pongo2.NewFSLoader(sub)),
		cache: make(map[string]*pongo2.Template),
	}, nil
}

// RenderField renders one question. Labels render as plain text; option
// values are escaped by the template engine.
func (r *Renderer) RenderField(field schema.Field) (string, error) {
	tmpl, err := r.template(templateName(field.Type))
	if err != nil {
		return "", err
	}

	out, err := tmpl.Execute(pongo2.Context{
		"id":      field.ID,
		"label":   schema.LabelText(field.LabelHTML),
		"options": field.Options,
	})
	if err != nil {
		return "", fmt.Errorf("preview: render %s field: %w", field.Type, err)
	}
	return strings.TrimRight(out, "\n"), nil
}

// RenderDocument renders every question, each wrapped in a preview block.
func (r *Renderer) RenderDocument(doc schema.Schema) (string, error) {
	var b strings.Builder
	for _, field := range doc.Fields {
		out, err := r.RenderField(field)
		if err != nil {
			return "", err
		}
		b.WriteString(`<div class="preview">`)
		b.WriteString(out)
		b.WriteString("</div>\n")
	}
	return b.String(), nil
}

func (r *Renderer) template(name string) (*pongo2.Template, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	tmpl, err := r.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("preview: load template %q: %w", name, err)
	}
	r.mu.Lock()
	r.cache[name] = tmpl
	r.mu.Unlock()
	return tmpl, nil
}

func templateName(t schema.FieldType) string {
	switch t {
	case schema.FieldTypeTextarea, schema.FieldTypeEmail, schema.FieldTypeNumber,
		schema.FieldTypeDate, schema.FieldTypeTime, schema.FieldTypeFile,
		schema.FieldTypeRadio, schema.FieldTypeCheckbox, schema.FieldTypeSelect:
		return string(t) + ".tpl"
	default:
		return "text.tpl"
	}
}
