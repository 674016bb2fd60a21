package preview

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func TestRenderField_Text(t *testing.T) {
	r := newRenderer(t)
	out, err := r.RenderField(schema.Field{ID: "q1", Type: schema.FieldTypeText, LabelHTML: "<b>姓名</b>"})
	if err != nil {
		t.Fatalf("RenderField: %v", err)
	}
	if !strings.HasPrefix(out, "姓名<br>") {
		t.Fatalf("label should render as plain text: %q", out)
	}
	if !strings.Contains(out, `type="text"`) || !strings.Contains(out, "简短回答") {
		t.Fatalf("text preview = %q", out)
	}
}

func TestRenderField_UnknownTypeFallsBackToText(t *testing.T) {
	r := newRenderer(t)
	out, err := r.RenderField(schema.Field{ID: "q1", Type: schema.FieldType("signature"), LabelHTML: "签名"})
	if err != nil {
		t.Fatalf("RenderField: %v", err)
	}
	if !strings.Contains(out, `type="text"`) {
		t.Fatalf("unknown type should render the text preview: %q", out)
	}
}

func TestRenderField_RadioOptions(t *testing.T) {
	r := newRenderer(t)
	out, err := r.RenderField(schema.Field{
		ID:      "q3",
		Type:    schema.FieldTypeRadio,
		Options: []string{"选项 1", "<em>raw</em>"},
	})
	if err != nil {
		t.Fatalf("RenderField: %v", err)
	}
	if strings.Count(out, `type="radio"`) != 2 {
		t.Fatalf("expected two radio inputs: %q", out)
	}
	if !strings.Contains(out, `name="q3"`) {
		t.Fatalf("radio group should be named by field id: %q", out)
	}
	if strings.Contains(out, "<em>") {
		t.Fatalf("option markup must be escaped: %q", out)
	}
}

func TestRenderField_Select(t *testing.T) {
	r := newRenderer(t)
	out, err := r.RenderField(schema.Field{
		ID:      "q4",
		Type:    schema.FieldTypeSelect,
		Options: []string{"A", "B", "C"},
	})
	if err != nil {
		t.Fatalf("RenderField: %v", err)
	}
	if strings.Count(out, "<option>") != 3 {
		t.Fatalf("expected three options: %q", out)
	}
}

func TestRenderDocument(t *testing.T) {
	r := newRenderer(t)
	out, err := r.RenderDocument(schema.DefaultSchema())
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	if strings.Count(out, `<div class="preview">`) != 2 {
		t.Fatalf("default document should render two previews: %q", out)
	}
	if !strings.Contains(out, "姓名") || !strings.Contains(out, `type="email"`) {
		t.Fatalf("default questions missing: %q", out)
	}
}
