package formbuilder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/persist"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

func TestNew_DefaultDocument(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	doc := b.Document()
	if len(doc.Fields) != 2 {
		t.Fatalf("default document has %d fields", len(doc.Fields))
	}
	if doc.Theme.Brand != schema.DefaultBrand {
		t.Fatalf("brand = %q", doc.Theme.Brand)
	}
}

func TestBuilder_EditUndoRedo(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	before := len(b.Document().Fields)

	id := b.AddField(schema.FieldTypeRadio)
	if id == "" {
		t.Fatal("AddField returned no id")
	}
	if got := len(b.Document().Fields); got != before+1 {
		t.Fatalf("field count after add = %d", got)
	}

	if !b.Undo() {
		t.Fatal("undo should succeed after an edit")
	}
	if got := len(b.Document().Fields); got != before {
		t.Fatalf("field count after undo = %d", got)
	}
	if !b.Redo() {
		t.Fatal("redo should succeed after undo")
	}
	if got := len(b.Document().Fields); got != before+1 {
		t.Fatalf("field count after redo = %d", got)
	}

	// A fresh edit clears the redo stack.
	b.SetRequired(id, true)
	if b.CanRedo() {
		t.Fatal("redo stack should clear on a new edit")
	}
}

func TestBuilder_SettingsPath(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	b.UpdateSetting("publish.max_per_user", float64(3))
	if got := b.Setting("publish.max_per_user"); got != float64(3) {
		t.Fatalf("setting = %v", got)
	}

	b.UpdateSetting("theme.brand", "#ff6a00")
	if got := b.Document().Theme.Brand; got != "#ff6a00" {
		t.Fatalf("brand via path = %q", got)
	}
}

func TestBuilder_DraftLifecycle(t *testing.T) {
	drafts := persist.NewMemoryStore()
	b, err := New(WithDraftStore(drafts))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	b.SetSiteName("signup")
	b.SetFormName("报名表")
	b.SetLabel(b.Document().Fields[0].ID, "联系人")
	b.Flush()

	fresh, err := New(WithDraftStore(drafts))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fresh.SetSiteName("signup")
	if !fresh.RestoreDraft() {
		t.Fatal("expected draft to restore in a fresh session")
	}
	if got := fresh.Document().Fields[0].LabelHTML; got != "联系人" {
		t.Fatalf("restored label = %q", got)
	}
}

func TestBuilder_ExplicitSaveFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if !strings.Contains(r.PostForm.Get("schema_json"), `"fields"`) {
			t.Errorf("schema_json missing fields: %q", r.PostForm.Get("schema_json"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"site_name":"signup","public_url":"/site/signup/","admin_url":"/site/signup/admin"}`))
	}))
	defer srv.Close()

	b, err := New(WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b.SetSiteName("signup")

	if _, err := b.Save(context.Background()); err != persist.ErrNoSaveIntent {
		t.Fatalf("save without intent: %v", err)
	}

	b.NoteClick("保存表单")
	result, err := b.Save(context.Background())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if result.SiteName != "signup" {
		t.Fatalf("site = %q", result.SiteName)
	}
	if _, ok := b.Confirmation(); !ok {
		t.Fatal("explicit save should arm the confirmation")
	}
}

func TestBuilder_Preview(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	html, err := b.PreviewHTML()
	if err != nil {
		t.Fatalf("PreviewHTML: %v", err)
	}
	if !strings.Contains(html, "姓名") {
		t.Fatalf("preview missing default question: %q", html)
	}

	id := b.Document().Fields[0].ID
	one, err := b.PreviewField(id)
	if err != nil {
		t.Fatalf("PreviewField: %v", err)
	}
	if !strings.Contains(one, "<br>") {
		t.Fatalf("field preview = %q", one)
	}
	if _, err := b.PreviewField("missing"); err == nil {
		t.Fatal("unknown field should error")
	}
}

func TestBuilder_ExportOpenAPI(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := b.ExportOpenAPI(openapi.Meta{FormName: "报名表", SiteName: "signup"})
	if err != nil {
		t.Fatalf("ExportOpenAPI: %v", err)
	}
	if !strings.Contains(string(out), "submitForm") {
		t.Fatalf("export = %s", out)
	}
}
