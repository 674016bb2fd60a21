package openapi

import (
	"context"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

func exportFields() schema.Schema {
	doc := schema.DefaultSchema()
	doc.Fields = []schema.Field{
		{ID: "q1", Type: schema.FieldTypeText, LabelHTML: "姓名", Required: true},
		{ID: "q2", Type: schema.FieldTypeEmail, LabelHTML: "电子邮箱", Required: true},
		{ID: "q3", Type: schema.FieldTypeRadio, LabelHTML: "是否参加", Options: []string{"是", "否"}},
		{ID: "q4", Type: schema.FieldTypeCheckbox, LabelHTML: "兴趣", Options: []string{"A", "B"}},
		{ID: "q5", Type: schema.FieldTypeFile, LabelHTML: "附件"},
	}
	return doc
}

func TestBuild(t *testing.T) {
	spec, err := Build(exportFields(), Meta{FormName: "报名表", SiteName: "signup", FormDesc: "活动报名"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if err := spec.Validate(context.Background(), openapi3.DisableExamplesValidation()); err != nil {
		t.Fatalf("exported document does not validate: %v", err)
	}

	item := spec.Paths.Value("/site/signup/submit")
	if item == nil || item.Post == nil {
		t.Fatal("submission path missing")
	}

	body := item.Post.RequestBody.Value
	media := body.Content.Get("application/json")
	if media == nil {
		t.Fatal("json request body missing")
	}
	props := media.Schema.Value.Properties

	if props["q1"] == nil || props["q2"] == nil {
		t.Fatal("question properties missing")
	}
	if got := props["q2"].Value.Format; got != "email" {
		t.Fatalf("email format = %q", got)
	}
	if got := props["q1"].Value.Description; got != "姓名" {
		t.Fatalf("description = %q", got)
	}
	if len(props["q3"].Value.Enum) != 2 {
		t.Fatalf("radio enum = %v", props["q3"].Value.Enum)
	}
	if items := props["q4"].Value.Items; items == nil || len(items.Value.Enum) != 2 {
		t.Fatal("checkbox should be an array with an enum item schema")
	}
	if got := props["q5"].Value.Format; got != "uri" {
		t.Fatalf("file format = %q", got)
	}

	required := media.Schema.Value.Required
	if len(required) != 2 || required[0] != "q1" || required[1] != "q2" {
		t.Fatalf("required = %v", required)
	}
}

func TestBuild_RequiresSite(t *testing.T) {
	if _, err := Build(schema.DefaultSchema(), Meta{}); err == nil {
		t.Fatal("blank site must be rejected")
	}
}

func TestExportJSONAndYAML(t *testing.T) {
	meta := Meta{FormName: "报名表", SiteName: "signup"}

	raw, err := ExportJSON(exportFields(), meta)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if !strings.Contains(string(raw), `"openapi": "3.0.3"`) {
		t.Fatalf("json export missing version: %s", raw)
	}

	y, err := ExportYAML(exportFields(), meta)
	if err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}
	if !strings.Contains(string(y), "openapi: 3.0.3") {
		t.Fatalf("yaml export missing version: %s", y)
	}
	if !strings.Contains(string(y), "submitForm") {
		t.Fatalf("yaml export missing operation: %s", y)
	}
}
