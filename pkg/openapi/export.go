// Package openapi exports a form document as an OpenAPI 3 description of
// its submission endpoint, so external tooling can generate clients or
// validate payloads against the published form.
package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// Meta carries the form identity that lives outside the document itself.
type Meta struct {
	FormName string
	SiteName string
	FormDesc string
}

// Build assembles the OpenAPI document: one POST operation accepting a JSON
// submission object whose properties are the form's questions, keyed by
// field id.
func Build(doc schema.Schema, meta Meta) (*openapi3.T, error) {
	site := strings.TrimSpace(meta.SiteName)
	if site == "" {
		return nil, errors.New("openapi: site name is required")
	}
	title := strings.TrimSpace(meta.FormName)
	if title == "" {
		title = site
	}

	submission := submissionSchema(doc)

	requestBody := openapi3.NewRequestBody().
		WithRequired(true).
		WithJSONSchema(submission)

	accepted := openapi3.NewObjectSchema().
		WithProperty("ok", openapi3.NewBoolSchema())

	operation := &openapi3.Operation{
		OperationID: "submitForm",
		Summary:     "Submit a response to " + title,
		RequestBody: &openapi3.RequestBodyRef{Value: requestBody},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("Submission accepted").
					WithJSONSchema(accepted),
			}),
		),
	}

	pathItem := &openapi3.PathItem{Post: operation}

	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       title,
			Description: strings.TrimSpace(meta.FormDesc),
			Version:     "1.0.0",
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/site/"+url.PathEscape(site)+"/submit", pathItem),
		),
	}
	return spec, nil
}

// ExportJSON renders the document as indented JSON.
func ExportJSON(doc schema.Schema, meta Meta) ([]byte, error) {
	spec, err := Build(doc, meta)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: encode json: %w", err)
	}
	return out, nil
}

// ExportYAML renders the document as YAML, going through the JSON form so
// kin-openapi's marshalling rules stay authoritative.
func ExportYAML(doc schema.Schema, meta Meta) ([]byte, error) {
	raw, err := ExportJSON(doc, meta)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("openapi: reshape for yaml: %w", err)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode yaml: %w", err)
	}
	return out, nil
}

func submissionSchema(doc schema.Schema) *openapi3.Schema {
	submission := openapi3.NewObjectSchema()
	for _, field := range doc.Fields {
		if field.ID == "" {
			continue
		}
		submission.WithProperty(field.ID, fieldSchema(field))
		if field.Required {
			submission.Required = append(submission.Required, field.ID)
		}
	}
	return submission
}

func fieldSchema(field schema.Field) *openapi3.Schema {
	var s *openapi3.Schema
	switch field.Type {
	case schema.FieldTypeEmail:
		s = openapi3.NewStringSchema().WithFormat("email")
	case schema.FieldTypeNumber:
		s = openapi3.NewFloat64Schema()
	case schema.FieldTypeDate:
		s = openapi3.NewStringSchema().WithFormat("date")
	case schema.FieldTypeTime:
		s = openapi3.NewStringSchema().WithFormat("time")
	case schema.FieldTypeFile:
		s = openapi3.NewStringSchema().WithFormat("uri")
	case schema.FieldTypeRadio, schema.FieldTypeSelect:
		s = openapi3.NewStringSchema()
		s.Enum = enumValues(field.Options)
	case schema.FieldTypeCheckbox:
		item := openapi3.NewStringSchema()
		item.Enum = enumValues(field.Options)
		s = openapi3.NewArraySchema().WithItems(item)
	default:
		s = openapi3.NewStringSchema()
	}
	if label := schema.LabelText(field.LabelHTML); label != "" {
		s.Description = label
	}
	return s
}

func enumValues(options []string) []any {
	if len(options) == 0 {
		return nil
	}
	values := make([]any, len(options))
	for i, opt := range options {
		values[i] = opt
	}
	return values
}
