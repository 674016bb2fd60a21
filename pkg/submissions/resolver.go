package submissions

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// keyNoise is every character stripped before fuzzy key comparison: spaces,
// underscores, and both ASCII and full-width punctuation. Responses written
// under an old label still match after someone reformats the question text.
const keyNoise = " \t\n\r_:-/（）()[]【】<>·.，,。；;:'\"|"

// NormalizeKey reduces an answer key or label to its comparable core by
// dropping noise characters and lowercasing.
func NormalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(keyNoise, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// Resolver finds the answer for a field inside a record's data map. Lookup
// precedence is fixed: exact field id, exact label text, then
// normalized-label comparison against every key.
type Resolver struct {
	fields []schema.Field
}

// NewResolver builds a resolver over the current field layout.
func NewResolver(fields []schema.Field) *Resolver {
	return &Resolver{fields: fields}
}

// Fields returns the layout the resolver operates on.
func (r *Resolver) Fields() []schema.Field {
	return r.fields
}

// FieldByID returns the field with the given id, if any.
func (r *Resolver) FieldByID(id string) (schema.Field, bool) {
	for _, f := range r.fields {
		if f.ID == id {
			return f, true
		}
	}
	return schema.Field{}, false
}

// ValueFor resolves the answer for one field. Empty strings and nils count
// as absent so a weaker match further down the chain can still win.
func (r *Resolver) ValueFor(data map[string]any, field schema.Field) any {
	if data == nil {
		return nil
	}

	if field.ID != "" {
		if v, ok := data[field.ID]; ok && present(v) {
			return v
		}
	}

	label := schema.LabelText(field.LabelHTML)
	if label != "" {
		if v, ok := data[label]; ok && present(v) {
			return v
		}
	}

	want := NormalizeKey(label)
	if want == "" {
		return nil
	}
	for key, v := range data {
		if NormalizeKey(key) == want && present(v) {
			return v
		}
	}
	return nil
}

func present(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}
