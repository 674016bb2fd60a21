package schema

// FieldType enumerates the question kinds the builder understands. Unknown
// values are carried verbatim and treated as text-like by consumers, so the
// type is an open string enum rather than a closed set.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeTime     FieldType = "time"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeSelect   FieldType = "select"
	FieldTypeFile     FieldType = "file"
)

// HasOptions reports whether the field type carries an options list.
func (t FieldType) HasOptions() bool {
	switch t {
	case FieldTypeRadio, FieldTypeCheckbox, FieldTypeSelect:
		return true
	default:
		return false
	}
}

// Appearance selects the colour scheme applied on top of the brand colour.
type Appearance string

const (
	AppearanceLight Appearance = "light"
	AppearanceDark  Appearance = "dark"
	AppearanceAuto  Appearance = "auto"
)

// Field models a single question. ID is the durable join key against
// submitted answer records: generated once, never reused, never derived from
// the label. LabelHTML holds sanitized inline markup only; Options is
// meaningful for radio/checkbox/select and tolerated as empty elsewhere.
type Field struct {
	ID        string    `json:"id"`
	Type      FieldType `json:"type"`
	Required  bool      `json:"required"`
	LabelHTML string    `json:"labelHTML"`
	Options   []string  `json:"options"`
	Image     string    `json:"image,omitempty"`
}

// Theme carries the two presentation knobs the builder exposes.
type Theme struct {
	Brand      string     `json:"brand"`
	Appearance Appearance `json:"appearance"`
}

// Settings is the configuration tree: group name to a flat mapping of option
// name to primitive value. It stays a nested map (not a struct) so partial or
// legacy documents round-trip unknown keys and dotted-path writes can create
// intermediate groups on demand.
type Settings map[string]any

// Schema is the canonical form definition: the ordered question list plus
// theme, background, and publishing settings. Field order is display and
// submission order.
type Schema struct {
	BG       string   `json:"bg,omitempty"`
	BGColor  string   `json:"bg_color,omitempty"`
	Fields   []Field  `json:"fields"`
	Theme    Theme    `json:"theme"`
	Settings Settings `json:"settings"`
}

// Clone returns a deep copy so callers can hold a schema without observing
// later store mutations.
func (s Schema) Clone() Schema {
	out := s
	out.Fields = make([]Field, len(s.Fields))
	for i, f := range s.Fields {
		out.Fields[i] = f.Clone()
	}
	out.Settings = cloneTree(s.Settings)
	return out
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	return out
}

// FieldByID returns the field with the given id, or false when absent.
func (s Schema) FieldByID(id string) (Field, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

func cloneTree(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		if nested, ok := value.(map[string]any); ok {
			out[key] = cloneTree(nested)
			continue
		}
		out[key] = value
	}
	return out
}
