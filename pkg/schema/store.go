package schema

import (
	"fmt"
	"sync"
)

// Store owns the canonical mutable document. All mutation goes through the
// enumerated operations below; none of them can fail. Invalid inputs are
// coerced and invariants (non-empty field list, unique ids, sanitized
// labels, options array present for choice types) are re-established on
// every write.
//
// The store is safe for concurrent readers because the persistence channels
// snapshot it from timer callbacks while the editor keeps mutating.
type Store struct {
	mu     sync.RWMutex
	schema Schema
}

// NewStore builds a store around a fully initialised default document.
func NewStore() *Store {
	return &Store{schema: DefaultSchema()}
}

// NewStoreFromSchema wraps an existing document, normalising it first.
func NewStoreFromSchema(s Schema) *Store {
	st := &Store{schema: s.Clone()}
	st.normalizeLocked()
	return st
}

// Schema returns a deep copy of the current document.
func (st *Store) Schema() Schema {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.schema.Clone()
}

// Fields returns a copy of the ordered question list.
func (st *Store) Fields() []Field {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]Field, len(st.schema.Fields))
	for i, f := range st.schema.Fields {
		out[i] = f.Clone()
	}
	return out
}

// Replace swaps the whole document, normalising the replacement. Used when a
// history snapshot or a recovered draft is restored.
func (st *Store) Replace(s Schema) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.schema = s.Clone()
	st.normalizeLocked()
}

// AddField appends a question. A missing id is minted, the label is
// sanitized, and choice types get an options slice.
func (st *Store) AddField(f Field) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	f = st.prepareFieldLocked(f)
	st.schema.Fields = append(st.schema.Fields, f)
	return f.ID
}

// InsertField places a question at the given index, clamping out-of-range
// positions.
func (st *Store) InsertField(index int, f Field) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	f = st.prepareFieldLocked(f)
	if index < 0 {
		index = 0
	}
	if index > len(st.schema.Fields) {
		index = len(st.schema.Fields)
	}
	st.schema.Fields = append(st.schema.Fields, Field{})
	copy(st.schema.Fields[index+1:], st.schema.Fields[index:])
	st.schema.Fields[index] = f
	return f.ID
}

// RemoveField deletes the question with the given id. Deleting the last
// question re-injects a default one so the document never renders empty.
func (st *Store) RemoveField(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, f := range st.schema.Fields {
		if f.ID == id {
			st.schema.Fields = append(st.schema.Fields[:i], st.schema.Fields[i+1:]...)
			break
		}
	}
	st.ensureFieldsLocked()
}

// DuplicateField copies a question directly after the original, minting a
// fresh id for the copy. Returns the new id, or "" when the source is gone.
func (st *Store) DuplicateField(id string) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, f := range st.schema.Fields {
		if f.ID != id {
			continue
		}
		cp := f.Clone()
		cp.ID = NewFieldID()
		st.schema.Fields = append(st.schema.Fields, Field{})
		copy(st.schema.Fields[i+2:], st.schema.Fields[i+1:])
		st.schema.Fields[i+1] = cp
		return cp.ID
	}
	return ""
}

// Reorder sorts the question list to match the given id sequence. Ids not in
// the sequence keep their relative order at the end; unknown ids are
// ignored. This mirrors how the visual editor reports a drag result.
func (st *Store) Reorder(ids []string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	rank := make(map[string]int, len(ids))
	for i, id := range ids {
		rank[id] = i
	}
	ordered := make([]Field, 0, len(st.schema.Fields))
	trailing := make([]Field, 0)
	for _, f := range st.schema.Fields {
		if _, ok := rank[f.ID]; ok {
			ordered = append(ordered, f)
			continue
		}
		trailing = append(trailing, f)
	}
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && rank[ordered[j-1].ID] > rank[ordered[j].ID]; j-- {
			ordered[j-1], ordered[j] = ordered[j], ordered[j-1]
		}
	}
	st.schema.Fields = append(ordered, trailing...)
}

// MoveField relocates a question to the given index.
func (st *Store) MoveField(id string, index int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	from := -1
	for i, f := range st.schema.Fields {
		if f.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return
	}
	f := st.schema.Fields[from]
	st.schema.Fields = append(st.schema.Fields[:from], st.schema.Fields[from+1:]...)
	if index < 0 {
		index = 0
	}
	if index > len(st.schema.Fields) {
		index = len(st.schema.Fields)
	}
	st.schema.Fields = append(st.schema.Fields, Field{})
	copy(st.schema.Fields[index+1:], st.schema.Fields[index:])
	st.schema.Fields[index] = f
}

// SetLabel writes a sanitized label.
func (st *Store) SetLabel(id, labelHTML string) {
	st.withFieldLocked(id, func(f *Field) {
		f.LabelHTML = SanitizeLabel(labelHTML)
	})
}

// SetType switches the question kind. Unknown values are kept verbatim;
// consumers render them as text-like inputs. Switching to a choice type
// seeds the options list when it is empty.
func (st *Store) SetType(id string, t FieldType) {
	st.withFieldLocked(id, func(f *Field) {
		f.Type = t
		if t.HasOptions() && len(f.Options) == 0 {
			f.Options = []string{fmt.Sprintf("%s1", defaultOptionPrefix)}
		}
	})
}

// SetRequired toggles the required flag.
func (st *Store) SetRequired(id string, required bool) {
	st.withFieldLocked(id, func(f *Field) {
		f.Required = required
	})
}

// SetOptions replaces the options list.
func (st *Store) SetOptions(id string, options []string) {
	st.withFieldLocked(id, func(f *Field) {
		f.Options = append([]string(nil), options...)
	})
}

// AddOption appends a numbered option.
func (st *Store) AddOption(id string) {
	st.withFieldLocked(id, func(f *Field) {
		if f.Options == nil {
			f.Options = []string{}
		}
		f.Options = append(f.Options, fmt.Sprintf("%s%d", defaultOptionPrefix, len(f.Options)+1))
	})
}

// SetOption rewrites one option in place; out-of-range indexes are ignored.
func (st *Store) SetOption(id string, index int, text string) {
	st.withFieldLocked(id, func(f *Field) {
		if index < 0 || index >= len(f.Options) {
			return
		}
		f.Options[index] = text
	})
}

// RemoveOption deletes one option; out-of-range indexes are ignored.
func (st *Store) RemoveOption(id string, index int) {
	st.withFieldLocked(id, func(f *Field) {
		if index < 0 || index >= len(f.Options) {
			return
		}
		f.Options = append(f.Options[:index], f.Options[index+1:]...)
	})
}

// SetImage attaches a question illustration (a data URL); empty clears it.
func (st *Store) SetImage(id, dataURL string) {
	st.withFieldLocked(id, func(f *Field) {
		f.Image = dataURL
	})
}

// SetBackground sets the page background image URL.
func (st *Store) SetBackground(url string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.schema.BG = url
}

// SetBackgroundColor sets the solid background colour.
func (st *Store) SetBackgroundColor(color string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.schema.BGColor = color
}

// SetBrand writes the brand colour, falling back to the default when blank.
func (st *Store) SetBrand(hex string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if hex == "" {
		hex = DefaultBrand
	}
	st.schema.Theme.Brand = hex
}

// SetAppearance writes the appearance mode. Unrecognised values fall back
// to auto.
func (st *Store) SetAppearance(mode Appearance) {
	st.mu.Lock()
	defer st.mu.Unlock()
	switch mode {
	case AppearanceLight, AppearanceDark, AppearanceAuto:
		st.schema.Theme.Appearance = mode
	default:
		st.schema.Theme.Appearance = AppearanceAuto
	}
}

func (st *Store) withFieldLocked(id string, fn func(*Field)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.schema.Fields {
		if st.schema.Fields[i].ID == id {
			fn(&st.schema.Fields[i])
			return
		}
	}
}

func (st *Store) prepareFieldLocked(f Field) Field {
	if f.ID == "" || st.hasIDLocked(f.ID) {
		f.ID = NewFieldID()
	}
	f.LabelHTML = SanitizeLabel(f.LabelHTML)
	if f.LabelHTML == "" {
		f.LabelHTML = defaultNewLabel
	}
	if f.Type.HasOptions() && len(f.Options) == 0 {
		f.Options = []string{defaultOptionPrefix + "1"}
	}
	if f.Options == nil {
		f.Options = []string{}
	}
	return f
}

func (st *Store) hasIDLocked(id string) bool {
	for _, f := range st.schema.Fields {
		if f.ID == id {
			return true
		}
	}
	return false
}

func (st *Store) ensureFieldsLocked() {
	if len(st.schema.Fields) > 0 {
		return
	}
	st.schema.Fields = []Field{{
		ID:        NewFieldID(),
		Type:      FieldTypeText,
		Required:  true,
		LabelHTML: defaultFallbackLabel,
		Options:   []string{},
	}}
}

func (st *Store) normalizeLocked() {
	if st.schema.Theme == (Theme{}) {
		st.schema.Theme = DefaultTheme()
	}
	if st.schema.Theme.Brand == "" {
		st.schema.Theme.Brand = DefaultBrand
	}
	if st.schema.Theme.Appearance == "" {
		st.schema.Theme.Appearance = AppearanceAuto
	}
	st.schema.Settings = mergeSettings(st.schema.Settings, DefaultSettings())

	seen := make(map[string]struct{}, len(st.schema.Fields))
	for i := range st.schema.Fields {
		f := &st.schema.Fields[i]
		if f.ID == "" {
			f.ID = NewFieldID()
		}
		if _, dup := seen[f.ID]; dup {
			f.ID = NewFieldID()
		}
		seen[f.ID] = struct{}{}
		f.LabelHTML = SanitizeLabel(f.LabelHTML)
		if f.Options == nil {
			f.Options = []string{}
		}
	}
	st.ensureFieldsLocked()
}
