package schema

import "encoding/json"

// Load decodes a serialized document into a store. Malformed input never
// fails: an unparsable payload falls back to the default document, a parsed
// one is normalised (defaults merged under its settings, fields repaired).
// Hosts inject the stored JSON at startup through this single entry point.
func Load(raw []byte) *Store {
	if len(raw) == 0 {
		return NewStore()
	}
	var s Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return NewStore()
	}
	if s.Fields == nil {
		s.Fields = []Field{}
	}
	st := &Store{schema: s}
	st.normalizeLocked()
	return st
}

// mergeSettings layers stored values over defaults: explicit settings win,
// defaults fill anything missing, and unknown stored groups or keys are kept
// untouched. Nested maps merge recursively.
func mergeSettings(stored, defaults Settings) Settings {
	return Settings(mergeTree(stored, defaults))
}

func mergeTree(strong, weak map[string]any) map[string]any {
	if strong == nil {
		return cloneTree(weak)
	}
	out := make(map[string]any, len(strong)+len(weak))
	for key, value := range weak {
		if nested, ok := value.(map[string]any); ok {
			out[key] = cloneTree(nested)
			continue
		}
		out[key] = value
	}
	for key, value := range strong {
		strongNested, strongIsMap := value.(map[string]any)
		if !strongIsMap {
			out[key] = value
			continue
		}
		if weakNested, ok := out[key].(map[string]any); ok {
			out[key] = mergeTree(strongNested, weakNested)
			continue
		}
		out[key] = cloneTree(strongNested)
	}
	return out
}
