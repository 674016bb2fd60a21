package schema

import (
	"fmt"
	"strings"
)

const themePrefix = "theme."

// GetPath reads a dotted option path. Paths under "theme." address the root
// theme; everything else addresses the settings tree. A missing path reads
// as nil, never an error.
func (st *Store) GetPath(path string) any {
	st.mu.RLock()
	defer st.mu.RUnlock()

	if key, ok := strings.CutPrefix(path, themePrefix); ok {
		switch key {
		case "brand":
			return st.schema.Theme.Brand
		case "appearance":
			return string(st.schema.Theme.Appearance)
		default:
			return nil
		}
	}

	keys := strings.Split(path, ".")
	var cur any = map[string]any(st.schema.Settings)
	for _, key := range keys {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = node[key]
		if !ok {
			return nil
		}
	}
	return cur
}

// SetPath writes a dotted option path, creating intermediate groups on
// demand. Theme paths accept the two known keys; writes to anything else
// under "theme." are dropped. Like every mutation it is total.
func (st *Store) SetPath(path string, value any) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if key, ok := strings.CutPrefix(path, themePrefix); ok {
		switch key {
		case "brand":
			st.schema.Theme.Brand = toString(value)
		case "appearance":
			mode := Appearance(toString(value))
			switch mode {
			case AppearanceLight, AppearanceDark, AppearanceAuto:
				st.schema.Theme.Appearance = mode
			default:
				st.schema.Theme.Appearance = AppearanceAuto
			}
		}
		return
	}

	keys := strings.Split(path, ".")
	if len(keys) == 0 || keys[0] == "" {
		return
	}
	if st.schema.Settings == nil {
		st.schema.Settings = Settings{}
	}
	cur := map[string]any(st.schema.Settings)
	for _, key := range keys[:len(keys)-1] {
		next, ok := cur[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[key] = next
		}
		cur = next
	}
	cur[keys[len(keys)-1]] = value
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case Appearance:
		return string(s)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
