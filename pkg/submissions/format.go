package submissions

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var httpScheme = regexp.MustCompile(`(?i)^https?:`)

// Formatter renders resolved answer values to display-safe HTML. Links
// (absolute http(s) URLs and site-relative paths) become anchors; lists
// render one entry per line; everything else is escaped text.
type Formatter struct {
	base *url.URL
}

// NewFormatter builds a formatter. Site-relative link values are resolved
// against base; a nil base leaves them relative.
func NewFormatter(base *url.URL) *Formatter {
	return &Formatter{base: base}
}

// Format renders one value. Nil renders as the empty string so callers can
// substitute their own placeholder.
func (f *Formatter) Format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if rendered := f.Format(item); rendered != "" {
				parts = append(parts, rendered)
			}
		}
		return strings.Join(parts, "<br>")
	case map[string]any:
		return f.formatObject(val)
	case string:
		return f.formatString(val)
	default:
		return escapeText(fmt.Sprint(val))
	}
}

// formatObject handles the upload shapes {url,name}, {url}, and the
// wrapper {value: ...}; anything else falls back to its JSON form.
func (f *Formatter) formatObject(obj map[string]any) string {
	if rawURL, ok := obj["url"].(string); ok && strings.TrimSpace(rawURL) != "" {
		raw := strings.TrimSpace(rawURL)
		name := ""
		if n, ok := obj["name"].(string); ok {
			name = strings.TrimSpace(n)
		}
		if name == "" {
			name = lastPathSegment(raw)
		}
		return f.anchor(raw, name)
	}
	if inner, ok := obj["value"]; ok {
		return escapeText(fmt.Sprint(inner))
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return escapeText(fmt.Sprint(obj))
	}
	return escapeText(string(raw))
}

func (f *Formatter) formatString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// Comma-separated link lists get split and rendered one per line.
	if strings.Contains(s, ",") && isLink(s) {
		parts := strings.Split(s, ",")
		rendered := make([]string, 0, len(parts))
		for _, part := range parts {
			if out := f.formatString(strings.TrimSpace(part)); out != "" {
				rendered = append(rendered, out)
			}
		}
		return strings.Join(rendered, "<br>")
	}

	if isLink(s) {
		return f.anchor(s, lastPathSegment(s))
	}
	return escapeText(s)
}

func (f *Formatter) anchor(raw, name string) string {
	href := raw
	if strings.HasPrefix(raw, "/") && f.base != nil {
		if ref, err := url.Parse(raw); err == nil {
			href = f.base.ResolveReference(ref).String()
		}
	}
	href = strings.ReplaceAll(href, `"`, "&quot;")
	return `<a href="` + href + `" target="_blank" rel="noopener">` + escapeText(name) + `</a>`
}

func isLink(s string) bool {
	return httpScheme.MatchString(s) || strings.HasPrefix(s, "/")
}

// lastPathSegment derives a link caption from the URL path, with a generic
// fallback when the path has none.
func lastPathSegment(raw string) string {
	trimmed := raw
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if trimmed == "" {
		return "查看"
	}
	return trimmed
}

var textEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
