package schema

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy

	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

// SanitizeLabel reduces label markup to the inline formatting the editor can
// produce: bold, italic, underline, strike, and links. Everything else, most
// importantly <img>, is removed. Every label write funnels through this.
func SanitizeLabel(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(labelSanitizer().Sanitize(trimmed))
}

// LabelText strips all markup from a label, returning the plain text used
// for key matching and column headers.
func LabelText(labelHTML string) string {
	trimmed := strings.TrimSpace(labelHTML)
	if trimmed == "" {
		return ""
	}
	stripped := textSanitizer().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(stripped))
}

func labelSanitizer() *bluemonday.Policy {
	labelPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "u", "s", "strike", "del", "br")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(false)
		labelPolicy = policy
	})
	return labelPolicy
}

func textSanitizer() *bluemonday.Policy {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy
}
