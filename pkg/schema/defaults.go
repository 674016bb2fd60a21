package schema

import (
	"crypto/rand"
	"math/big"
)

// Default labels used when the builder has to invent a question. They are
// part of the wire vocabulary shared with the hosted service, so they stay in
// the original language rather than being localised here.
const (
	DefaultBrand         = "#2563eb"
	defaultFallbackLabel = "默认问题"
	defaultNewLabel      = "新问题"
	defaultOptionPrefix  = "选项 "
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewFieldID mints an opaque field identifier. The "q" prefix plus short
// base36 suffix matches the identifiers already present in stored documents,
// so resolver lookups keep working across old and new schemas.
func NewFieldID() string {
	buf := make([]byte, 7)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken;
			// fall back to a fixed character rather than propagate.
			buf[i] = '0'
			continue
		}
		buf[i] = idAlphabet[n.Int64()]
	}
	return "q" + string(buf)
}

// DefaultTheme returns the brand/appearance pair applied to new documents.
func DefaultTheme() Theme {
	return Theme{Brand: DefaultBrand, Appearance: AppearanceAuto}
}

// DefaultSettings returns the full settings tree with every group and key
// present. Loading merges stored documents on top of this, so partial or
// legacy payloads always come out fully populated.
func DefaultSettings() Settings {
	return Settings{
		"publish": map[string]any{
			"is_published":    true,
			"start_at":        "",
			"end_at":          "",
			"require_login":   false,
			"visibility":      "public",
			"allowed_domains": "",
			"whitelist":       "",
		},
		"submission": map[string]any{
			// Numeric options live as float64 so values survive a JSON
			// round trip unchanged.
			"per_user_limit":     0.0,
			"per_ip_daily_limit": 0.0,
			"max_total":          0.0,
			"duplicate_keys":     "",
			"require_review":     false,
			"enable_captcha":     false,
		},
		"upload": map[string]any{
			"allowed_file_types": "jpg,png,pdf",
			"max_file_mb":        5.0,
			"image_quality":      0.85,
			"image_max_w":        1600.0,
		},
		"display": map[string]any{
			"success_message": "提交成功，感谢填写",
			"redirect_url":    "",
			"bg_style":        "gradient",
		},
		"notify": map[string]any{
			"email_to":        "",
			"webhook_url":     "",
			"export_datefmt":  "YYYY-MM-DD HH:mm",
			"export_timezone": "Asia/Shanghai",
		},
		"privacy": map[string]any{
			"require_consent": false,
			"consent_url":     "",
		},
	}
}

// DefaultQuestions returns the two stub questions injected when a document
// arrives without any usable schema.
func DefaultQuestions() []Field {
	return []Field{
		{ID: NewFieldID(), Type: FieldTypeText, Required: true, LabelHTML: "姓名", Options: []string{}},
		{ID: NewFieldID(), Type: FieldTypeEmail, Required: true, LabelHTML: "电子邮箱", Options: []string{}},
	}
}

// DefaultSchema returns a fully initialised document.
func DefaultSchema() Schema {
	return Schema{
		Fields:   DefaultQuestions(),
		Theme:    DefaultTheme(),
		Settings: DefaultSettings(),
	}
}
