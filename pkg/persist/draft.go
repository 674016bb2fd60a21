package persist

import (
	"encoding/json"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// DraftKeyPrefix namespaces every draft entry in the store.
const DraftKeyPrefix = "form_builder_draft:"

// DraftPayload is the locally persisted backup of in-progress edits. Field
// names match the original storage format so existing drafts stay readable.
type DraftPayload struct {
	TS       int64         `json:"ts"`
	FormName string        `json:"form_name"`
	SiteName string        `json:"site_name"`
	FormDesc string        `json:"form_desc"`
	Schema   schema.Schema `json:"schema"`
}

// DraftStore is the durable key/value surface drafts are written to. All
// implementations are best-effort: callers treat every error as advisory.
type DraftStore interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)
}

// DraftKey derives the storage key for a site name. Blank names map to the
// shared "new" slot used while a form has no identity yet.
func DraftKey(siteName string) string {
	name := strings.TrimSpace(siteName)
	if name == "" {
		name = "new"
	}
	return DraftKeyPrefix + name
}

// SaveDraft serialises and writes a draft under its site key.
func SaveDraft(store DraftStore, payload DraftPayload) error {
	if store == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return store.Set(DraftKey(payload.SiteName), raw)
}

// LoadDraft reads the draft stored for the given site name. A missing entry
// or corrupt JSON reads as not-found; drafts are never load-bearing.
func LoadDraft(store DraftStore, siteName string) (DraftPayload, bool) {
	if store == nil {
		return DraftPayload{}, false
	}
	raw, ok, err := store.Get(DraftKey(siteName))
	if err != nil || !ok {
		return DraftPayload{}, false
	}
	var payload DraftPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return DraftPayload{}, false
	}
	return payload, true
}

// RenameDraft moves a draft between site keys: the entry is copied to the
// new key and removed from the old one, so a mid-session rename never leaves
// duplicates behind. A missing source is a no-op.
func RenameDraft(store DraftStore, oldSite, newSite string) error {
	if store == nil {
		return nil
	}
	from, to := DraftKey(oldSite), DraftKey(newSite)
	if from == to {
		return nil
	}
	raw, ok, err := store.Get(from)
	if err != nil || !ok {
		return err
	}
	if err := store.Set(to, raw); err != nil {
		return err
	}
	return store.Delete(from)
}

// ClearDrafts removes every draft entry, leaving unrelated keys untouched.
func ClearDrafts(store DraftStore) error {
	if store == nil {
		return nil
	}
	keys, err := store.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, DraftKeyPrefix) {
			continue
		}
		if err := store.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
