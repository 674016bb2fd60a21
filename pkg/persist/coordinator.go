package persist

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

const (
	defaultLocalDelay  = 600 * time.Millisecond
	defaultRemoteDelay = 1200 * time.Millisecond
)

// ErrNoSaveIntent is returned by Save when no save-intent click preceded it.
// The page contains several submit-capable controls; only one of them means
// "save the form", and this error is how the rest get ignored.
var ErrNoSaveIntent = errors.New("persist: no save intent recorded")

var saveActionPattern = regexp.MustCompile(`(?i)保存表单|保存|save`)

// IsSaveAction reports whether a control label reads as a save action.
func IsSaveAction(label string) bool {
	return saveActionPattern.MatchString(strings.TrimSpace(label))
}

// CoordinatorOption customises a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithLogger attaches a logger for advisory-failure diagnostics. The default
// is a no-op logger, keeping the library silent.
func WithLogger(logger *zap.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLocalDelay overrides the local-draft debounce window.
func WithLocalDelay(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if d > 0 {
			c.localDelay = d
		}
	}
}

// WithRemoteDelay overrides the remote-autosave debounce window.
func WithRemoteDelay(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if d > 0 {
			c.remoteDelay = d
		}
	}
}

// WithClock overrides the timestamp source for draft payloads.
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// Coordinator owns both persistence channels for one document. It is fed
// metadata edits (form/site name, description) and change notifications, and
// turns them into debounced draft writes and remote autosaves. The explicit
// Save path is the only one whose failures are surfaced.
type Coordinator struct {
	store  *schema.Store
	drafts DraftStore
	client *Client
	logger *zap.Logger
	now    func() time.Time

	localDelay  time.Duration
	remoteDelay time.Duration
	local       *Debouncer
	remote      *Debouncer

	mu           sync.Mutex
	formName     string
	siteName     string
	formDesc     string
	savedSite    string
	inFlight     bool
	saveIntent   bool
	confirmation *SaveResult
}

// NewCoordinator wires a coordinator to a store, a draft store, and a remote
// client. Both drafts and client may be nil, disabling that channel.
func NewCoordinator(store *schema.Store, drafts DraftStore, client *Client, options ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:       store,
		drafts:      drafts,
		client:      client,
		logger:      zap.NewNop(),
		now:         time.Now,
		localDelay:  defaultLocalDelay,
		remoteDelay: defaultRemoteDelay,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.local = NewDebouncer(c.localDelay, c.writeDraft)
	c.remote = NewDebouncer(c.remoteDelay, func() {
		c.autosave(context.Background(), false)
	})
	return c
}

// SetFormName updates the form title and schedules both channels.
func (c *Coordinator) SetFormName(name string) {
	c.mu.Lock()
	c.formName = name
	c.mu.Unlock()
	c.NoteChange()
}

// SetFormDescription updates the description and schedules both channels.
func (c *Coordinator) SetFormDescription(desc string) {
	c.mu.Lock()
	c.formDesc = desc
	c.mu.Unlock()
	c.NoteChange()
}

// SetSiteName updates the site identifier. When the draft key changes, the
// stored draft is moved to the new key (rename, not duplicate) so edits made
// under the old name stay recoverable under the new one.
func (c *Coordinator) SetSiteName(name string) {
	c.mu.Lock()
	old := c.siteName
	c.siteName = name
	c.mu.Unlock()

	if DraftKey(old) != DraftKey(name) {
		if err := RenameDraft(c.drafts, old, name); err != nil {
			c.logger.Debug("draft rename failed", zap.String("from", old), zap.String("to", name), zap.Error(err))
		}
	}
	c.NoteChange()
}

// SiteName returns the current site identifier.
func (c *Coordinator) SiteName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.siteName
}

// SavedSite returns the site identifier last confirmed by the service, used
// by dependent views (the submissions table) to address admin endpoints.
func (c *Coordinator) SavedSite() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.savedSite
}

// NoteChange schedules both channels after a committed edit. Bursts within
// the debounce windows coalesce into single writes.
func (c *Coordinator) NoteChange() {
	c.local.Trigger()
	c.remote.Trigger()
}

// NoteCriticalChange persists the draft immediately (image inserts and
// deletes are too expensive to lose) and schedules a remote save.
func (c *Coordinator) NoteCriticalChange() {
	c.local.Force()
	c.remote.Trigger()
}

// Flush writes the draft synchronously. Hosts call it on page unload.
func (c *Coordinator) Flush() {
	c.local.Force()
}

// RestoreDraft loads the draft stored for the current site name back into
// the store. It refuses to restore without a site identifier, so a fresh
// document can never be clobbered by someone else's leftovers. Returns
// whether a draft was applied.
func (c *Coordinator) RestoreDraft() bool {
	c.mu.Lock()
	site := strings.TrimSpace(c.siteName)
	c.mu.Unlock()
	if site == "" {
		return false
	}

	payload, ok := LoadDraft(c.drafts, site)
	if !ok {
		return false
	}
	c.store.Replace(payload.Schema)
	c.mu.Lock()
	c.formName = payload.FormName
	c.formDesc = payload.FormDesc
	c.mu.Unlock()
	return true
}

// NoteClick records whether the most recent click looked like a save action.
// Every click overwrites the previous intent, so only the control actually
// pressed last counts.
func (c *Coordinator) NoteClick(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saveIntent = IsSaveAction(label)
}

// Save is the explicit, user-triggered save. It consumes the save intent
// (returning ErrNoSaveIntent when none was recorded), posts immediately
// without debouncing, surfaces failures, and on success arms the one-shot
// confirmation artifact with absolute public/admin URLs.
func (c *Coordinator) Save(ctx context.Context) (SaveResult, error) {
	c.mu.Lock()
	intent := c.saveIntent
	c.saveIntent = false
	c.mu.Unlock()
	if !intent {
		return SaveResult{}, ErrNoSaveIntent
	}
	if c.client == nil {
		return SaveResult{}, errors.New("persist: no remote endpoint configured")
	}

	result, err := c.client.Save(ctx, c.buildForm())
	if err != nil {
		return SaveResult{}, err
	}

	c.mu.Lock()
	if result.SiteName != "" {
		c.savedSite = result.SiteName
	}
	c.confirmation = &result
	c.mu.Unlock()
	return result, nil
}

// Confirmation hands out the armed confirmation artifact exactly once.
// Autosaves never arm it; only an explicit save does.
func (c *Coordinator) Confirmation() (SaveResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.confirmation == nil {
		return SaveResult{}, false
	}
	result := *c.confirmation
	c.confirmation = nil
	return result, true
}

// EnsureSaved guarantees the document exists on the service before a
// dependent view loads, forcing a synchronous autosave when no confirmed
// site identifier is cached yet. It reports the identifier and whether one
// is now available.
func (c *Coordinator) EnsureSaved(ctx context.Context) (string, bool) {
	c.mu.Lock()
	site := c.savedSite
	c.mu.Unlock()
	if site != "" {
		return site, true
	}

	c.autosave(ctx, true)

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.savedSite, c.savedSite != ""
}

// autosave is the silent remote channel. Failures are logged and swallowed;
// the next debounce cycle retries implicitly. While a save is in flight new
// debounced triggers are dropped unless forced.
func (c *Coordinator) autosave(ctx context.Context, force bool) {
	if c.client == nil {
		return
	}

	c.mu.Lock()
	if c.inFlight && !force {
		c.mu.Unlock()
		return
	}
	site := strings.TrimSpace(c.siteName)
	if site == "" {
		// Without a site identifier the service cannot create the
		// document; skip rather than fail.
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	c.mu.Unlock()

	result, err := c.client.Save(ctx, c.buildForm())

	c.mu.Lock()
	c.inFlight = false
	if err == nil && result.SiteName != "" {
		c.savedSite = result.SiteName
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Debug("autosave failed", zap.String("site", site), zap.Error(err))
	}
}

// writeDraft is the local channel. Failures (quota, disabled storage) are
// swallowed: the draft is advisory.
func (c *Coordinator) writeDraft() {
	if c.drafts == nil {
		return
	}
	c.mu.Lock()
	payload := DraftPayload{
		TS:       c.now().UnixMilli(),
		FormName: c.formName,
		SiteName: c.siteName,
		FormDesc: c.formDesc,
	}
	c.mu.Unlock()
	payload.Schema = c.store.Schema()

	if err := SaveDraft(c.drafts, payload); err != nil {
		c.logger.Debug("draft write failed", zap.Error(err))
	}
}

func (c *Coordinator) buildForm() url.Values {
	c.mu.Lock()
	formName, siteName, formDesc := c.formName, c.siteName, c.formDesc
	c.mu.Unlock()

	raw, err := json.MarshalIndent(c.store.Schema(), "", "  ")
	if err != nil {
		raw = []byte(`{"fields": []}`)
	}
	return url.Values{
		"form_name":   {formName},
		"site_name":   {siteName},
		"form_desc":   {formDesc},
		"schema_json": {string(raw)},
	}
}
