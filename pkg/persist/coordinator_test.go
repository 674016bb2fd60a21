package persist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

func newSaveServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		site := r.PostForm.Get("site_name")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"site_name":"` + site + `","public_url":"/site/` + site + `/","admin_url":"/site/` + site + `/admin"}`))
	}))
}

func TestIsSaveAction(t *testing.T) {
	cases := []struct {
		label string
		want  bool
	}{
		{"保存表单", true},
		{"保存", true},
		{"Save", true},
		{" SAVE changes ", true},
		{"取消", false},
		{"Cancel", false},
		{"预览", false},
	}
	for _, tc := range cases {
		if got := IsSaveAction(tc.label); got != tc.want {
			t.Fatalf("IsSaveAction(%q) = %v, want %v", tc.label, got, tc.want)
		}
	}
}

func TestCoordinator_SaveRequiresIntent(t *testing.T) {
	var hits atomic.Int32
	srv := newSaveServer(t, &hits)
	defer srv.Close()
	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	c := NewCoordinator(schema.NewStore(), NewMemoryStore(), client)
	c.SetSiteName("signup")

	if _, err := c.Save(context.Background()); err != ErrNoSaveIntent {
		t.Fatalf("save without intent: err = %v, want ErrNoSaveIntent", err)
	}

	c.NoteClick("取消")
	if _, err := c.Save(context.Background()); err != ErrNoSaveIntent {
		t.Fatalf("save after cancel click: err = %v, want ErrNoSaveIntent", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("no request should have been sent, got %d", hits.Load())
	}

	c.NoteClick("保存表单")
	result, err := c.Save(context.Background())
	if err != nil {
		t.Fatalf("save with intent: %v", err)
	}
	if result.SiteName != "signup" {
		t.Fatalf("result site = %q", result.SiteName)
	}

	// Intent is consumed on use; the next Save must re-arm.
	if _, err := c.Save(context.Background()); err != ErrNoSaveIntent {
		t.Fatalf("second save reused intent: err = %v", err)
	}
}

func TestCoordinator_ConfirmationIsOneShot(t *testing.T) {
	var hits atomic.Int32
	srv := newSaveServer(t, &hits)
	defer srv.Close()
	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	c := NewCoordinator(schema.NewStore(), NewMemoryStore(), client)
	c.SetSiteName("signup")

	if _, ok := c.Confirmation(); ok {
		t.Fatal("confirmation must start disarmed")
	}

	// Autosave never arms the confirmation.
	if _, ok := c.EnsureSaved(context.Background()); !ok {
		t.Fatal("EnsureSaved should have saved")
	}
	if _, ok := c.Confirmation(); ok {
		t.Fatal("autosave armed the confirmation")
	}

	c.NoteClick("Save")
	if _, err := c.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok := c.Confirmation()
	if !ok {
		t.Fatal("explicit save should arm the confirmation")
	}
	if !strings.HasSuffix(got.AdminURL, "/site/signup/admin") {
		t.Fatalf("confirmation admin url = %q", got.AdminURL)
	}
	if _, ok := c.Confirmation(); ok {
		t.Fatal("confirmation shown twice")
	}
}

func TestCoordinator_AutosaveSkipsWithoutSite(t *testing.T) {
	var hits atomic.Int32
	srv := newSaveServer(t, &hits)
	defer srv.Close()
	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	c := NewCoordinator(schema.NewStore(), NewMemoryStore(), client, WithRemoteDelay(10*time.Millisecond))
	c.NoteChange()
	time.Sleep(60 * time.Millisecond)

	if hits.Load() != 0 {
		t.Fatalf("autosave without a site name should skip, got %d requests", hits.Load())
	}
	if site, ok := c.EnsureSaved(context.Background()); ok || site != "" {
		t.Fatalf("EnsureSaved without a site = (%q, %v)", site, ok)
	}
}

func TestCoordinator_InFlightGuardDropsTriggers(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	entered := make(chan struct{}, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		entered <- struct{}{}
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"site_name":"slow"}`))
	}))
	defer srv.Close()
	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	c := NewCoordinator(schema.NewStore(), NewMemoryStore(), client, WithRemoteDelay(5*time.Millisecond))
	c.SetSiteName("slow")

	c.NoteChange()
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first autosave never reached the server")
	}

	// While the first save is held open, further debounced triggers
	// must be dropped, not queued.
	c.NoteChange()
	c.NoteChange()
	time.Sleep(80 * time.Millisecond)
	close(release)
	time.Sleep(80 * time.Millisecond)

	if got := hits.Load(); got != 1 {
		t.Fatalf("expected a single in-flight save, got %d", got)
	}
	if c.SavedSite() != "slow" {
		t.Fatalf("saved site = %q", c.SavedSite())
	}
}

func TestCoordinator_EnsureSavedCachesSite(t *testing.T) {
	var hits atomic.Int32
	srv := newSaveServer(t, &hits)
	defer srv.Close()
	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	c := NewCoordinator(schema.NewStore(), NewMemoryStore(), client)
	c.SetSiteName("signup")

	site, ok := c.EnsureSaved(context.Background())
	if !ok || site != "signup" {
		t.Fatalf("EnsureSaved = (%q, %v)", site, ok)
	}
	if _, ok := c.EnsureSaved(context.Background()); !ok {
		t.Fatal("cached site should satisfy EnsureSaved")
	}
	if hits.Load() != 1 {
		t.Fatalf("second EnsureSaved hit the network: %d requests", hits.Load())
	}
}

func TestCoordinator_FlushWritesDraft(t *testing.T) {
	drafts := NewMemoryStore()
	c := NewCoordinator(schema.NewStore(), drafts, nil, WithClock(func() time.Time {
		return time.UnixMilli(1700000000000)
	}))
	c.SetSiteName("signup")
	c.SetFormName("报名表")

	c.Flush()

	payload, ok := LoadDraft(drafts, "signup")
	if !ok {
		t.Fatal("flush should persist the draft synchronously")
	}
	if payload.TS != 1700000000000 || payload.FormName != "报名表" {
		t.Fatalf("draft payload = %+v", payload)
	}
	if len(payload.Schema.Fields) == 0 {
		t.Fatal("draft lost the document fields")
	}
}

func TestCoordinator_SetSiteNameMigratesDraft(t *testing.T) {
	drafts := NewMemoryStore()
	c := NewCoordinator(schema.NewStore(), drafts, nil)
	c.SetFormName("untitled")
	c.Flush() // stored under the "new" slot

	c.SetSiteName("launched")

	if _, ok := LoadDraft(drafts, ""); ok {
		t.Fatal("draft should have moved off the new slot")
	}
	moved, ok := LoadDraft(drafts, "launched")
	if !ok {
		t.Fatal("draft should follow the site rename")
	}
	if moved.FormName != "untitled" {
		t.Fatalf("migrated draft = %+v", moved)
	}
}

func TestCoordinator_RestoreDraft(t *testing.T) {
	drafts := NewMemoryStore()
	doc := schema.DefaultSchema()
	doc.Fields[0].LabelHTML = "联系人"
	if err := SaveDraft(drafts, DraftPayload{SiteName: "signup", FormName: "saved", Schema: doc}); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	store := schema.NewStore()
	c := NewCoordinator(store, drafts, nil)
	if c.RestoreDraft() {
		t.Fatal("restore without a site name must refuse")
	}

	c.SetSiteName("signup")
	if !c.RestoreDraft() {
		t.Fatal("expected draft to restore")
	}
	if got := store.Fields()[0].LabelHTML; got != "联系人" {
		t.Fatalf("restored label = %q", got)
	}
}
