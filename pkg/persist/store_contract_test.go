package persist

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// draftStoreContract runs every DraftStore implementation through the same
// behavioural checks.
func draftStoreContract(t *testing.T, newStore func(t *testing.T) DraftStore) {
	t.Helper()

	t.Run("missing key reads as not-found", func(t *testing.T) {
		store := newStore(t)
		raw, ok, err := store.Get("absent")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if ok || raw != nil {
			t.Fatalf("expected not-found, got ok=%v raw=%q", ok, raw)
		}
	})

	t.Run("set then get round trips", func(t *testing.T) {
		store := newStore(t)
		if err := store.Set("k", []byte("payload")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		raw, ok, err := store.Get("k")
		if err != nil || !ok {
			t.Fatalf("Get: ok=%v err=%v", ok, err)
		}
		if string(raw) != "payload" {
			t.Fatalf("Get returned %q", raw)
		}
	})

	t.Run("set overwrites", func(t *testing.T) {
		store := newStore(t)
		if err := store.Set("k", []byte("first")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := store.Set("k", []byte("second")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		raw, _, _ := store.Get("k")
		if string(raw) != "second" {
			t.Fatalf("overwrite lost: %q", raw)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store := newStore(t)
		if err := store.Set("k", []byte("x")); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if err := store.Delete("k"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if err := store.Delete("k"); err != nil {
			t.Fatalf("second Delete: %v", err)
		}
		if _, ok, _ := store.Get("k"); ok {
			t.Fatal("key survived delete")
		}
	})

	t.Run("keys lists everything stored", func(t *testing.T) {
		store := newStore(t)
		for _, k := range []string{"b", "a", "form_builder_draft:site with spaces"} {
			if err := store.Set(k, []byte("v")); err != nil {
				t.Fatalf("Set(%q): %v", k, err)
			}
		}
		keys, err := store.Keys()
		if err != nil {
			t.Fatalf("Keys: %v", err)
		}
		sort.Strings(keys)
		want := []string{"a", "b", "form_builder_draft:site with spaces"}
		if diff := cmp.Diff(want, keys); diff != "" {
			t.Fatalf("key listing mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	draftStoreContract(t, func(t *testing.T) DraftStore {
		return NewMemoryStore()
	})
}

func TestFileStore_Contract(t *testing.T) {
	draftStoreContract(t, func(t *testing.T) DraftStore {
		store, err := NewFileStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileStore: %v", err)
		}
		return store
	})
}
