package history

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

func TestManager_UndoRedoRoundTrip(t *testing.T) {
	store := schema.NewStore()
	mgr := New(store)

	mgr.Commit()
	id := store.AddField(schema.Field{Type: schema.FieldTypeText, LabelHTML: "新问题"})
	mgr.Commit()
	store.SetLabel(id, "电话")
	before := store.Schema()

	if !mgr.Undo() {
		t.Fatal("undo refused")
	}
	if got, _ := store.Schema().FieldByID(id); got.LabelHTML == "电话" {
		t.Fatal("undo did not restore the earlier label")
	}
	if !mgr.Redo() {
		t.Fatal("redo refused")
	}
	if diff := cmp.Diff(before, store.Schema()); diff != "" {
		t.Fatalf("redo did not restore the pre-undo document:\n%s", diff)
	}
}

func TestManager_EmptyStacksAreSilentNoOps(t *testing.T) {
	store := schema.NewStore()
	mgr := New(store)

	before := store.Schema()
	if mgr.Undo() {
		t.Fatal("undo on empty stack succeeded")
	}
	if mgr.Redo() {
		t.Fatal("redo on empty stack succeeded")
	}
	if diff := cmp.Diff(before, store.Schema()); diff != "" {
		t.Fatalf("no-op mutated the document:\n%s", diff)
	}
}

func TestManager_CommitClearsRedo(t *testing.T) {
	store := schema.NewStore()
	mgr := New(store)

	mgr.Commit()
	store.AddField(schema.Field{Type: schema.FieldTypeText, LabelHTML: "a"})
	mgr.Commit()

	if !mgr.Undo() {
		t.Fatal("undo refused")
	}
	if !mgr.CanRedo() {
		t.Fatal("expected redo available after undo")
	}

	store.AddField(schema.Field{Type: schema.FieldTypeText, LabelHTML: "b"})
	mgr.Commit()

	if mgr.CanRedo() {
		t.Fatal("redo stack must be cleared by a new commit")
	}
	if mgr.Redo() {
		t.Fatal("redo after invalidation must be a no-op")
	}
}

func TestManager_UndoStackBounded(t *testing.T) {
	store := schema.NewStore()
	mgr := New(store, WithLimit(10))

	for i := 0; i < 25; i++ {
		store.SetLabel(store.Fields()[0].ID, fmt.Sprintf("标题 %d", i))
		mgr.Commit()
	}

	steps := 0
	for mgr.Undo() {
		steps++
		if steps > 11 {
			break
		}
	}
	if steps != 10 {
		t.Fatalf("expected 10 undo steps, got %d", steps)
	}
}

func TestManager_RestoreHookSeesRestoredDocument(t *testing.T) {
	store := schema.NewStore()
	var seen []schema.Schema
	mgr := New(store, WithRestoreHook(func(s schema.Schema) {
		seen = append(seen, s)
	}))

	mgr.Commit()
	store.AddField(schema.Field{Type: schema.FieldTypeText, LabelHTML: "x"})
	if !mgr.Undo() {
		t.Fatal("undo refused")
	}

	if len(seen) != 1 {
		t.Fatalf("hook called %d times", len(seen))
	}
	if diff := cmp.Diff(store.Schema(), seen[0]); diff != "" {
		t.Fatalf("hook did not see the restored document:\n%s", diff)
	}
}
