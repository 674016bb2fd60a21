// Package formbuilder assembles the form editing engine: a canonical
// document store, snapshot undo/redo, debounced draft and autosave
// persistence, and preview rendering, behind one facade that keeps the
// pieces in step the way the editor UI expects.
package formbuilder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/history"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/persist"
	"github.com/goliatone/go-formbuilder/pkg/preview"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// Option configures a Builder before construction.
type Option func(*config)

type config struct {
	initial    []byte
	endpoint   string
	drafts     persist.DraftStore
	logger     *zap.Logger
	historyCap int
}

// WithInitialJSON seeds the document from a stored schema payload. Invalid
// payloads fall back to the default document.
func WithInitialJSON(raw []byte) Option {
	return func(c *config) {
		c.initial = raw
	}
}

// WithEndpoint points the remote save channel at the hosting service's
// create/update URL.
func WithEndpoint(endpoint string) Option {
	return func(c *config) {
		c.endpoint = endpoint
	}
}

// WithDraftStore sets the local draft location. Without one, drafts are
// kept in memory for the session only.
func WithDraftStore(store persist.DraftStore) Option {
	return func(c *config) {
		if store != nil {
			c.drafts = store
		}
	}
}

// WithLogger attaches a logger to the persistence layer.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHistoryLimit overrides the undo depth.
func WithHistoryLimit(limit int) Option {
	return func(c *config) {
		if limit > 0 {
			c.historyCap = limit
		}
	}
}

// Builder is the engine facade. Every mutating method commits an undo
// snapshot before applying the edit and notifies the persistence channels
// after, so callers never sequence those concerns themselves.
type Builder struct {
	store   *schema.Store
	history *history.Manager
	coord   *persist.Coordinator
	render  *preview.Renderer
}

// New wires the engine together.
func New(options ...Option) (*Builder, error) {
	cfg := &config{
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	store := schema.Load(cfg.initial)

	var client *persist.Client
	if cfg.endpoint != "" {
		var err error
		client, err = persist.NewClient(cfg.endpoint)
		if err != nil {
			return nil, fmt.Errorf("formbuilder: configure endpoint: %w", err)
		}
	}
	drafts := cfg.drafts
	if drafts == nil {
		drafts = persist.NewMemoryStore()
	}

	coord := persist.NewCoordinator(store, drafts, client, persist.WithLogger(cfg.logger))

	historyOpts := []history.Option{
		// Restoring a snapshot is an edit like any other as far as
		// persistence is concerned.
		history.WithRestoreHook(func(schema.Schema) {
			coord.NoteChange()
		}),
	}
	if cfg.historyCap > 0 {
		historyOpts = append(historyOpts, history.WithLimit(cfg.historyCap))
	}

	render, err := preview.NewRenderer()
	if err != nil {
		return nil, err
	}

	return &Builder{
		store:   store,
		history: history.New(store, historyOpts...),
		coord:   coord,
		render:  render,
	}, nil
}

// Document returns a deep copy of the current document.
func (b *Builder) Document() schema.Schema {
	return b.store.Schema()
}

// Store exposes the underlying document store for read paths that need it.
func (b *Builder) Store() *schema.Store {
	return b.store
}

// Coordinator exposes the persistence coordinator for host wiring.
func (b *Builder) Coordinator() *persist.Coordinator {
	return b.coord
}

func (b *Builder) edit(apply func()) {
	b.history.Commit()
	apply()
	b.coord.NoteChange()
}

func (b *Builder) editCritical(apply func()) {
	b.history.Commit()
	apply()
	b.coord.NoteCriticalChange()
}

// AddField appends a new question of the given kind and returns its id.
func (b *Builder) AddField(t schema.FieldType) string {
	var id string
	b.edit(func() {
		id = b.store.AddField(schema.Field{Type: t})
	})
	return id
}

// InsertField places a prepared question at the given position and returns
// its id.
func (b *Builder) InsertField(index int, field schema.Field) string {
	var id string
	b.edit(func() {
		id = b.store.InsertField(index, field)
	})
	return id
}

// RemoveField deletes a question. Removing the last question leaves a
// fresh default question in its place.
func (b *Builder) RemoveField(id string) {
	b.edit(func() {
		b.store.RemoveField(id)
	})
}

// DuplicateField copies a question directly after the original and returns
// the copy's id.
func (b *Builder) DuplicateField(id string) string {
	var copied string
	b.edit(func() {
		copied = b.store.DuplicateField(id)
	})
	return copied
}

// MoveField places a question at the given position.
func (b *Builder) MoveField(id string, index int) {
	b.edit(func() {
		b.store.MoveField(id, index)
	})
}

// Reorder rearranges questions to match the given id order.
func (b *Builder) Reorder(ids []string) {
	b.edit(func() {
		b.store.Reorder(ids)
	})
}

// SetLabel updates a question's label, sanitizing the markup.
func (b *Builder) SetLabel(id, labelHTML string) {
	b.edit(func() {
		b.store.SetLabel(id, labelHTML)
	})
}

// SetType changes a question's kind.
func (b *Builder) SetType(id string, t schema.FieldType) {
	b.edit(func() {
		b.store.SetType(id, t)
	})
}

// SetRequired toggles a question's required flag.
func (b *Builder) SetRequired(id string, required bool) {
	b.edit(func() {
		b.store.SetRequired(id, required)
	})
}

// SetOptions replaces a question's choice list.
func (b *Builder) SetOptions(id string, options []string) {
	b.edit(func() {
		b.store.SetOptions(id, options)
	})
}

// AddOption appends a choice to a question.
func (b *Builder) AddOption(id string) {
	b.edit(func() {
		b.store.AddOption(id)
	})
}

// SetOption rewrites one choice.
func (b *Builder) SetOption(id string, index int, value string) {
	b.edit(func() {
		b.store.SetOption(id, index, value)
	})
}

// RemoveOption deletes one choice.
func (b *Builder) RemoveOption(id string, index int) {
	b.edit(func() {
		b.store.RemoveOption(id, index)
	})
}

// SetImage attaches or clears a question's illustration. Image edits
// persist the draft immediately.
func (b *Builder) SetImage(id, imageURL string) {
	b.editCritical(func() {
		b.store.SetImage(id, imageURL)
	})
}

// SetBackground sets the page background image. Persisted immediately.
func (b *Builder) SetBackground(imageURL string) {
	b.editCritical(func() {
		b.store.SetBackground(imageURL)
	})
}

// SetBackgroundColor sets the solid background colour.
func (b *Builder) SetBackgroundColor(color string) {
	b.edit(func() {
		b.store.SetBackgroundColor(color)
	})
}

// SetBrand updates the theme colour.
func (b *Builder) SetBrand(hex string) {
	b.edit(func() {
		b.store.SetBrand(hex)
	})
}

// SetAppearance updates the light/dark/auto appearance mode.
func (b *Builder) SetAppearance(a schema.Appearance) {
	b.edit(func() {
		b.store.SetAppearance(a)
	})
}

// UpdateSetting writes a dotted settings path ("publish.max_per_user",
// "theme.brand", ...), creating intermediate groups as needed.
func (b *Builder) UpdateSetting(path string, value any) {
	b.edit(func() {
		b.store.SetPath(path, value)
	})
}

// Setting reads a dotted settings path.
func (b *Builder) Setting(path string) any {
	return b.store.GetPath(path)
}

// Undo restores the previous snapshot, if any.
func (b *Builder) Undo() bool { return b.history.Undo() }

// Redo re-applies the last undone snapshot, if any.
func (b *Builder) Redo() bool { return b.history.Redo() }

// CanUndo reports whether an undo snapshot exists.
func (b *Builder) CanUndo() bool { return b.history.CanUndo() }

// CanRedo reports whether a redo snapshot exists.
func (b *Builder) CanRedo() bool { return b.history.CanRedo() }

// PreviewHTML renders the read-only preview of the whole document.
func (b *Builder) PreviewHTML() (string, error) {
	return b.render.RenderDocument(b.store.Schema())
}

// PreviewField renders the read-only preview of one question.
func (b *Builder) PreviewField(id string) (string, error) {
	field, ok := b.store.Schema().FieldByID(id)
	if !ok {
		return "", fmt.Errorf("formbuilder: unknown field %q", id)
	}
	return b.render.RenderField(field)
}

// SetFormName forwards the form title to the persistence layer.
func (b *Builder) SetFormName(name string) { b.coord.SetFormName(name) }

// SetSiteName forwards the site identifier, migrating the local draft.
func (b *Builder) SetSiteName(name string) { b.coord.SetSiteName(name) }

// SetFormDescription forwards the description.
func (b *Builder) SetFormDescription(desc string) { b.coord.SetFormDescription(desc) }

// NoteClick records whether the last pressed control was a save action.
func (b *Builder) NoteClick(label string) { b.coord.NoteClick(label) }

// Save performs the explicit save; see persist.Coordinator.Save.
func (b *Builder) Save(ctx context.Context) (persist.SaveResult, error) {
	return b.coord.Save(ctx)
}

// Confirmation hands out the one-shot save confirmation.
func (b *Builder) Confirmation() (persist.SaveResult, bool) {
	return b.coord.Confirmation()
}

// EnsureSaved makes sure the document exists remotely before dependent
// views load.
func (b *Builder) EnsureSaved(ctx context.Context) (string, bool) {
	return b.coord.EnsureSaved(ctx)
}

// Flush writes the local draft synchronously; hosts call it on unload.
func (b *Builder) Flush() { b.coord.Flush() }

// RestoreDraft reloads the stored draft for the current site name.
func (b *Builder) RestoreDraft() bool { return b.coord.RestoreDraft() }

// ExportOpenAPI renders the document's submission contract as OpenAPI JSON.
func (b *Builder) ExportOpenAPI(meta openapi.Meta) ([]byte, error) {
	return openapi.ExportJSON(b.store.Schema(), meta)
}
