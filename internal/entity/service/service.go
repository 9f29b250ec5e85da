// Package service holds the entity directory: the ordered collection, the
// selection, the edit tab and view mode, and their persistence.
package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kycdesk/internal/entity/events"
	"kycdesk/internal/entity/metrics"
	"kycdesk/internal/entity/models"
	"kycdesk/internal/entity/store"
	"kycdesk/pkg/requestcontext"
)

// Store persists the collection and the selection under two independent keys.
type Store interface {
	Load(ctx context.Context) (store.Snapshot, error)
	SaveEntities(ctx context.Context, entities []models.Entity) error
	SaveSelected(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// EventPublisher receives the change feed.
type EventPublisher interface {
	Publish(ctx context.Context, change events.Change) error
}

// State is a consistent copy of the directory for rendering.
type State struct {
	Entities   []models.Entity
	SelectedID string
	Tab        models.Tab
	View       models.ViewMode
}

// Selected returns the selected entity, if any.
func (s State) Selected() (models.Entity, bool) {
	for _, e := range s.Entities {
		if e.ID == s.SelectedID {
			return e, true
		}
	}
	return models.Entity{}, false
}

// Directory is the entity collection with its selection and presentation state.
//
// Invariants:
//   - entity ids are unique and never reassigned
//   - selectedID is empty or names an entity in the collection
//   - every collection change is written to the store before the call returns
//
// All operations are serialized by one mutex.
type Directory struct {
	mu         sync.Mutex
	entities   []models.Entity
	selectedID string
	tab        models.Tab
	view       models.ViewMode

	store     Store
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	newID     func() string
}

type Option func(*Directory)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Directory) {
		d.logger = logger
	}
}

func WithPublisher(p EventPublisher) Option {
	return func(d *Directory) {
		d.publisher = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Directory) {
		d.metrics = m
	}
}

// WithIDGenerator replaces models.NewID. Used by tests.
func WithIDGenerator(fn func() string) Option {
	return func(d *Directory) {
		d.newID = fn
	}
}

// New rehydrates a directory from st and writes the result back, so a fresh
// store starts out holding the sample set.
func New(ctx context.Context, st Store, opts ...Option) (*Directory, error) {
	d := &Directory{
		store:  st,
		tab:    models.TabBasic,
		view:   models.ViewEdit,
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer("kycdesk/entity"),
		newID:  models.NewID,
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.hydrate(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload re-reads the store, picking up writes made by another process, and
// re-applies the selection fallback.
func (d *Directory) Reload(ctx context.Context) error {
	ctx, span := d.tracer.Start(ctx, "entity.Reload")
	defer span.End()

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hydrate(ctx)
}

// hydrate loads the store. Caller holds mu, or d is not yet shared.
func (d *Directory) hydrate(ctx context.Context) error {
	snap, err := d.store.Load(ctx)
	if err != nil {
		return err
	}

	if snap.HasEntities {
		if err := validateCollection(snap.Entities); err != nil {
			d.logger.WarnContext(ctx, "discarding stored entities", "error", err)
			d.metrics.IncrementLoadFallback()
			snap.Entities, snap.HasEntities = nil, false
		}
	}

	entities := snap.Entities
	if !snap.HasEntities {
		entities = models.Samples(requestcontext.Now(ctx))
	}

	selected := snap.SelectedID
	if selected == "" {
		if snap.HasEntities && len(snap.Entities) > 0 {
			selected = snap.Entities[0].ID
		} else {
			selected = models.SampleNorthwindID
		}
	}

	d.entities = entities
	d.selectedID = selected
	d.reconcile()

	d.persistEntities(ctx)
	d.persistSelected(ctx)
	d.metrics.SetEntitiesTotal(len(d.entities))
	return nil
}

// reconcile applies the selection fallback: a selection that names no entity
// moves to the first entity, or to none when the collection is empty.
func (d *Directory) reconcile() {
	if d.indexOf(d.selectedID) >= 0 {
		return
	}
	if len(d.entities) > 0 {
		d.selectedID = d.entities[0].ID
		return
	}
	d.selectedID = ""
}

// List returns the entities in insertion order.
func (d *Directory) List(context.Context) []models.Entity {
	d.mu.Lock()
	defer d.mu.Unlock()
	return cloneAll(d.entities)
}

// Get returns the entity with id.
func (d *Directory) Get(_ context.Context, id string) (models.Entity, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i := d.indexOf(id); i >= 0 {
		return d.entities[i].Clone(), true
	}
	return models.Entity{}, false
}

// Selected returns the selected entity; false means "No entity selected".
func (d *Directory) Selected(context.Context) (models.Entity, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i := d.indexOf(d.selectedID); i >= 0 {
		return d.entities[i].Clone(), true
	}
	return models.Entity{}, false
}

// State returns a consistent copy of everything a page needs.
func (d *Directory) State(context.Context) State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return State{
		Entities:   cloneAll(d.entities),
		SelectedID: d.selectedID,
		Tab:        d.tab,
		View:       d.view,
	}
}

// Add appends a blank entity, selects it and resets the edit tab.
func (d *Directory) Add(ctx context.Context) models.Entity {
	ctx, span := d.tracer.Start(ctx, "entity.Add")
	defer span.End()

	d.mu.Lock()
	id := d.newID()
	for d.indexOf(id) >= 0 {
		id = d.newID()
	}
	e := models.NewBlank(id, requestcontext.Now(ctx))
	d.entities = append(d.entities, e)
	d.selectedID = id
	d.tab = models.TabBasic

	d.persistEntities(ctx)
	d.persistSelected(ctx)
	d.metrics.IncrementEntitiesCreated()
	d.metrics.SetEntitiesTotal(len(d.entities))
	d.mu.Unlock()

	span.SetAttributes(attribute.String("entity.id", id))
	d.publish(ctx, events.NewChange(ctx, events.ActionCreated, id))
	return e.Clone()
}

// Select makes id the selection. Unknown ids are ignored; the result reports
// whether id exists.
func (d *Directory) Select(ctx context.Context, id string) bool {
	ctx, span := d.tracer.Start(ctx, "entity.Select", trace.WithAttributes(attribute.String("entity.id", id)))
	defer span.End()

	d.mu.Lock()
	if d.indexOf(id) < 0 {
		d.mu.Unlock()
		return false
	}
	changed := d.selectedID != id
	d.selectedID = id
	if changed {
		d.persistSelected(ctx)
	}
	d.metrics.IncrementSelections()
	d.mu.Unlock()

	if changed {
		d.publish(ctx, events.NewChange(ctx, events.ActionSelected, id))
	}
	return true
}

// Update applies patch to the entity with id and stamps UpdatedAt. The patch
// cannot change the id. Unknown ids are ignored; the result reports whether
// id exists.
func (d *Directory) Update(ctx context.Context, id string, patch models.Patch) bool {
	_, ok := d.update(ctx, id, patch, "")
	return ok
}

func (d *Directory) update(ctx context.Context, id string, patch models.Patch, field string) (models.Entity, bool) {
	ctx, span := d.tracer.Start(ctx, "entity.Update", trace.WithAttributes(
		attribute.String("entity.id", id),
		attribute.String("entity.field", field),
	))
	defer span.End()

	d.mu.Lock()
	i := d.indexOf(id)
	if i < 0 {
		d.mu.Unlock()
		return models.Entity{}, false
	}
	next := patch(d.entities[i].Clone())
	next.ID = id
	next = next.Touch(requestcontext.Now(ctx))
	d.entities[i] = next

	d.persistEntities(ctx)
	d.metrics.IncrementFieldUpdate(fieldGroup(field))
	d.mu.Unlock()

	change := events.NewChange(ctx, events.ActionUpdated, id)
	change.Field = field
	d.publish(ctx, change)
	return next.Clone(), true
}

// Replace swaps in a whole collection, as an import does, and re-applies the
// selection fallback. Ids must be present and unique.
func (d *Directory) Replace(ctx context.Context, entities []models.Entity) error {
	ctx, span := d.tracer.Start(ctx, "entity.Replace", trace.WithAttributes(attribute.Int("entity.count", len(entities))))
	defer span.End()

	if err := validateCollection(entities); err != nil {
		return err
	}

	d.mu.Lock()
	prevSelected := d.selectedID
	d.entities = cloneAll(entities)
	d.reconcile()

	d.persistEntities(ctx)
	if d.selectedID != prevSelected {
		d.persistSelected(ctx)
	}
	d.metrics.SetEntitiesTotal(len(d.entities))
	d.mu.Unlock()

	change := events.NewChange(ctx, events.ActionImported, "")
	change.Count = len(entities)
	d.publish(ctx, change)
	return nil
}

// Tab returns the active edit tab.
func (d *Directory) Tab() models.Tab {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tab
}

// SetTab switches the edit tab. Unknown tabs are ignored.
func (d *Directory) SetTab(tab models.Tab) bool {
	if !tab.IsValid() {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tab = tab
	return true
}

// View returns the presentation mode.
func (d *Directory) View() models.ViewMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

// SetView switches between edit and profile mode.
func (d *Directory) SetView(mode models.ViewMode) bool {
	if _, ok := models.ParseViewMode(string(mode)); !ok {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view = mode
	return true
}

// Ping checks the store backend.
func (d *Directory) Ping(ctx context.Context) error {
	return d.store.Ping(ctx)
}

// persistEntities writes the collection. Failures are logged and counted;
// the in-memory state stays authoritative. Caller holds mu.
func (d *Directory) persistEntities(ctx context.Context) {
	defer d.metrics.ObservePersist(time.Now())
	if err := d.store.SaveEntities(ctx, d.entities); err != nil {
		d.metrics.IncrementWriteFailure(store.EntitiesKey)
		d.logger.ErrorContext(ctx, "failed to persist entities",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

// persistSelected writes the selection when there is one. Caller holds mu.
func (d *Directory) persistSelected(ctx context.Context) {
	if d.selectedID == "" {
		return
	}
	if err := d.store.SaveSelected(ctx, d.selectedID); err != nil {
		d.metrics.IncrementWriteFailure(store.SelectedKey)
		d.logger.ErrorContext(ctx, "failed to persist selection",
			"request_id", requestcontext.RequestID(ctx),
			"entity_id", d.selectedID,
			"error", err,
		)
	}
}

func (d *Directory) publish(ctx context.Context, change events.Change) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, change); err != nil {
		d.logger.WarnContext(ctx, "failed to publish entity change",
			"action", change.Action,
			"entity_id", change.EntityID,
			"error", err,
		)
	}
}

func (d *Directory) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(d.entities, func(e models.Entity) bool { return e.ID == id })
}

func cloneAll(entities []models.Entity) []models.Entity {
	out := make([]models.Entity, len(entities))
	for i, e := range entities {
		out[i] = e.Clone()
	}
	return out
}

// fieldGroup is the metrics label of a field key: its group, or "basic".
func fieldGroup(field string) string {
	if field == "" {
		return "patch"
	}
	if group, _, ok := strings.Cut(field, "."); ok {
		return group
	}
	return "basic"
}
