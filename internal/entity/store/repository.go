package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"kycdesk/internal/entity/models"
	"kycdesk/pkg/platform/sentinel"
)

// Storage keys of the desk. A deployment may prefix both (see WithKeyPrefix).
const (
	EntitiesKey = "kyc_entities"
	SelectedKey = "kyc_selected_entity"
)

// Snapshot is what Load found in the store.
type Snapshot struct {
	// Entities is the stored collection; only meaningful when HasEntities.
	Entities []models.Entity
	// HasEntities is false when the collection key is absent or unreadable.
	HasEntities bool
	// SelectedID is the stored selection, "" when absent.
	SelectedID string
}

// Repository reads and writes the desk through a KV.
type Repository struct {
	kv          KV
	entitiesKey string
	selectedKey string
	logger      *slog.Logger
	onMalformed func()
}

// Option configures a Repository.
type Option func(*Repository)

// WithKeyPrefix namespaces both keys, e.g. "team-a:" for a shared Redis.
func WithKeyPrefix(prefix string) Option {
	return func(r *Repository) {
		r.entitiesKey = prefix + EntitiesKey
		r.selectedKey = prefix + SelectedKey
	}
}

// WithLogger sets the logger used to report discarded values.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMalformedHook is called whenever a stored collection is discarded.
func WithMalformedHook(fn func()) Option {
	return func(r *Repository) {
		r.onMalformed = fn
	}
}

// NewRepository builds a Repository over kv.
func NewRepository(kv KV, opts ...Option) *Repository {
	r := &Repository{
		kv:          kv,
		entitiesKey: EntitiesKey,
		selectedKey: SelectedKey,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load reads the collection and the selection.
//
// A collection that does not decode as a JSON list of entities, or a backend
// reporting sentinel.ErrMalformed, is treated as absent and logged, so a
// corrupted store starts over from the samples instead of failing. Other
// backend errors are returned.
func (r *Repository) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	raw, err := r.kv.Get(ctx, r.entitiesKey)
	var entities []models.Entity
	if err == nil {
		entities, err = decodeEntities(raw)
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
	case errors.Is(err, sentinel.ErrMalformed):
		r.logger.WarnContext(ctx, "discarding stored entities",
			"key", r.entitiesKey,
			"error", err,
		)
		if r.onMalformed != nil {
			r.onMalformed()
		}
	case err != nil:
		return Snapshot{}, fmt.Errorf("load entities: %w", err)
	default:
		snap.Entities = entities
		snap.HasEntities = true
	}

	selected, err := r.kv.Get(ctx, r.selectedKey)
	switch {
	case errors.Is(err, sentinel.ErrNotFound), errors.Is(err, sentinel.ErrMalformed):
	case err != nil:
		return Snapshot{}, fmt.Errorf("load selection: %w", err)
	default:
		snap.SelectedID = selected
	}
	return snap, nil
}

// SaveEntities writes the whole collection.
func (r *Repository) SaveEntities(ctx context.Context, entities []models.Entity) error {
	if entities == nil {
		entities = []models.Entity{}
	}
	raw, err := json.Marshal(entities)
	if err != nil {
		return fmt.Errorf("encode entities: %w", err)
	}
	if err := r.kv.Set(ctx, r.entitiesKey, string(raw)); err != nil {
		return fmt.Errorf("save entities: %w", err)
	}
	return nil
}

// SaveSelected writes the selected id.
func (r *Repository) SaveSelected(ctx context.Context, id string) error {
	if err := r.kv.Set(ctx, r.selectedKey, id); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}

// Ping checks the backend.
func (r *Repository) Ping(ctx context.Context) error {
	return r.kv.Ping(ctx)
}

// decodeEntities accepts only a JSON array; "null", objects and scalars are malformed.
func decodeEntities(raw string) ([]models.Entity, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("entities value is not a list: %w", sentinel.ErrMalformed)
	}
	var entities []models.Entity
	if err := json.Unmarshal(trimmed, &entities); err != nil {
		return nil, fmt.Errorf("%w: %w", sentinel.ErrMalformed, err)
	}
	if entities == nil {
		entities = []models.Entity{}
	}
	return entities, nil
}
