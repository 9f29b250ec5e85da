package service

import (
	"context"
	"fmt"

	"kycdesk/internal/entity/fields"
	"kycdesk/internal/entity/models"
	"kycdesk/internal/entity/profile"
	dErrors "kycdesk/pkg/domain-errors"
)

// UpdateField writes raw into the field named key of entity id.
//
// Unlike Update it reports misses: an unknown field or an unparsable value is
// a bad request, an unknown entity is not found. Neither changes anything.
func (d *Directory) UpdateField(ctx context.Context, id, key, raw string) (models.Entity, error) {
	patch, err := fields.PatchFor(key, raw)
	if err != nil {
		return models.Entity{}, err
	}
	e, ok := d.update(ctx, id, patch, key)
	if !ok {
		return models.Entity{}, dErrors.New(dErrors.CodeNotFound, "entity not found")
	}
	return e, nil
}

// Profile builds the profile sections of entity id.
func (d *Directory) Profile(ctx context.Context, id string) ([]profile.Section, error) {
	e, ok := d.Get(ctx, id)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "entity not found")
	}
	return profile.Build(e), nil
}

// ExportText renders the clipboard text of one section of entity id, or of
// the whole profile when section is empty.
func (d *Directory) ExportText(ctx context.Context, id, section string) (string, error) {
	sections, err := d.Profile(ctx, id)
	if err != nil {
		return "", err
	}
	if section == "" {
		d.metrics.IncrementExport("full")
		return profile.FullText(sections), nil
	}
	s, ok := profile.Find(sections, section)
	if !ok {
		return "", dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown profile section %q", section))
	}
	d.metrics.IncrementExport("section")
	return s.Text(), nil
}
