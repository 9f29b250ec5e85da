// Package fields is the registry of editable entity fields.
//
// Each field knows its dotted key (matching the JSON path, e.g. "banking.swift"),
// its labels, its control kind, and how to read it from and patch it into an
// entity. A patch touches exactly one leaf: nested groups are rebuilt with the
// leaf replaced and every sibling carried over.
package fields

import (
	"math"
	"strconv"
	"strings"

	"kycdesk/internal/entity/models"
	dErrors "kycdesk/pkg/domain-errors"
)

// Kind is the control used to edit a field.
type Kind string

const (
	KindText     Kind = "text"
	KindTextArea Kind = "textarea"
	KindDate     Kind = "date"
	KindNumber   Kind = "number"
)

// Field describes one editable leaf of an entity.
type Field struct {
	Key          string
	Label        string
	ProfileLabel string
	Kind         Kind
	// Default is shown in the edit control when the value is absent. It is never written.
	Default string
	Min     string
	Max     string

	get func(models.Entity) string
	set func(models.Entity, string) (models.Entity, error)
}

// Value is the display value: empty when absent.
func (f Field) Value(e models.Entity) string {
	return f.get(e)
}

// FormValue is the value shown in the edit control.
func (f Field) FormValue(e models.Entity) string {
	if v := f.get(e); v != "" {
		return v
	}
	return f.Default
}

// Patch validates raw and returns a patch that writes it into this field only.
func (f Field) Patch(raw string) (models.Patch, error) {
	// Validate eagerly so a bad value never reaches the directory.
	if _, err := f.set(models.Entity{}, raw); err != nil {
		return nil, err
	}
	return func(e models.Entity) models.Entity {
		next, _ := f.set(e, raw)
		return next
	}, nil
}

// Lookup returns the field registered under key.
func Lookup(key string) (Field, bool) {
	f, ok := registry[key]
	return f, ok
}

// MustLookup is Lookup for keys known at compile time.
func MustLookup(key string) Field {
	f, ok := registry[key]
	if !ok {
		panic("fields: unknown key " + key)
	}
	return f
}

// Keys lists every registered key in edit-form order.
func Keys() []string {
	var keys []string
	for _, tab := range models.Tabs {
		keys = append(keys, layout[tab].Keys...)
	}
	return keys
}

// PatchFor resolves key and builds the patch for raw.
func PatchFor(key, raw string) (models.Patch, error) {
	f, ok := Lookup(key)
	if !ok {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown field "+strconv.Quote(key))
	}
	return f.Patch(raw)
}

// ParseOwnership parses the ownership percentage control value.
// Empty means absent; anything else must be a finite number. The 0-100 range
// is only a control hint and is not enforced here.
func ParseOwnership(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "ownership percentage must be a number")
	}
	return &v, nil
}

// FormatNumber renders a number the way the edit control and profile show it.
func FormatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
