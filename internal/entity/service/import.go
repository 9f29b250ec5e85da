package service

import (
	"fmt"
	"strings"

	"kycdesk/internal/entity/models"
	dErrors "kycdesk/pkg/domain-errors"
)

// validateCollection enforces the identity invariant on an imported collection.
func validateCollection(entities []models.Entity) error {
	seen := make(map[string]struct{}, len(entities))
	for i, e := range entities {
		if strings.TrimSpace(e.ID) == "" {
			return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("entity %d has no id", i))
		}
		if _, dup := seen[e.ID]; dup {
			return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("duplicate entity id %q", e.ID))
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}
