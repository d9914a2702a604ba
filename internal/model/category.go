// Package model defines the core domain types and API contracts for labelforge.
package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MaxCategoryNameLen bounds category names. Long names blow up the report
// table layout and are never legitimate labels.
const MaxCategoryNameLen = 200

// Category is a named label that images can be classified under.
// Names are unique case-insensitively; the storage layer enforces this.
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ValidateCategoryName checks that a category name is usable.
func ValidateCategoryName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("category name must not be empty")
	}
	if len(trimmed) > MaxCategoryNameLen {
		return fmt.Errorf("category name exceeds maximum length of %d characters", MaxCategoryNameLen)
	}
	return nil
}
