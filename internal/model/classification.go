package model

import (
	"time"

	"github.com/google/uuid"
)

// Classification assigns exactly one category to one uploaded image.
// ImageIdentifier is the stored filename and the unique key; repeated
// classifications of the same image replace the earlier assignment.
type Classification struct {
	ImageIdentifier string    `json:"image_identifier"`
	CategoryID      uuid.UUID `json:"category_id"`
	ClassifiedAt    time.Time `json:"classified_at"`
}
