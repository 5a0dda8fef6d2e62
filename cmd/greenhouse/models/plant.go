package models

import (
	"time"

	"github.com/google/uuid"
)

// PlantIdentification is the structured record recovered from the oracle's
// free-text response. Field names match what the model is prompted to emit.
type PlantIdentification struct {
	Name             string `json:"name"`
	Summary          string `json:"summary"`
	Description      string `json:"description"`
	CareInstructions string `json:"careInstructions"`
}

// Plant is a persisted identification result. Rows are write-once: a plant
// record is never updated after creation.
type Plant struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	CareInstructions string    `json:"care_instructions"`
	ImageURL         string    `json:"image_url"`
	CreatedAt        time.Time `json:"created_at"`
}
