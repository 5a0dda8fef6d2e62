package models

import (
	"time"

	"github.com/google/uuid"
)

// Garden is a membership row: "this user keeps this plant".
// Many memberships may reference the same plant.
type Garden struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	PlantID   uuid.UUID `json:"plant_id"`
	Nickname  *string   `json:"nickname,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CareSchedule is the derived watering-cadence row attached to a membership.
// One schedule per membership, created in the same transaction.
type CareSchedule struct {
	ID             uuid.UUID `json:"id"`
	GardenID       uuid.UUID `json:"garden_id"`
	PlantID        uuid.UUID `json:"plant_id"`
	WaterFrequency int       `json:"water_frequency"`
	SunlightNeeds  string    `json:"sunlight_needs"`
	NextWaterDate  time.Time `json:"next_water_date"`
	CreatedAt      time.Time `json:"created_at"`
}

// GardenPlant is a membership joined with its plant record and care schedule,
// as returned by the garden listing.
type GardenPlant struct {
	Garden
	Plant        Plant        `json:"plant"`
	CareSchedule CareSchedule `json:"care_schedule"`
}
