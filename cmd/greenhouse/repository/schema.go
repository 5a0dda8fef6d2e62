package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sproutly/greenhouse/common/db"
)

// schema is applied at startup through the bootstrap DB init hook.
// Deletes on gardens require prior deletion of dependent care_schedules rows;
// both foreign keys are plain RESTRICT so the ordering stays explicit in the
// workflow code.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	display_name  TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS plants (
	id                UUID PRIMARY KEY,
	user_id           UUID NOT NULL REFERENCES users(id),
	name              TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	care_instructions TEXT NOT NULL DEFAULT '',
	image_url         TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS gardens (
	id         UUID PRIMARY KEY,
	user_id    UUID NOT NULL REFERENCES users(id),
	plant_id   UUID NOT NULL REFERENCES plants(id),
	nickname   TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS care_schedules (
	id              UUID PRIMARY KEY,
	garden_id       UUID NOT NULL REFERENCES gardens(id),
	plant_id        UUID NOT NULL REFERENCES plants(id),
	water_frequency INT NOT NULL DEFAULT 7,
	sunlight_needs  TEXT NOT NULL DEFAULT 'Medium',
	next_water_date TIMESTAMPTZ NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_plants_user_created ON plants(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_gardens_user_created ON gardens(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_care_schedules_garden ON care_schedules(garden_id);
`

// ApplySchema creates the tables if they do not exist
func ApplySchema(database *db.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := database.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return nil
}
