package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sproutly/greenhouse/cmd/greenhouse/models"
	"github.com/sproutly/greenhouse/common/db"
)

// GardenRepository handles database operations for garden memberships and
// their care schedules. The two-row workflows run inside one transaction so
// a failure can never leave an orphaned membership or a schedule-less row.
type GardenRepository struct {
	db *db.DB
}

// NewGardenRepository creates a new garden repository
func NewGardenRepository(db *db.DB) *GardenRepository {
	return &GardenRepository{db: db}
}

// CreateWithSchedule inserts a membership and its care schedule atomically.
// Creation order is membership then schedule to satisfy the foreign key.
func (r *GardenRepository) CreateWithSchedule(ctx context.Context, garden *models.Garden, schedule *models.CareSchedule) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	gardenQuery := `
		INSERT INTO gardens (id, user_id, plant_id, nickname, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, gardenQuery,
		garden.ID,
		garden.UserID,
		garden.PlantID,
		garden.Nickname,
		garden.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to add to garden: %w", err)
	}

	scheduleQuery := `
		INSERT INTO care_schedules (id, garden_id, plant_id, water_frequency, sunlight_needs, next_water_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := tx.Exec(ctx, scheduleQuery,
		schedule.ID,
		schedule.GardenID,
		schedule.PlantID,
		schedule.WaterFrequency,
		schedule.SunlightNeeds,
		schedule.NextWaterDate,
		schedule.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create care schedule: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit garden creation: %w", err)
	}

	return nil
}

// DeleteWithSchedule removes a membership and its schedule atomically.
// Deletion order is schedule then membership to satisfy the foreign key;
// a missing schedule is not an error.
func (r *GardenRepository) DeleteWithSchedule(ctx context.Context, userID, gardenID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM care_schedules WHERE garden_id = $1`,
		gardenID,
	); err != nil {
		return fmt.Errorf("failed to delete care schedule: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM gardens WHERE id = $1 AND user_id = $2`,
		gardenID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete garden entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit garden removal: %w", err)
	}

	return nil
}

// ListByUser retrieves the user's memberships joined with plant and schedule,
// ordered by creation time descending. No pagination: garden sizes are small.
func (r *GardenRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.GardenPlant, error) {
	query := `
		SELECT g.id, g.user_id, g.plant_id, g.nickname, g.created_at,
		       p.id, p.user_id, p.name, p.description, p.care_instructions, p.image_url, p.created_at,
		       cs.id, cs.garden_id, cs.plant_id, cs.water_frequency, cs.sunlight_needs, cs.next_water_date, cs.created_at
		FROM gardens g
		JOIN plants p ON p.id = g.plant_id
		JOIN care_schedules cs ON cs.garden_id = g.id
		WHERE g.user_id = $1
		ORDER BY g.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list garden: %w", err)
	}
	defer rows.Close()

	entries := make([]models.GardenPlant, 0)
	for rows.Next() {
		var entry models.GardenPlant
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.PlantID, &entry.Nickname, &entry.CreatedAt,
			&entry.Plant.ID, &entry.Plant.UserID, &entry.Plant.Name, &entry.Plant.Description,
			&entry.Plant.CareInstructions, &entry.Plant.ImageURL, &entry.Plant.CreatedAt,
			&entry.CareSchedule.ID, &entry.CareSchedule.GardenID, &entry.CareSchedule.PlantID,
			&entry.CareSchedule.WaterFrequency, &entry.CareSchedule.SunlightNeeds,
			&entry.CareSchedule.NextWaterDate, &entry.CareSchedule.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan garden entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate garden entries: %w", err)
	}

	return entries, nil
}

// GetByID retrieves a membership owned by the given user
func (r *GardenRepository) GetByID(ctx context.Context, userID, gardenID uuid.UUID) (*models.Garden, error) {
	query := `
		SELECT id, user_id, plant_id, nickname, created_at
		FROM gardens
		WHERE id = $1 AND user_id = $2
	`

	garden := &models.Garden{}
	err := r.db.QueryRow(ctx, query, gardenID, userID).Scan(
		&garden.ID,
		&garden.UserID,
		&garden.PlantID,
		&garden.Nickname,
		&garden.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get garden entry: %w", err)
	}

	return garden, nil
}

// MarkWatered advances next_water_date by the row's own frequency from now
func (r *GardenRepository) MarkWatered(ctx context.Context, userID, gardenID uuid.UUID) (*models.CareSchedule, error) {
	query := `
		UPDATE care_schedules cs
		SET next_water_date = NOW() + make_interval(days => cs.water_frequency)
		FROM gardens g
		WHERE cs.garden_id = g.id AND g.id = $1 AND g.user_id = $2
		RETURNING cs.id, cs.garden_id, cs.plant_id, cs.water_frequency, cs.sunlight_needs, cs.next_water_date, cs.created_at
	`

	schedule := &models.CareSchedule{}
	err := r.db.QueryRow(ctx, query, gardenID, userID).Scan(
		&schedule.ID,
		&schedule.GardenID,
		&schedule.PlantID,
		&schedule.WaterFrequency,
		&schedule.SunlightNeeds,
		&schedule.NextWaterDate,
		&schedule.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark watered: %w", err)
	}

	return schedule, nil
}

// UpdateSchedule changes the watering frequency and/or sunlight needs.
// Nil fields are left unchanged; a frequency change recomputes the next
// watering date from the schedule's creation cadence anchor (now).
func (r *GardenRepository) UpdateSchedule(ctx context.Context, userID, gardenID uuid.UUID, waterFrequency *int, sunlightNeeds *string) (*models.CareSchedule, error) {
	query := `
		UPDATE care_schedules cs
		SET water_frequency = COALESCE($3, cs.water_frequency),
		    sunlight_needs  = COALESCE($4, cs.sunlight_needs),
		    next_water_date = CASE
		        WHEN $3::int IS NULL THEN cs.next_water_date
		        ELSE NOW() + make_interval(days => $3::int)
		    END
		FROM gardens g
		WHERE cs.garden_id = g.id AND g.id = $1 AND g.user_id = $2
		RETURNING cs.id, cs.garden_id, cs.plant_id, cs.water_frequency, cs.sunlight_needs, cs.next_water_date, cs.created_at
	`

	schedule := &models.CareSchedule{}
	err := r.db.QueryRow(ctx, query, gardenID, userID, waterFrequency, sunlightNeeds).Scan(
		&schedule.ID,
		&schedule.GardenID,
		&schedule.PlantID,
		&schedule.WaterFrequency,
		&schedule.SunlightNeeds,
		&schedule.NextWaterDate,
		&schedule.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update care schedule: %w", err)
	}

	return schedule, nil
}
