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

// PlantRepository handles database operations for plant records
type PlantRepository struct {
	db *db.DB
}

// NewPlantRepository creates a new plant repository
func NewPlantRepository(db *db.DB) *PlantRepository {
	return &PlantRepository{db: db}
}

// Create inserts a new plant record
func (r *PlantRepository) Create(ctx context.Context, plant *models.Plant) error {
	query := `
		INSERT INTO plants (id, user_id, name, description, care_instructions, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		plant.ID,
		plant.UserID,
		plant.Name,
		plant.Description,
		plant.CareInstructions,
		plant.ImageURL,
		plant.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert plant: %w", err)
	}

	return nil
}

// GetByID retrieves a plant owned by the given user
func (r *PlantRepository) GetByID(ctx context.Context, userID, plantID uuid.UUID) (*models.Plant, error) {
	query := `
		SELECT id, user_id, name, description, care_instructions, image_url, created_at
		FROM plants
		WHERE id = $1 AND user_id = $2
	`

	plant := &models.Plant{}
	err := r.db.QueryRow(ctx, query, plantID, userID).Scan(
		&plant.ID,
		&plant.UserID,
		&plant.Name,
		&plant.Description,
		&plant.CareInstructions,
		&plant.ImageURL,
		&plant.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plant: %w", err)
	}

	return plant, nil
}

// ListByUser retrieves all plants identified by the user, newest first
func (r *PlantRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Plant, error) {
	query := `
		SELECT id, user_id, name, description, care_instructions, image_url, created_at
		FROM plants
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plants: %w", err)
	}
	defer rows.Close()

	plants := make([]models.Plant, 0)
	for rows.Next() {
		var plant models.Plant
		if err := rows.Scan(
			&plant.ID,
			&plant.UserID,
			&plant.Name,
			&plant.Description,
			&plant.CareInstructions,
			&plant.ImageURL,
			&plant.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan plant: %w", err)
		}
		plants = append(plants, plant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plants: %w", err)
	}

	return plants, nil
}
