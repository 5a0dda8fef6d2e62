package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sproutly/greenhouse/cmd/greenhouse/models"
	"github.com/sproutly/greenhouse/common/logger"
)

const (
	defaultWaterFrequencyDays = 7
	defaultSunlightNeeds      = "Medium"
)

// GardenStore is the persistence surface the garden workflows need. Both
// two-row workflows are atomic at the store level.
type GardenStore interface {
	CreateWithSchedule(ctx context.Context, garden *models.Garden, schedule *models.CareSchedule) error
	DeleteWithSchedule(ctx context.Context, userID, gardenID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.GardenPlant, error)
	GetByID(ctx context.Context, userID, gardenID uuid.UUID) (*models.Garden, error)
	MarkWatered(ctx context.Context, userID, gardenID uuid.UUID) (*models.CareSchedule, error)
	UpdateSchedule(ctx context.Context, userID, gardenID uuid.UUID, waterFrequency *int, sunlightNeeds *string) (*models.CareSchedule, error)
}

// GardenService handles garden memberships and care schedules
type GardenService struct {
	store GardenStore
	log   *logger.Logger
}

// NewGardenService creates a new garden service
func NewGardenService(store GardenStore, log *logger.Logger) *GardenService {
	return &GardenService{
		store: store,
		log:   log,
	}
}

// Add creates a membership and its default care schedule. The plant id is
// not validated locally; a dangling reference is rejected by the store's
// referential-integrity check.
func (s *GardenService) Add(ctx context.Context, userID, plantID uuid.UUID, nickname *string) (*models.Garden, error) {
	now := time.Now().UTC()

	garden := &models.Garden{
		ID:        uuid.New(),
		UserID:    userID,
		PlantID:   plantID,
		Nickname:  nickname,
		CreatedAt: now,
	}

	schedule := &models.CareSchedule{
		ID:             uuid.New(),
		GardenID:       garden.ID,
		PlantID:        plantID,
		WaterFrequency: defaultWaterFrequencyDays,
		SunlightNeeds:  defaultSunlightNeeds,
		NextWaterDate:  now.Add(defaultWaterFrequencyDays * 24 * time.Hour),
		CreatedAt:      now,
	}

	if err := s.store.CreateWithSchedule(ctx, garden, schedule); err != nil {
		return nil, err
	}

	s.log.Info("added to garden",
		"garden_id", garden.ID,
		"user_id", userID,
		"plant_id", plantID,
	)

	return garden, nil
}

// Remove deletes a membership and its schedule
func (s *GardenService) Remove(ctx context.Context, userID, gardenID uuid.UUID) error {
	if err := s.store.DeleteWithSchedule(ctx, userID, gardenID); err != nil {
		return err
	}

	s.log.Info("removed from garden", "garden_id", gardenID, "user_id", userID)
	return nil
}

// List returns the user's garden, newest first
func (s *GardenService) List(ctx context.Context, userID uuid.UUID) ([]models.GardenPlant, error) {
	return s.store.ListByUser(ctx, userID)
}

// MarkWatered records a watering: next_water_date moves forward by the
// schedule's own frequency from now
func (s *GardenService) MarkWatered(ctx context.Context, userID, gardenID uuid.UUID) (*models.CareSchedule, error) {
	schedule, err := s.store.MarkWatered(ctx, userID, gardenID)
	if err != nil {
		return nil, err
	}

	s.log.Info("plant watered",
		"garden_id", gardenID,
		"next_water_date", schedule.NextWaterDate,
	)

	return schedule, nil
}

// UpdateSchedule changes watering frequency and/or sunlight needs
func (s *GardenService) UpdateSchedule(ctx context.Context, userID, gardenID uuid.UUID, waterFrequency *int, sunlightNeeds *string) (*models.CareSchedule, error) {
	if waterFrequency != nil && *waterFrequency < 1 {
		return nil, fmt.Errorf("%w: water frequency must be at least 1 day", ErrInvalidInput)
	}
	if sunlightNeeds != nil && *sunlightNeeds == "" {
		return nil, fmt.Errorf("%w: sunlight needs cannot be empty", ErrInvalidInput)
	}

	return s.store.UpdateSchedule(ctx, userID, gardenID, waterFrequency, sunlightNeeds)
}
