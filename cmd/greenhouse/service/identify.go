package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sproutly/greenhouse/cmd/greenhouse/extract"
	"github.com/sproutly/greenhouse/cmd/greenhouse/models"
	"github.com/sproutly/greenhouse/cmd/greenhouse/prompt"
	"github.com/sproutly/greenhouse/common/cache"
	"github.com/sproutly/greenhouse/common/logger"
	"github.com/sproutly/greenhouse/common/storage"
)

// VisionOracle is the identification boundary: prompt plus image bytes in,
// free text out. No syntactic guarantees on the response.
type VisionOracle interface {
	GenerateFromImage(ctx context.Context, prompt string, imageJPEG []byte) (string, error)
}

// PlantStore is the persistence surface the identification pipeline needs
type PlantStore interface {
	Create(ctx context.Context, plant *models.Plant) error
	GetByID(ctx context.Context, userID, plantID uuid.UUID) (*models.Plant, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Plant, error)
}

// IdentifyService runs the identification pipeline: store the image, ask the
// oracle, recover a structured record, persist the plant row.
type IdentifyService struct {
	oracle   VisionOracle
	plants   PlantStore
	blobs    storage.Store
	cache    cache.Cache
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewIdentifyService creates a new identification service.
// cache may be nil to disable oracle-result caching.
func NewIdentifyService(oracle VisionOracle, plants PlantStore, blobs storage.Store, resultCache cache.Cache, cacheTTL time.Duration, log *logger.Logger) *IdentifyService {
	return &IdentifyService{
		oracle:   oracle,
		plants:   plants,
		blobs:    blobs,
		cache:    resultCache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Identify runs the full pipeline for one uploaded image and returns the
// persisted plant record. No stage is retried; a failure at any point
// surfaces to the caller.
func (s *IdentifyService) Identify(ctx context.Context, userID uuid.UUID, filename string, image []byte) (*models.Plant, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("image is empty")
	}

	imageURL, err := s.blobs.Save(ctx, filename, image)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	rec, err := s.identification(ctx, image)
	if err != nil {
		return nil, err
	}

	plant := &models.Plant{
		ID:               uuid.New(),
		UserID:           userID,
		Name:             rec.Name,
		Description:      rec.Description,
		CareInstructions: rec.CareInstructions,
		ImageURL:         imageURL,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.plants.Create(ctx, plant); err != nil {
		return nil, fmt.Errorf("failed to insert plant: %w", err)
	}

	s.log.Info("plant identified",
		"plant_id", plant.ID,
		"user_id", userID,
		"name", plant.Name,
	)

	return plant, nil
}

// GetPlant returns one of the user's identified plants
func (s *IdentifyService) GetPlant(ctx context.Context, userID, plantID uuid.UUID) (*models.Plant, error) {
	return s.plants.GetByID(ctx, userID, plantID)
}

// ListPlants returns the user's identified plants, newest first
func (s *IdentifyService) ListPlants(ctx context.Context, userID uuid.UUID) ([]models.Plant, error) {
	return s.plants.ListByUser(ctx, userID)
}

// identification asks the oracle about the image, consulting the result
// cache first. Identical bytes always yield the same record, so cache hits
// skip the oracle call entirely.
func (s *IdentifyService) identification(ctx context.Context, image []byte) (*models.PlantIdentification, error) {
	sum := sha256.Sum256(image)
	cacheKey := "identify:" + hex.EncodeToString(sum[:])

	if s.cache != nil {
		if data, found, err := s.cache.Get(ctx, cacheKey); err == nil && found {
			var rec models.PlantIdentification
			if err := json.Unmarshal(data, &rec); err == nil {
				s.log.Debug("identification cache hit", "key", cacheKey)
				return &rec, nil
			}
		}
	}

	text, err := s.oracle.GenerateFromImage(ctx, prompt.Identify(), image)
	if err != nil {
		return nil, fmt.Errorf("identification oracle failed: %w", err)
	}

	rec, err := extract.Identification(text)
	if err != nil {
		s.log.Error("extraction failed", "error", err)
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(rec); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, s.cacheTTL); err != nil {
				s.log.Warn("failed to cache identification", "error", err)
			}
		}
	}

	return rec, nil
}
