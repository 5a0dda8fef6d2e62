package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sproutly/greenhouse/cmd/greenhouse/extract"
	"github.com/sproutly/greenhouse/cmd/greenhouse/models"
	"github.com/sproutly/greenhouse/cmd/greenhouse/repository"
	"github.com/sproutly/greenhouse/common/cache"
)

type fakeVisionOracle struct {
	response string
	err      error
	calls    int
}

func (f *fakeVisionOracle) GenerateFromImage(ctx context.Context, prompt string, imageJPEG []byte) (string, error) {
	f.calls++
	return f.response, f.err
}

type fakePlantStore struct {
	plants map[uuid.UUID]*models.Plant
}

func newFakePlantStore() *fakePlantStore {
	return &fakePlantStore{plants: make(map[uuid.UUID]*models.Plant)}
}

func (f *fakePlantStore) Create(ctx context.Context, plant *models.Plant) error {
	f.plants[plant.ID] = plant
	return nil
}

func (f *fakePlantStore) GetByID(ctx context.Context, userID, plantID uuid.UUID) (*models.Plant, error) {
	plant, ok := f.plants[plantID]
	if !ok || plant.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return plant, nil
}

func (f *fakePlantStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Plant, error) {
	var out []models.Plant
	for _, plant := range f.plants {
		if plant.UserID == userID {
			out = append(out, *plant)
		}
	}
	return out, nil
}

type fakeBlobStore struct {
	saved int
	fail  error
}

func (f *fakeBlobStore) Save(ctx context.Context, originalName string, data []byte) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	f.saved++
	return "http://localhost/uploads/" + originalName, nil
}

const monsteraResponse = `{"name":"Monstera Deliciosa","summary":"A tropical climber.","description":"Large split leaves.","careInstructions":"Water: weekly. Light: bright indirect."}`

func TestIdentify_PersistsExtractedRecord(t *testing.T) {
	oracle := &fakeVisionOracle{response: monsteraResponse}
	plants := newFakePlantStore()
	blobs := &fakeBlobStore{}
	svc := NewIdentifyService(oracle, plants, blobs, nil, 0, testLogger())

	userID := uuid.New()
	plant, err := svc.Identify(context.Background(), userID, "leaf.jpg", []byte("jpeg-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "Monstera Deliciosa", plant.Name)
	assert.Equal(t, "Large split leaves.", plant.Description)
	assert.Equal(t, "Water: weekly. Light: bright indirect.", plant.CareInstructions)
	assert.Equal(t, "http://localhost/uploads/leaf.jpg", plant.ImageURL)
	assert.Equal(t, userID, plant.UserID)
	assert.Equal(t, 1, blobs.saved)

	stored, err := svc.GetPlant(context.Background(), userID, plant.ID)
	require.NoError(t, err)
	assert.Equal(t, plant.ID, stored.ID)
}

func TestIdentify_EmptyImage(t *testing.T) {
	svc := NewIdentifyService(&fakeVisionOracle{}, newFakePlantStore(), &fakeBlobStore{}, nil, 0, testLogger())

	_, err := svc.Identify(context.Background(), uuid.New(), "leaf.jpg", nil)
	assert.Error(t, err)
}

func TestIdentify_ExtractionFailureCreatesNoPlant(t *testing.T) {
	oracle := &fakeVisionOracle{response: "I could not identify this plant, sorry."}
	plants := newFakePlantStore()
	svc := NewIdentifyService(oracle, plants, &fakeBlobStore{}, nil, 0, testLogger())

	_, err := svc.Identify(context.Background(), uuid.New(), "leaf.jpg", []byte("jpeg-bytes"))
	require.Error(t, err)

	var extractErr *extract.Error
	assert.ErrorAs(t, err, &extractErr)
	assert.Empty(t, plants.plants)
}

func TestIdentify_OracleFailure(t *testing.T) {
	oracle := &fakeVisionOracle{err: assert.AnError}
	svc := NewIdentifyService(oracle, newFakePlantStore(), &fakeBlobStore{}, nil, 0, testLogger())

	_, err := svc.Identify(context.Background(), uuid.New(), "leaf.jpg", []byte("jpeg-bytes"))
	assert.Error(t, err)
}

func TestIdentify_BlobFailureSkipsOracle(t *testing.T) {
	oracle := &fakeVisionOracle{response: monsteraResponse}
	blobs := &fakeBlobStore{fail: assert.AnError}
	svc := NewIdentifyService(oracle, newFakePlantStore(), blobs, nil, 0, testLogger())

	_, err := svc.Identify(context.Background(), uuid.New(), "leaf.jpg", []byte("jpeg-bytes"))
	require.Error(t, err)
	assert.Equal(t, 0, oracle.calls)
}

func TestIdentify_CacheSkipsRepeatOracleCalls(t *testing.T) {
	oracle := &fakeVisionOracle{response: monsteraResponse}
	resultCache := cache.NewMemoryCache(testLogger())
	defer resultCache.Close()

	svc := NewIdentifyService(oracle, newFakePlantStore(), &fakeBlobStore{}, resultCache, time.Minute, testLogger())

	userID := uuid.New()
	image := []byte("same-jpeg-bytes")

	first, err := svc.Identify(context.Background(), userID, "a.jpg", image)
	require.NoError(t, err)

	second, err := svc.Identify(context.Background(), userID, "b.jpg", image)
	require.NoError(t, err)

	assert.Equal(t, 1, oracle.calls)
	assert.Equal(t, first.Name, second.Name)
	assert.NotEqual(t, first.ID, second.ID)
}
