package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sproutly/greenhouse/cmd/greenhouse/models"
	"github.com/sproutly/greenhouse/common/logger"
)

// fakeGardenStore is an in-memory GardenStore. Create/delete are atomic the
// same way the real store is: either both rows change or neither does.
type fakeGardenStore struct {
	gardens   map[uuid.UUID]*models.Garden
	schedules map[uuid.UUID]*models.CareSchedule // keyed by garden id
	plants    map[uuid.UUID]*models.Plant
	failNext  error
}

func newFakeGardenStore() *fakeGardenStore {
	return &fakeGardenStore{
		gardens:   make(map[uuid.UUID]*models.Garden),
		schedules: make(map[uuid.UUID]*models.CareSchedule),
		plants:    make(map[uuid.UUID]*models.Plant),
	}
}

func (f *fakeGardenStore) CreateWithSchedule(ctx context.Context, garden *models.Garden, schedule *models.CareSchedule) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.gardens[garden.ID] = garden
	f.schedules[garden.ID] = schedule
	return nil
}

func (f *fakeGardenStore) DeleteWithSchedule(ctx context.Context, userID, gardenID uuid.UUID) error {
	garden, ok := f.gardens[gardenID]
	if !ok || garden.UserID != userID {
		return ErrNotFound
	}
	delete(f.schedules, gardenID) // missing schedule is fine
	delete(f.gardens, gardenID)
	return nil
}

func (f *fakeGardenStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.GardenPlant, error) {
	entries := make([]models.GardenPlant, 0)
	for id, garden := range f.gardens {
		if garden.UserID != userID {
			continue
		}
		entry := models.GardenPlant{Garden: *garden}
		if schedule, ok := f.schedules[id]; ok {
			entry.CareSchedule = *schedule
		}
		if plant, ok := f.plants[garden.PlantID]; ok {
			entry.Plant = *plant
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

func (f *fakeGardenStore) GetByID(ctx context.Context, userID, gardenID uuid.UUID) (*models.Garden, error) {
	garden, ok := f.gardens[gardenID]
	if !ok || garden.UserID != userID {
		return nil, ErrNotFound
	}
	return garden, nil
}

func (f *fakeGardenStore) MarkWatered(ctx context.Context, userID, gardenID uuid.UUID) (*models.CareSchedule, error) {
	garden, ok := f.gardens[gardenID]
	if !ok || garden.UserID != userID {
		return nil, ErrNotFound
	}
	schedule, ok := f.schedules[gardenID]
	if !ok {
		return nil, ErrNotFound
	}
	schedule.NextWaterDate = time.Now().UTC().Add(time.Duration(schedule.WaterFrequency) * 24 * time.Hour)
	return schedule, nil
}

func (f *fakeGardenStore) UpdateSchedule(ctx context.Context, userID, gardenID uuid.UUID, waterFrequency *int, sunlightNeeds *string) (*models.CareSchedule, error) {
	garden, ok := f.gardens[gardenID]
	if !ok || garden.UserID != userID {
		return nil, ErrNotFound
	}
	schedule, ok := f.schedules[gardenID]
	if !ok {
		return nil, ErrNotFound
	}
	if waterFrequency != nil {
		schedule.WaterFrequency = *waterFrequency
		schedule.NextWaterDate = time.Now().UTC().Add(time.Duration(*waterFrequency) * 24 * time.Hour)
	}
	if sunlightNeeds != nil {
		schedule.SunlightNeeds = *sunlightNeeds
	}
	return schedule, nil
}

func testLogger() *logger.Logger {
	return logger.New("error", "json")
}

func TestGardenAdd_CreatesMembershipAndSchedule(t *testing.T) {
	store := newFakeGardenStore()
	svc := NewGardenService(store, testLogger())

	userID := uuid.New()
	plantID := uuid.New()
	nickname := "Monty"

	garden, err := svc.Add(context.Background(), userID, plantID, &nickname)
	require.NoError(t, err)

	assert.Equal(t, userID, garden.UserID)
	assert.Equal(t, plantID, garden.PlantID)
	require.NotNil(t, garden.Nickname)
	assert.Equal(t, "Monty", *garden.Nickname)

	schedule, ok := store.schedules[garden.ID]
	require.True(t, ok, "care schedule must be created with the membership")
	assert.Equal(t, garden.ID, schedule.GardenID)
	assert.Equal(t, plantID, schedule.PlantID)
	assert.Equal(t, 7, schedule.WaterFrequency)
	assert.Equal(t, "Medium", schedule.SunlightNeeds)
	assert.WithinDuration(t, garden.CreatedAt.Add(7*24*time.Hour), schedule.NextWaterDate, time.Second)
}

func TestGardenAdd_StoreFailureCreatesNothing(t *testing.T) {
	store := newFakeGardenStore()
	store.failNext = assert.AnError
	svc := NewGardenService(store, testLogger())

	_, err := svc.Add(context.Background(), uuid.New(), uuid.New(), nil)
	require.Error(t, err)
	assert.Empty(t, store.gardens)
	assert.Empty(t, store.schedules)
}

func TestGardenRemove_DeletesBothRows(t *testing.T) {
	store := newFakeGardenStore()
	svc := NewGardenService(store, testLogger())

	userID := uuid.New()
	garden, err := svc.Add(context.Background(), userID, uuid.New(), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), userID, garden.ID))

	entries, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotEqual(t, garden.ID, entry.ID)
	}
	assert.Empty(t, store.schedules)
}

func TestGardenRemove_ScheduleAlreadyGone(t *testing.T) {
	store := newFakeGardenStore()
	svc := NewGardenService(store, testLogger())

	userID := uuid.New()
	garden, err := svc.Add(context.Background(), userID, uuid.New(), nil)
	require.NoError(t, err)

	// Schedule vanished out-of-band; removal still succeeds
	delete(store.schedules, garden.ID)
	require.NoError(t, svc.Remove(context.Background(), userID, garden.ID))
}

func TestGardenRemove_WrongUser(t *testing.T) {
	store := newFakeGardenStore()
	svc := NewGardenService(store, testLogger())

	garden, err := svc.Add(context.Background(), uuid.New(), uuid.New(), nil)
	require.NoError(t, err)

	err = svc.Remove(context.Background(), uuid.New(), garden.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGardenList_NewestFirst(t *testing.T) {
	store := newFakeGardenStore()
	svc := NewGardenService(store, testLogger())

	userID := uuid.New()
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		garden, err := svc.Add(context.Background(), userID, uuid.New(), nil)
		require.NoError(t, err)
		ids = append(ids, garden.ID)
		time.Sleep(2 * time.Millisecond)
	}

	entries, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Most recently added first
	assert.Equal(t, ids[2], entries[0].ID)
	assert.Equal(t, ids[1], entries[1].ID)
	assert.Equal(t, ids[0], entries[2].ID)
}

func TestGardenMarkWatered_AdvancesByFrequency(t *testing.T) {
	store := newFakeGardenStore()
	svc := NewGardenService(store, testLogger())

	userID := uuid.New()
	garden, err := svc.Add(context.Background(), userID, uuid.New(), nil)
	require.NoError(t, err)

	freq := 3
	_, err = svc.UpdateSchedule(context.Background(), userID, garden.ID, &freq, nil)
	require.NoError(t, err)

	schedule, err := svc.MarkWatered(context.Background(), userID, garden.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(3*24*time.Hour), schedule.NextWaterDate, time.Second)
}

func TestGardenUpdateSchedule_RejectsBadInput(t *testing.T) {
	store := newFakeGardenStore()
	svc := NewGardenService(store, testLogger())

	userID := uuid.New()
	garden, err := svc.Add(context.Background(), userID, uuid.New(), nil)
	require.NoError(t, err)

	zero := 0
	_, err = svc.UpdateSchedule(context.Background(), userID, garden.ID, &zero, nil)
	assert.Error(t, err)

	empty := ""
	_, err = svc.UpdateSchedule(context.Background(), userID, garden.ID, nil, &empty)
	assert.Error(t, err)
}
