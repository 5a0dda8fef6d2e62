package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sproutly/greenhouse/cmd/greenhouse/container"
	"github.com/sproutly/greenhouse/cmd/greenhouse/middleware"
	"github.com/sproutly/greenhouse/cmd/greenhouse/models"
	"github.com/sproutly/greenhouse/cmd/greenhouse/repository"
	"github.com/sproutly/greenhouse/cmd/greenhouse/service"
)

type staticVisionOracle struct {
	response string
	err      error
}

func (o *staticVisionOracle) GenerateFromImage(ctx context.Context, prompt string, imageJPEG []byte) (string, error) {
	return o.response, o.err
}

type memPlantStore struct {
	plants map[uuid.UUID]*models.Plant
}

func newMemPlantStore() *memPlantStore {
	return &memPlantStore{plants: make(map[uuid.UUID]*models.Plant)}
}

func (m *memPlantStore) Create(ctx context.Context, plant *models.Plant) error {
	m.plants[plant.ID] = plant
	return nil
}

func (m *memPlantStore) GetByID(ctx context.Context, userID, plantID uuid.UUID) (*models.Plant, error) {
	plant, ok := m.plants[plantID]
	if !ok || plant.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return plant, nil
}

func (m *memPlantStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Plant, error) {
	var out []models.Plant
	for _, plant := range m.plants {
		if plant.UserID == userID {
			out = append(out, *plant)
		}
	}
	return out, nil
}

type memBlobStore struct{}

func (memBlobStore) Save(ctx context.Context, originalName string, data []byte) (string, error) {
	return "http://localhost/uploads/" + originalName, nil
}

const aloeResponse = `{"name":"Aloe Vera","summary":"A hardy succulent.","description":"Thick fleshy leaves.","careInstructions":"Water: every two weeks. Light: full sun."}`

func newPlantTestHandler(oracle service.VisionOracle, plants service.PlantStore) *PlantHandler {
	components := testComponents()
	return NewPlantHandler(&container.Container{
		Components:      components,
		IdentifyService: service.NewIdentifyService(oracle, plants, memBlobStore{}, nil, 0, components.Logger),
	})
}

func multipartImageRequest(t *testing.T, fieldName, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plants", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func identifyUpload(t *testing.T, h *PlantHandler, req *http.Request, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(string(middleware.UserIDKey), userID)

	require.NoError(t, h.Identify(c))
	return rec
}

func TestPlantHandler_IdentifyReturnsDataEnvelope(t *testing.T) {
	plants := newMemPlantStore()
	h := newPlantTestHandler(&staticVisionOracle{response: aloeResponse}, plants)

	userID := uuid.New()
	req := multipartImageRequest(t, "image", "aloe.jpg", []byte("jpeg-bytes"))
	rec := identifyUpload(t, h, req, userID)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data models.Plant `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Aloe Vera", resp.Data.Name)
	assert.Equal(t, "Thick fleshy leaves.", resp.Data.Description)
	assert.Equal(t, "Water: every two weeks. Light: full sun.", resp.Data.CareInstructions)
	assert.Equal(t, "http://localhost/uploads/aloe.jpg", resp.Data.ImageURL)
	assert.Equal(t, userID, resp.Data.UserID)

	require.Len(t, plants.plants, 1)
}

func TestPlantHandler_IdentifyMissingImageField(t *testing.T) {
	h := newPlantTestHandler(&staticVisionOracle{response: aloeResponse}, newMemPlantStore())

	// "photo" is not the field the endpoint reads
	req := multipartImageRequest(t, "photo", "aloe.jpg", []byte("jpeg-bytes"))
	rec := identifyUpload(t, h, req, uuid.New())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestPlantHandler_IdentifyNonMultipartBody(t *testing.T) {
	h := newPlantTestHandler(&staticVisionOracle{response: aloeResponse}, newMemPlantStore())

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plants", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(string(middleware.UserIDKey), uuid.New())

	require.NoError(t, h.Identify(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlantHandler_IdentifyOracleFailureReturns500(t *testing.T) {
	plants := newMemPlantStore()
	h := newPlantTestHandler(&staticVisionOracle{err: assert.AnError}, plants)

	req := multipartImageRequest(t, "image", "aloe.jpg", []byte("jpeg-bytes"))
	rec := identifyUpload(t, h, req, uuid.New())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
	assert.Empty(t, plants.plants)
}

func TestPlantHandler_IdentifyUnparseableResponseReturns500(t *testing.T) {
	// Extraction and persistence failures share the same status code
	h := newPlantTestHandler(&staticVisionOracle{response: "I cannot tell what plant this is."}, newMemPlantStore())

	req := multipartImageRequest(t, "image", "aloe.jpg", []byte("jpeg-bytes"))
	rec := identifyUpload(t, h, req, uuid.New())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}
