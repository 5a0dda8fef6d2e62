package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sproutly/greenhouse/cmd/greenhouse/container"
	"github.com/sproutly/greenhouse/cmd/greenhouse/middleware"
	"github.com/sproutly/greenhouse/cmd/greenhouse/service"
	"github.com/sproutly/greenhouse/common/bootstrap"
	"github.com/sproutly/greenhouse/common/config"
	"github.com/sproutly/greenhouse/common/logger"
)

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}
	return e
}

func testComponents() *bootstrap.Components {
	return &bootstrap.Components{
		Config: &config.Config{},
		Logger: logger.New("error", "json"),
	}
}

type staticOracle struct {
	reply string
	err   error
}

func (o *staticOracle) GenerateText(ctx context.Context, prompt string) (string, error) {
	return o.reply, o.err
}

func newChatTestHandler(oracle service.TextOracle) *ChatHandler {
	components := testComponents()
	return NewChatHandler(&container.Container{
		Components:  components,
		ChatService: service.NewChatService(oracle, components.Logger),
	})
}

func postChat(t *testing.T, h *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(string(middleware.UserIDKey), uuid.New())

	require.NoError(t, h.Respond(c))
	return rec
}

func TestChatHandler_ReturnsReplyEnvelope(t *testing.T) {
	h := newChatTestHandler(&staticOracle{reply: "Mist it daily."})

	rec := postChat(t, h, `{"messages":[{"id":"1","role":"user","content":"How do I care for a fern?","timestamp":1}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Reply string `json:"reply"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Mist it daily.", resp.Data.Reply)
}

func TestChatHandler_EmptyMessages(t *testing.T) {
	h := newChatTestHandler(&staticOracle{reply: "unused"})

	rec := postChat(t, h, `{"messages":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestChatHandler_BlankUserMessage(t *testing.T) {
	h := newChatTestHandler(&staticOracle{reply: "unused"})

	rec := postChat(t, h, `{"messages":[{"id":"1","role":"user","content":"  ","timestamp":1}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatHandler_OracleFailure(t *testing.T) {
	h := newChatTestHandler(&staticOracle{err: assert.AnError})

	rec := postChat(t, h, `{"messages":[{"id":"1","role":"user","content":"help","timestamp":1}]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}
