package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sproutly/greenhouse/cmd/greenhouse/models"
	"github.com/sproutly/greenhouse/cmd/greenhouse/repository"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*models.User),
		byID:    make(map[uuid.UUID]*models.User),
	}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

type fakeSessionStore struct {
	values map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{values: make(map[string]string)}
}

func (f *fakeSessionStore) Put(ctx context.Context, token, userID string, ttl time.Duration) error {
	f.values[token] = userID
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, token string) (string, error) {
	userID, ok := f.values[token]
	if !ok {
		return "", ErrNotAuthenticated
	}
	return userID, nil
}

func (f *fakeSessionStore) Refresh(ctx context.Context, token string, ttl time.Duration) error {
	return nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, token string) error {
	delete(f.values, token)
	return nil
}

func newTestAuthService() (*AuthService, *fakeUserStore, *fakeSessionStore) {
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	return NewAuthService(users, sessions, time.Hour, testLogger()), users, sessions
}

func TestSignup_NormalizesEmail(t *testing.T) {
	svc, users, _ := newTestAuthService()

	user, err := svc.Signup(context.Background(), "  Fern@Example.COM ", "hunter2hunter2", "Fern")
	require.NoError(t, err)
	assert.Equal(t, "fern@example.com", user.Email)

	_, ok := users.byEmail["fern@example.com"]
	assert.True(t, ok)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Signup(context.Background(), "fern@example.com", "hunter2hunter2", "Fern")
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "FERN@example.com", "different-pass", "Other")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _, sessions := newTestAuthService()

	created, err := svc.Signup(context.Background(), "fern@example.com", "hunter2hunter2", "Fern")
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "fern@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, created.ID.String(), sessions.values[token])
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Signup(context.Background(), "fern@example.com", "hunter2hunter2", "Fern")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "fern@example.com", "not-the-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolve_ReturnsSessionUser(t *testing.T) {
	svc, _, _ := newTestAuthService()

	created, err := svc.Signup(context.Background(), "fern@example.com", "hunter2hunter2", "Fern")
	require.NoError(t, err)

	token, _, err := svc.Login(context.Background(), "fern@example.com", "hunter2hunter2")
	require.NoError(t, err)

	user, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestResolve_EmptyAndUnknownTokens(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.Resolve(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestResolve_DeletedAccount(t *testing.T) {
	svc, users, _ := newTestAuthService()

	created, err := svc.Signup(context.Background(), "fern@example.com", "hunter2hunter2", "Fern")
	require.NoError(t, err)

	token, _, err := svc.Login(context.Background(), "fern@example.com", "hunter2hunter2")
	require.NoError(t, err)

	delete(users.byID, created.ID)

	_, err = svc.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Signup(context.Background(), "fern@example.com", "hunter2hunter2", "Fern")
	require.NoError(t, err)

	token, _, err := svc.Login(context.Background(), "fern@example.com", "hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))

	_, err = svc.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
