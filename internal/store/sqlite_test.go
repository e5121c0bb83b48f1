package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphalever/backend/internal/domain/scoring"
	"github.com/alphalever/backend/internal/domain/user"
	"github.com/alphalever/backend/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustUser(t *testing.T, email, name string) *user.User {
	t.Helper()
	u, err := user.New(email, name)
	require.NoError(t, err)
	return u
}

func TestCreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := mustUser(t, "jake@example.com", "Jake")
	u.IsAdmin = true
	u.Answers = scoring.Answers{
		"max_bench":  225.0,
		"mile_time":  "6.30",
		"activities": map[string]any{"hyrox": true},
	}
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.GetUser(ctx, "JAKE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "jake@example.com", got.Email)
	assert.Equal(t, "Jake", got.Name)
	assert.True(t, got.IsAdmin)
	assert.True(t, u.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, u.Answers, got.Answers)
}

func TestCreateUser_Conflict(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.CreateUser(ctx, mustUser(t, "dup@example.com", "One")))
	err := s.CreateUser(ctx, mustUser(t, "dup@example.com", "Two"))
	assert.True(t, errors.Is(err, store.ErrConflict), "got %v", err)

	got, err := s.GetUser(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, "One", got.Name)
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetUser(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListUsers_RegistrationOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, email := range []string{"c@example.com", "a@example.com", "b@example.com"} {
		u := mustUser(t, email, "")
		u.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		u.UpdatedAt = u.CreatedAt
		require.NoError(t, s.CreateUser(ctx, u))
	}
	// Same timestamp as the last one; insertion order decides.
	late := mustUser(t, "0@example.com", "")
	late.CreatedAt = base.Add(2 * time.Minute)
	late.UpdatedAt = late.CreatedAt
	require.NoError(t, s.CreateUser(ctx, late))

	users, err = s.ListUsers(ctx)
	require.NoError(t, err)
	var emails []string
	for _, u := range users {
		emails = append(emails, u.Email)
	}
	assert.Equal(t, []string{"c@example.com", "a@example.com", "b@example.com", "0@example.com"}, emails)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.CreateUser(ctx, mustUser(t, "jake@example.com", "Jake")))

	updated, err := s.UpdateUser(ctx, "jake@example.com", func(u *user.User) error {
		u.Name = "Jacob"
		u.SetAnswer("max_squat", 405.0)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Jacob", updated.Name)

	got, err := s.GetUser(ctx, "jake@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jacob", got.Name)
	assert.Equal(t, 405.0, got.Answers["max_squat"])
}

func TestUpdateUser_FnErrorRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.CreateUser(ctx, mustUser(t, "jake@example.com", "Jake")))

	boom := errors.New("boom")
	_, err := s.UpdateUser(ctx, "jake@example.com", func(u *user.User) error {
		u.Name = "Changed"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.GetUser(ctx, "jake@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jake", got.Name)
}

func TestUpdateUser_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.UpdateUser(context.Background(), "ghost@example.com", func(*user.User) error { return nil })
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.CreateUser(ctx, mustUser(t, "jake@example.com", "Jake")))

	require.NoError(t, s.DeleteUser(ctx, "jake@example.com"))
	_, err := s.GetUser(ctx, "jake@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.DeleteUser(ctx, "jake@example.com"), store.ErrNotFound)
}

func TestMigrate_DownAndUp(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	version, err := s.Migrate(store.LatestVersion)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	version, err = s.Migrate(0)
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	_, err = s.ListUsers(ctx)
	assert.Error(t, err, "users table should be gone")

	version, err = s.Migrate(1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	_, err = s.ListUsers(ctx)
	assert.NoError(t, err)
}

func TestOpen_DoesNotMigrate(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "raw.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ListUsers(context.Background())
	assert.Error(t, err)
}
