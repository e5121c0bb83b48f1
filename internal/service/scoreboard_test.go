package service_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphalever/backend/internal/domain/scoring"
	"github.com/alphalever/backend/internal/domain/user"
	"github.com/alphalever/backend/internal/service"
	"github.com/alphalever/backend/internal/store"
)

// memStore is an in-memory store.Store for service tests.
type memStore struct {
	mu    sync.Mutex
	order []string
	users map[string]user.User
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]user.User)}
}

func (m *memStore) CreateUser(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return fmt.Errorf("user %s: %w", u.Email, store.ErrConflict)
	}
	m.users[u.Email] = *u
	m.order = append(m.order, u.Email)
	return nil
}

func (m *memStore) GetUser(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[user.NormalizeEmail(email)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) ListUsers(_ context.Context) ([]*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*user.User, 0, len(m.order))
	for _, email := range m.order {
		u := m.users[email]
		out = append(out, &u)
	}
	return out, nil
}

func (m *memStore) UpdateUser(_ context.Context, email string, fn func(*user.User) error) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[user.NormalizeEmail(email)]
	if !ok {
		return nil, store.ErrNotFound
	}
	if err := fn(&u); err != nil {
		return nil, err
	}
	m.users[u.Email] = u
	return &u, nil
}

func (m *memStore) DeleteUser(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = user.NormalizeEmail(email)
	if _, ok := m.users[email]; !ok {
		return store.ErrNotFound
	}
	delete(m.users, email)
	m.order = slices.DeleteFunc(m.order, func(e string) bool { return e == email })
	return nil
}

func (m *memStore) Close() error { return nil }

const adminCode = "let-me-in"

func newScoreboard(t *testing.T) *service.Scoreboard {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.NewScoreboard(newMemStore(), scoring.DefaultConfig(), service.Options{
		AdminCode: adminCode,
		Workers:   3,
	}, logger)
}

func TestPreview(t *testing.T) {
	sb := newScoreboard(t)
	res := sb.Preview(scoring.Answers{"max_bench": 1000})
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, "Getting Started", res.Tier.Name)
	assert.Len(t, res.Breakdown, 37)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	sb := newScoreboard(t)

	su, err := sb.Register(ctx, "Jake@Example.com", "Jake", "")
	require.NoError(t, err)
	assert.Equal(t, "jake@example.com", su.User.Email)
	assert.False(t, su.User.IsAdmin)
	assert.Equal(t, 0, su.Result.Score)

	_, err = sb.Register(ctx, "jake@example.com", "Again", "")
	assert.ErrorIs(t, err, store.ErrConflict)

	_, err = sb.Register(ctx, "not-an-email", "x", "")
	assert.ErrorIs(t, err, user.ErrInvalidEmail)
}

func TestRegister_AdminCode(t *testing.T) {
	ctx := context.Background()
	sb := newScoreboard(t)

	su, err := sb.Register(ctx, "boss@example.com", "Boss", adminCode)
	require.NoError(t, err)
	assert.True(t, su.User.IsAdmin)

	_, err = sb.Register(ctx, "sneaky@example.com", "Sneaky", "guess")
	assert.ErrorIs(t, err, service.ErrForbidden)
	_, err = sb.GetUser(ctx, "sneaky@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestIsAdminCode_EmptyConfigDisablesAdmin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sb := service.NewScoreboard(newMemStore(), scoring.DefaultConfig(), service.Options{}, logger)
	assert.False(t, sb.IsAdminCode(""))
	assert.False(t, sb.IsAdminCode("anything"))
}

func TestSaveAnswers_KeepsReadOnlyFactors(t *testing.T) {
	ctx := context.Background()
	sb := newScoreboard(t)
	_, err := sb.Register(ctx, "jake@example.com", "Jake", "")
	require.NoError(t, err)

	_, err = sb.SetAssessment(ctx, "jake@example.com", "alpha_look", adminCode, 80)
	require.NoError(t, err)

	su, err := sb.SaveAnswers(ctx, "jake@example.com", scoring.Answers{
		"max_bench":  1000,
		"alpha_look": 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 80, su.User.Answers["alpha_look"])
	assert.Equal(t, 1000, su.User.Answers["max_bench"])
	// bench 100*0.12 + alpha_look 80*0.07 = 17.6 -> 17.6/1.196*10
	assert.Equal(t, 147, su.Result.Score)

	su, err = sb.SaveAnswers(ctx, "jake@example.com", scoring.Answers{})
	require.NoError(t, err)
	assert.Equal(t, scoring.Answers{"alpha_look": 80}, su.User.Answers)

	_, err = sb.SaveAnswers(ctx, "ghost@example.com", scoring.Answers{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetAssessment_Rejections(t *testing.T) {
	ctx := context.Background()
	sb := newScoreboard(t)
	_, err := sb.Register(ctx, "jake@example.com", "Jake", "")
	require.NoError(t, err)

	tests := []struct {
		name    string
		factor  string
		code    string
		value   any
		wantErr error
	}{
		{"missing code", "alpha_look", "", 50, service.ErrForbidden},
		{"wrong code", "alpha_look", "nope", 50, service.ErrForbidden},
		{"unknown factor", "charisma", adminCode, 50, service.ErrUnknownFactor},
		{"self-reported factor", "max_bench", adminCode, 50, service.ErrNotAssessed},
		{"out of range", "alpha_look", adminCode, 150, service.ErrInvalidValue},
		{"not a number", "alpha_look", adminCode, "great", service.ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sb.SetAssessment(ctx, "jake@example.com", tt.factor, tt.code, tt.value)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = sb.SetAssessment(ctx, "ghost@example.com", "alpha_look", adminCode, 50)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRenameAndDelete(t *testing.T) {
	ctx := context.Background()
	sb := newScoreboard(t)
	_, err := sb.Register(ctx, "jake@example.com", "Jake", "")
	require.NoError(t, err)

	registered, err := sb.GetUser(ctx, "jake@example.com")
	require.NoError(t, err)

	su, err := sb.Rename(ctx, "jake@example.com", "  Jacob ")
	require.NoError(t, err)
	assert.Equal(t, "Jacob", su.User.Name)
	assert.False(t, su.User.UpdatedAt.Before(registered.User.UpdatedAt))

	stored, err := sb.GetUser(ctx, "jake@example.com")
	require.NoError(t, err)
	assert.Equal(t, su.User.UpdatedAt, stored.User.UpdatedAt)

	require.NoError(t, sb.DeleteUser(ctx, "jake@example.com"))
	assert.ErrorIs(t, sb.DeleteUser(ctx, "jake@example.com"), store.ErrNotFound)
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	sb := newScoreboard(t)

	seed := []struct {
		email string
		bench int
	}{
		{"low@example.com", 100},
		{"high@example.com", 1000},
		{"tie-first@example.com", 500},
		{"tie-second@example.com", 500},
		{"none@example.com", -1},
	}
	for _, s := range seed {
		_, err := sb.Register(ctx, s.email, "", "")
		require.NoError(t, err)
		if s.bench >= 0 {
			_, err = sb.SaveAnswers(ctx, s.email, scoring.Answers{"max_bench": s.bench})
			require.NoError(t, err)
		}
	}

	board, err := sb.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 5)

	var emails []string
	for i, e := range board {
		assert.Equal(t, i+1, e.Rank)
		emails = append(emails, e.Email)
	}
	assert.Equal(t, []string{
		"high@example.com",
		"tie-first@example.com",
		"tie-second@example.com",
		"low@example.com",
		"none@example.com",
	}, emails)
	assert.Equal(t, "none@example.com", board[4].Name, "display name falls back to email")

	top, err := sb.Leaderboard(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)
	assert.Equal(t, "high@example.com", top[0].Email)
}

func TestListUsers_ScoresEveryone(t *testing.T) {
	ctx := context.Background()
	sb := newScoreboard(t)
	for i := range 10 {
		email := fmt.Sprintf("u%d@example.com", i)
		_, err := sb.Register(ctx, email, "", "")
		require.NoError(t, err)
		_, err = sb.SaveAnswers(ctx, email, scoring.Answers{"max_bench": i * 100})
		require.NoError(t, err)
	}

	users, err := sb.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 10)
	for i, su := range users {
		assert.Equal(t, fmt.Sprintf("u%d@example.com", i), su.User.Email)
		want := scoring.Compute(scoring.DefaultConfig(), su.User.Answers)
		assert.Equal(t, want.Score, su.Result.Score)
	}
}

func TestSetAssessment_SelectUsesEngineParsing(t *testing.T) {
	ctx := context.Background()
	cfg := &scoring.Config{Factors: []scoring.Factor{
		{Kind: scoring.KindSelect, ID: "posture", Weight: 1, ReadOnly: true, Options: []scoring.Option{
			{Label: "Upright", Value: 100}, {Label: "Slouched", Value: 25},
		}},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sb := service.NewScoreboard(newMemStore(), cfg, service.Options{AdminCode: adminCode, Workers: 1}, logger)
	_, err := sb.Register(ctx, "jake@example.com", "Jake", "")
	require.NoError(t, err)

	_, err = sb.SetAssessment(ctx, "jake@example.com", "posture", adminCode, "75abc")
	assert.ErrorIs(t, err, service.ErrInvalidValue)
	su, err := sb.GetUser(ctx, "jake@example.com")
	require.NoError(t, err)
	assert.NotContains(t, su.User.Answers, "posture")

	su, err = sb.SetAssessment(ctx, "jake@example.com", "posture", adminCode, "75")
	require.NoError(t, err)
	assert.Equal(t, 750, su.Result.Score)
}
