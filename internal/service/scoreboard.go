// internal/service/scoreboard.go
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/alphalever/backend/internal/domain/leaderboard"
	"github.com/alphalever/backend/internal/domain/scoring"
	"github.com/alphalever/backend/internal/domain/user"
	"github.com/alphalever/backend/internal/store"
	"github.com/alphalever/backend/internal/worker"
)

var (
	ErrForbidden     = errors.New("admin code required")
	ErrUnknownFactor = errors.New("unknown factor")
	ErrNotAssessed   = errors.New("factor is self-reported, not admin-assessed")
	ErrInvalidValue  = errors.New("invalid value for factor")
)

// ScoredUser is a stored user together with the score of their answers.
type ScoredUser struct {
	User   *user.User
	Result scoring.Result
}

type Options struct {
	// AdminCode unlocks admin registration and assessments. Empty disables both.
	AdminCode string
	// Workers bounds how many users are scored at once.
	Workers int
}

// Scoreboard is the single path through which users are scored. The API,
// the CLI, the leaderboard and the export all go through it, so every score
// comes from the same configuration and the same engine.
type Scoreboard struct {
	store     store.Store
	cfg       *scoring.Config
	adminCode string
	workers   int
	logger    *slog.Logger

	// listing collapses concurrent full-table scoring runs into one.
	listing singleflight.Group
}

func NewScoreboard(s store.Store, cfg *scoring.Config, opts Options, logger *slog.Logger) *Scoreboard {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Scoreboard{
		store:     s,
		cfg:       cfg,
		adminCode: opts.AdminCode,
		workers:   opts.Workers,
		logger:    logger,
	}
}

// Config returns the active factor configuration.
func (sb *Scoreboard) Config() *scoring.Config {
	return sb.cfg
}

// Preview scores answers without persisting anything.
func (sb *Scoreboard) Preview(answers scoring.Answers) scoring.Result {
	return scoring.Compute(sb.cfg, answers)
}

// IsAdminCode reports whether code matches the configured admin code.
func (sb *Scoreboard) IsAdminCode(code string) bool {
	if sb.adminCode == "" || code == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(sb.adminCode)) == 1
}

// Register creates a user. A matching adminCode marks the user as admin; a
// wrong non-empty code is rejected rather than silently ignored.
func (sb *Scoreboard) Register(ctx context.Context, email, name, adminCode string) (*ScoredUser, error) {
	u, err := user.New(email, name)
	if err != nil {
		return nil, err
	}
	if adminCode != "" {
		if !sb.IsAdminCode(adminCode) {
			return nil, ErrForbidden
		}
		u.IsAdmin = true
	}

	if err := sb.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	sb.logger.Info("user registered", "user_id", u.ID, "admin", u.IsAdmin)
	return sb.score(u), nil
}

func (sb *Scoreboard) GetUser(ctx context.Context, email string) (*ScoredUser, error) {
	u, err := sb.store.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}
	return sb.score(u), nil
}

// ListUsers returns every user in registration order, scored. Concurrent
// callers share one run; the returned slice must not be modified.
func (sb *Scoreboard) ListUsers(ctx context.Context) ([]ScoredUser, error) {
	ch := sb.listing.DoChan("users", func() (any, error) {
		shared := context.WithoutCancel(ctx)
		users, err := sb.store.ListUsers(shared)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		return worker.Map(shared, sb.workers, users, func(u *user.User) ScoredUser {
			return *sb.score(u)
		})
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]ScoredUser), nil
	}
}

// Rename changes a user's display name.
func (sb *Scoreboard) Rename(ctx context.Context, email, name string) (*ScoredUser, error) {
	u, err := sb.store.UpdateUser(ctx, email, func(u *user.User) error {
		u.Rename(name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sb.score(u), nil
}

// SaveAnswers replaces a user's answers. Admin-assessed factors keep their
// stored values whatever the incoming bag contains.
func (sb *Scoreboard) SaveAnswers(ctx context.Context, email string, answers scoring.Answers) (*ScoredUser, error) {
	readOnly := sb.cfg.ReadOnlyIDs()
	u, err := sb.store.UpdateUser(ctx, email, func(u *user.User) error {
		u.ReplaceAnswers(answers, readOnly)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res := sb.score(u)
	sb.logger.Info("answers saved", "user_id", u.ID, "score", res.Result.Score)
	return res, nil
}

// SetAssessment records an admin's value for a read-only factor.
func (sb *Scoreboard) SetAssessment(ctx context.Context, email, factorID, adminCode string, value any) (*ScoredUser, error) {
	if !sb.IsAdminCode(adminCode) {
		return nil, ErrForbidden
	}
	f, ok := sb.cfg.Factor(factorID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFactor, factorID)
	}
	if !f.ReadOnly {
		return nil, fmt.Errorf("%w: %s", ErrNotAssessed, factorID)
	}
	if err := checkAssessment(f, value); err != nil {
		return nil, err
	}

	u, err := sb.store.UpdateUser(ctx, email, func(u *user.User) error {
		u.SetAnswer(factorID, value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sb.logger.Info("assessment recorded", "user_id", u.ID, "factor", factorID)
	return sb.score(u), nil
}

func checkAssessment(f scoring.Factor, value any) error {
	switch f.Kind {
	case scoring.KindNumber:
		var (
			v  float64
			ok bool
		)
		if f.Format == scoring.FormatDuration {
			v, ok = scoring.ParseDuration(value)
		} else {
			v, ok = scoring.ParseNumber(value)
		}
		if !ok || f.Domain == nil || v < f.Domain.Min || v > f.Domain.Max {
			return fmt.Errorf("%w %s: %v", ErrInvalidValue, f.ID, value)
		}
	case scoring.KindSelect:
		v, ok := scoring.ParseSelectValue(value)
		if !ok || v < 0 || v > 100 {
			return fmt.Errorf("%w %s: %v", ErrInvalidValue, f.ID, value)
		}
	}
	return nil
}

func (sb *Scoreboard) DeleteUser(ctx context.Context, email string) error {
	if err := sb.store.DeleteUser(ctx, email); err != nil {
		return err
	}
	sb.logger.Info("user deleted", "email", user.NormalizeEmail(email))
	return nil
}

// Leaderboard ranks every user by score; limit <= 0 returns everyone.
func (sb *Scoreboard) Leaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	scored, err := sb.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]leaderboard.Entry, len(scored))
	for i, s := range scored {
		entries[i] = leaderboard.Entry{
			UserID: s.User.ID,
			Email:  s.User.Email,
			Name:   s.User.DisplayName(),
			Score:  s.Result.Score,
			Tier:   s.Result.Tier,
		}
	}
	return leaderboard.Top(leaderboard.Rank(entries), limit), nil
}

func (sb *Scoreboard) score(u *user.User) *ScoredUser {
	return &ScoredUser{User: u, Result: scoring.Compute(sb.cfg, u.Answers)}
}
