package user

import (
	"errors"
	"maps"
	"net/mail"
	"strings"
	"time"

	"github.com/alphalever/backend/internal/domain/scoring"
	"github.com/alphalever/backend/internal/id"
)

var ErrInvalidEmail = errors.New("invalid email address")

// User is a registered participant and the answers they self-reported.
// Email is the natural key; ID is a stable opaque handle.
type User struct {
	ID        string
	Email     string
	Name      string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Answers   scoring.Answers
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// New creates a User with a generated ID and an empty answer bag.
func New(email, name string) (*User, error) {
	email = NormalizeEmail(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, ErrInvalidEmail
	}
	ts := now()
	return &User{
		ID:        id.GenerateID(),
		Email:     email,
		Name:      strings.TrimSpace(name),
		CreatedAt: ts,
		UpdatedAt: ts,
		Answers:   scoring.Answers{},
	}, nil
}

// DisplayName falls back to the email when no name was given.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// ReplaceAnswers swaps in a new answer bag. Values for the readOnly factor
// ids are never taken from incoming; the stored values survive.
func (u *User) ReplaceAnswers(incoming scoring.Answers, readOnly []string) {
	next := make(scoring.Answers, len(incoming))
	maps.Copy(next, incoming)
	for _, fid := range readOnly {
		delete(next, fid)
		if v, ok := u.Answers[fid]; ok {
			next[fid] = v
		}
	}
	u.Answers = next
	u.UpdatedAt = now()
}

// Rename sets the display name. Surrounding whitespace is dropped.
func (u *User) Rename(name string) {
	u.Name = strings.TrimSpace(name)
	u.UpdatedAt = now()
}

// SetAnswer records a single answer, used for admin assessments.
func (u *User) SetAnswer(factorID string, value any) {
	if u.Answers == nil {
		u.Answers = scoring.Answers{}
	}
	u.Answers[factorID] = value
	u.UpdatedAt = now()
}

// now is truncated to milliseconds, the precision timestamps are stored at.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
