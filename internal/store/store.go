package store

import (
	"context"
	"errors"

	"github.com/alphalever/backend/internal/domain/user"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Store is the user repository. It owns all synchronization of persisted
// state; the scoring engine never touches it.
type Store interface {
	CreateUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, email string) (*user.User, error)
	// ListUsers returns users in registration order.
	ListUsers(ctx context.Context) ([]*user.User, error)
	// UpdateUser loads the user, applies fn and writes the result back in
	// one transaction. fn must not call back into the Store.
	UpdateUser(ctx context.Context, email string, fn func(*user.User) error) (*user.User, error)
	DeleteUser(ctx context.Context, email string) error
	Close() error
}
