// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alphalever/backend/internal/domain/scoring"
	"github.com/alphalever/backend/internal/domain/user"
)

const selectUser = `SELECT id, email, name, is_admin, answers, created_at, updated_at FROM users`

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// Open opens the database without touching its schema.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dbPath, err)
	}
	// One connection serializes every read-modify-write and avoids
	// "database is locked" errors.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite %q: %w", dbPath, err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLite opens the database and migrates it to the latest schema.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	s, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := s.Migrate(LatestVersion); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Users
// ============================================================================

func (s *SQLiteStore) CreateUser(ctx context.Context, u *user.User) error {
	answers, err := encodeAnswers(u.Answers)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM users WHERE email = ?", u.Email).Scan(&exists)
	if err == nil {
		return fmt.Errorf("user %s: %w", u.Email, ErrConflict)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (email, id, name, is_admin, answers, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		u.Email, u.ID, u.Name, u.IsAdmin, answers, u.CreatedAt.UnixMilli(), u.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetUser(ctx context.Context, email string) (*user.User, error) {
	row := s.db.QueryRowContext(ctx, selectUser+" WHERE email = ?", user.NormalizeEmail(email))
	return scanUser(row)
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*user.User, error) {
	rows, err := s.db.QueryContext(ctx, selectUser+" ORDER BY created_at, rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, email string, fn func(*user.User) error) (*user.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	u, err := scanUser(tx.QueryRowContext(ctx, selectUser+" WHERE email = ?", user.NormalizeEmail(email)))
	if err != nil {
		return nil, err
	}
	if err := fn(u); err != nil {
		return nil, err
	}

	answers, err := encodeAnswers(u.Answers)
	if err != nil {
		return nil, err
	}
	result, err := tx.ExecContext(ctx,
		"UPDATE users SET name = ?, is_admin = ?, answers = ?, updated_at = ? WHERE id = ?",
		u.Name, u.IsAdmin, answers, u.UpdatedAt.UnixMilli(), u.ID,
	)
	if err != nil {
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *SQLiteStore) DeleteUser(ctx context.Context, email string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE email = ?", user.NormalizeEmail(email))
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================================================
// Encoding
// ============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var (
		u                user.User
		answersJSON      string
		created, updated int64
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.IsAdmin, &answersJSON, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	u.CreatedAt = time.UnixMilli(created).UTC()
	u.UpdatedAt = time.UnixMilli(updated).UTC()
	u.Answers = scoring.Answers{}
	if err := json.Unmarshal([]byte(answersJSON), &u.Answers); err != nil {
		return nil, fmt.Errorf("decode answers for %s: %w", u.Email, err)
	}
	return &u, nil
}

func encodeAnswers(a scoring.Answers) (string, error) {
	if a == nil {
		return "{}", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encode answers: %w", err)
	}
	return string(b), nil
}
