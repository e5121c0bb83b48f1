package store

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// LatestVersion asks Migrate for the newest schema.
const LatestVersion = -1

// Migrate moves the schema to targetVersion and returns the version it ends at.
//   - targetVersion < 0 migrates to the latest version.
//   - targetVersion == 0 rolls back every migration.
//   - targetVersion > 0 migrates to exactly that version.
func (s *SQLiteStore) Migrate(targetVersion int) (uint, error) {
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return 0, fmt.Errorf("failed to create sqlite migrate driver: %w", err)
	}

	migrationFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return 0, fmt.Errorf("failed to create migration source: %w", err)
	}

	// m is not closed: closing it would close s.db along with the driver.
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if _, dirty, err := m.Version(); err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("failed to get current migration version: %w", err)
	} else if dirty {
		return 0, errors.New("database is in a dirty migration state; fix manually or force a version")
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
	}

	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, nil
}
