package postgres

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration directions accepted by Migrate.
const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// Migrate applies the embedded schema migrations. "up" applies every pending
// migration; "down" rolls back the most recent one. It opens its own connection,
// which the migrator closes when done.
func Migrate(connStr, direction string) error {
	if direction != MigrateUp && direction != MigrateDown {
		return fmt.Errorf("unknown migration direction %q (expected up or down)", direction)
	}

	m, err := newMigrator(connStr)
	if err != nil {
		return err
	}
	defer m.Close()

	if direction == MigrateUp {
		err = m.Up()
	} else {
		err = m.Steps(-1)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("database schema is up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to migrate %s: %w", direction, err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	slog.Info("database migrated", "direction", direction, "version", version, "dirty", dirty)
	return nil
}

// MigrationVersion reports the applied schema version. A database without any
// applied migration reports version 0.
func MigrationVersion(connStr string) (uint, bool, error) {
	m, err := newMigrator(connStr)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func newMigrator(connStr string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		src.Close()
		db.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		src.Close()
		driver.Close()
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return m, nil
}
