package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// MigrationsTable keeps the admin schema history apart from anything else sharing the database.
const MigrationsTable = "admin_schema_migrations"

// MigrationResult reports where the schema ended up after RunMigrations.
type MigrationResult struct {
	Version uint
	Applied bool
}

// RunMigrations applies every pending migration in migrationsPath.
// A dirty schema is refused rather than migrated over.
func RunMigrations(databaseURL, migrationsPath string) (MigrationResult, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return MigrationResult{}, fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("create migration instance: %w", err)
	}

	if _, dirty, err := migrator.Version(); err == nil && dirty {
		return MigrationResult{}, errors.New("schema is dirty, fix it by hand before migrating")
	}

	applied := true
	if err := migrator.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return MigrationResult{}, fmt.Errorf("run migrations: %w", err)
		}
		applied = false
	}

	version, _, err := migrator.Version()
	if err != nil {
		return MigrationResult{}, fmt.Errorf("read schema version: %w", err)
	}
	return MigrationResult{Version: version, Applied: applied}, nil
}
