package database

import (
	"context"
	"fmt"
	"os"

	"todoapi/internal/adapter/database/badger"
	"todoapi/internal/adapter/database/memory"
	"todoapi/internal/adapter/database/postgres"
	pgrepo "todoapi/internal/adapter/database/postgres/repository"
	"todoapi/internal/adapter/database/sqlite"
	sqliterepo "todoapi/internal/adapter/database/sqlite/repository"
	"todoapi/internal/core/port"
	"todoapi/pkg/config"
)

// NewTodoRepository opens the store selected by cfg.Store. SQL stores are
// migrated before the repository is returned.
func NewTodoRepository(ctx context.Context, cfg *config.AppConfig, probe port.Telemetry) (port.TodoRepository, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return memory.NewTodoRepository(), nil

	case config.StoreSQLite:
		db, err := sqlite.NewDB(sqliteConfig(cfg))

		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}

		return sqliterepo.NewTodoRepository(db, probe), nil

	case config.StorePostgres:
		db, err := postgres.NewDB(ctx, postgres.Config{URL: cfg.DatabaseURL})

		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}

		return pgrepo.NewTodoRepository(db), nil

	case config.StoreBadger:
		db, err := badger.NewDB(badger.Config{Path: cfg.BadgerPath})

		if err != nil {
			return nil, fmt.Errorf("failed to open badger store: %w", err)
		}

		return badger.NewTodoRepository(db, probe), nil
	}

	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// Migrate applies schema migrations for the SQL stores and reports whether
// the configured store has any.
func Migrate(cfg *config.AppConfig) (bool, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		db, err := sqlite.Open(sqliteConfig(cfg))

		if err != nil {
			return true, fmt.Errorf("failed to open sqlite store: %w", err)
		}

		defer db.Close()

		return true, sqlite.RunMigrations(db)

	case config.StorePostgres:
		return true, postgres.RunMigrations(cfg.DatabaseURL)
	}

	return false, nil
}

func sqliteConfig(cfg *config.AppConfig) sqlite.Config {
	return sqlite.Config{
		Path:      cfg.DatabasePath,
		LogLevel:  cfg.SQLLogLevel,
		LogOutput: os.Stderr,
	}
}
