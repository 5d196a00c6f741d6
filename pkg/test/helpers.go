package test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"todoapi/internal/adapter/database/badger"
	"todoapi/internal/adapter/database/memory"
	"todoapi/internal/adapter/database/sqlite"
	sqliterepo "todoapi/internal/adapter/database/sqlite/repository"
	"todoapi/internal/core/port"
	"todoapi/internal/core/telemetry"
)

// NamedStore pairs a store variant with the name used in subtests.
type NamedStore struct {
	Name string
	Repo port.TodoRepository
}

// InitTestDB opens a migrated in-memory sqlite database.
func InitTestDB() *sqlite.DB {
	db, err := sqlite.NewDB(sqlite.Config{Path: sqlite.MemoryPath, LogLevel: "disabled"})

	if err != nil {
		log.Fatal(err)
	}

	return db
}

func InitBadgerDB(t *testing.T) *badger.DB {
	t.Helper()

	db, err := badger.NewDB(badger.Config{})

	if err != nil {
		t.Fatalf("Failed to open badger: %v", err)
	}

	return db
}

// TodoStores returns a fresh instance of every embedded store variant. They
// are closed when the test finishes.
func TodoStores(t *testing.T) []NamedStore {
	t.Helper()

	probe := telemetry.NewNoOpProbe()

	stores := []NamedStore{
		{Name: "memory", Repo: memory.NewTodoRepository()},
		{Name: "sqlite", Repo: sqliterepo.NewTodoRepository(InitTestDB(), probe)},
		{Name: "badger", Repo: badger.NewTodoRepository(InitBadgerDB(t), probe)},
	}

	t.Cleanup(func() {
		for _, store := range stores {
			store.Repo.Close()
		}
	})

	return stores
}

// StartPostgres runs a throwaway postgres container and returns its URL.
// The test is skipped when no container provider is reachable.
func StartPostgres(t *testing.T) string {
	t.Helper()

	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	req := testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "testdb",
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		},
	}

	container, err := testcontainers.GenericContainer(ctx, req)
	testcontainers.CleanupContainer(t, container)

	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	host, err := container.Host(ctx)

	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432/tcp")

	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	return fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())
}

// CleanDB empties every application table of a sqlite database.
func CleanDB(t *testing.T, db *sql.DB) {
	t.Helper()

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'table' and name not in ('sqlite_sequence', 'schema_migrations')")

	if err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}

	var tables []string

	for rows.Next() {
		var table string

		if err := rows.Scan(&table); err != nil {
			rows.Close()
			t.Fatalf("Failed to scan table name: %v", err)
		}

		tables = append(tables, strings.TrimSpace(table))
	}

	if err := rows.Err(); err != nil {
		t.Fatalf("Error iterating over rows: %v", err)
	}

	rows.Close()

	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to execute delete for table %s: %v", table, err)
		}
	}
}
