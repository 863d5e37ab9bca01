// Package pgtest boots a single throwaway Postgres container for the test
// binary and hands each test an isolated schema with the repo's migrations
// applied, so integration tests can run in parallel without seeing each
// other's rows.
package pgtest

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/swiftserve/swiftserve/migrations"
)

var (
	once       sync.Once
	container  *postgres.PostgresContainer
	connString string
	bootErr    error
)

// BootOnce starts the shared container on first call. Tests that reach it
// without a working container runtime are skipped rather than failed.
func BootOnce(t *testing.T) {
	t.Helper()
	once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
		defer cancel()

		container, bootErr = postgres.Run(ctx,
			"docker.io/postgres:16-alpine",
			postgres.WithDatabase("swiftserve"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("pass"),
			postgres.BasicWaitStrategies(),
		)
		if bootErr != nil {
			return
		}

		host, err := container.Host(ctx)
		if err != nil {
			bootErr = err
			return
		}
		port, err := container.MappedPort(ctx, "5432/tcp")
		if err != nil {
			bootErr = err
			return
		}
		connString = fmt.Sprintf(
			"postgres://postgres:pass@%s:%s/swiftserve?sslmode=disable",
			host, port.Port(),
		)
	})
	if bootErr != nil {
		t.Skipf("postgres container unavailable: %v", bootErr)
	}
}

// Sandbox returns a *sql.DB whose search_path points at a fresh schema
// with all migrations applied. The schema is dropped on cleanup.
func Sandbox(t *testing.T) *sql.DB {
	t.Helper()
	BootOnce(t)

	admin, err := sql.Open("pgx", connString)
	if err != nil {
		t.Fatalf("open admin: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema := fmt.Sprintf("t_%x", time.Now().UnixNano())
	if _, err := admin.ExecContext(ctx, `CREATE SCHEMA "`+schema+`"`); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	db, err := sql.Open("pgx", withSearchPath(connString, schema))
	if err != nil {
		t.Fatalf("open sandbox: %v", err)
	}

	// Migrations run inside the sandbox schema; the goose version table
	// lands there too, so each schema migrates independently.
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("goose dialect: %v", err)
	}
	if err := goose.Up(db, "."); err != nil {
		t.Fatalf("goose up: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = admin.ExecContext(ctx, `DROP SCHEMA IF EXISTS "`+schema+`" CASCADE`)
		_ = db.Close()
		_ = admin.Close()
	})
	return db
}

// Shutdown terminates the shared container; call it from TestMain after
// m.Run.
func Shutdown() error {
	if container == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return container.Terminate(ctx)
}

func withSearchPath(base, schema string) string {
	u, _ := url.Parse(base)
	q := u.Query()
	q.Set("options", fmt.Sprintf("-csearch_path=%s", schema))
	u.RawQuery = q.Encode()
	return u.String()
}
