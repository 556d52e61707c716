//go:build conntest

package conntest

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/loadbench/internal/db"
	"github.com/vvka-141/loadbench/internal/testinfra"
	"github.com/vvka-141/loadbench/pkg/loadbench"
)

var stdContainer *testinfra.PostgresContainer

func TestMain(m *testing.M) {
	ctx := context.Background()

	std, err := testinfra.StartSimplePostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start postgres: %v\n", err)
		os.Exit(1)
	}
	stdContainer = std

	code := m.Run()

	stdContainer.Terminate(ctx) //nolint:errcheck
	os.Exit(code)
}

func parseStdConnString(t *testing.T) *loadbench.ConnectionConfig {
	t.Helper()

	config, err := db.ParseConnectionString(stdContainer.ConnString)
	if err != nil {
		t.Fatalf("parse connection string: %v", err)
	}
	return config
}

func connectWithConfig(t *testing.T, config *loadbench.ConnectionConfig) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	connector, err := db.NewConnector(config, nil)
	if err != nil {
		t.Fatalf("create connector: %v", err)
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func pingSucceeds(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if err := pool.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func queryVersion(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	var version string
	if err := pool.QueryRow(context.Background(), "SELECT version()").Scan(&version); err != nil {
		t.Fatalf("query version: %v", err)
	}
	return version
}
