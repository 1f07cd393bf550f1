//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/reelstats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestReelstatsWithMySQL tests the reelstats CLI with a MySQL backend.
func TestReelstatsWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "reelstats",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/reelstats?parseTime=true", host, port.Port())
	runBackendScenario(t, "mysql", connStr)
}

// TestReelstatsWithPostgres tests the reelstats CLI with a PostgreSQL backend.
func TestReelstatsWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runBackendScenario(t, "postgresql", connStr)
}

// runBackendScenario drives the cache and upload commands against one database server.
func runBackendScenario(t *testing.T, backend, connStr string) {
	env := []string{
		"REELSTATS_CACHE_BACKEND=" + backend,
		"REELSTATS_CACHE_DB_CONNECT=" + connStr,
		"REELSTATS_UPLOAD_BACKEND=" + backend,
		"REELSTATS_UPLOAD_DB_CONNECT=" + connStr,
		"REELSTATS_EMOJI=no",
	}

	// Start from an empty database
	_, err := runReelstats(t, env, "cache", "clear")
	require.NoError(t, err)
	_, err = runReelstats(t, env, "upload", "purge")
	require.NoError(t, err)

	// Schema migrations run explicitly and are idempotent
	_, err = runReelstats(t, env, "upload", "migrate")
	require.NoError(t, err)
	_, err = runReelstats(t, env, "upload", "migrate")
	require.NoError(t, err)

	// Stats populate the cache; the second run is served from it
	for range 2 {
		out, err := runReelstats(t, env, "stats", fixture(t, "watched.csv"), "--output", "json")
		require.NoError(t, err)
		var result schema.Analytics
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, 5, result.TotalMovies)
	}

	out, err := runReelstats(t, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, backend)

	// Uploads persist across processes within the session
	_, err = runReelstats(t, env, "upload", "add", fixture(t, "watched.csv"), fixture(t, "ratings.csv"))
	require.NoError(t, err)

	out, err = runReelstats(t, env, "upload", "list", "--output", "json")
	require.NoError(t, err)
	var files []schema.UploadedFile
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	require.Len(t, files, 2)
	assert.Equal(t, schema.WatchedFile, files[0].Type)
	assert.Equal(t, schema.RatingsFile, files[1].Type)

	out, err = runReelstats(t, env, "dashboard", "--output", "json")
	require.NoError(t, err)
	var dashboard schema.Analytics
	require.NoError(t, json.Unmarshal([]byte(out), &dashboard))
	assert.Equal(t, 5, dashboard.TotalMovies)

	_, err = runReelstats(t, env, "upload", "remove", files[1].ID)
	require.NoError(t, err)

	out, err = runReelstats(t, env, "upload", "status")
	require.NoError(t, err)
	assert.Contains(t, out, backend)

	// Clearing rotates the session so the dashboard has nothing to show
	_, err = runReelstats(t, env, "upload", "clear")
	require.NoError(t, err)
	_, err = runReelstats(t, env, "dashboard")
	assert.Error(t, err)
}
