package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paper-trail/config"
)

func TestBackupKey(t *testing.T) {
	now := time.Date(2026, 4, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "backups/backup-2026-04-02T03-04-05Z.sql.gz", backupKey("postgres", now))
	assert.Equal(t, "backups/backup-2026-04-02T03-04-05Z.sqlite.gz", backupKey("sqlite", now))
}

func TestDumpCommandArgs(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBPort: 5433, DBUser: "u", DBName: "trail", DBPassword: "pw"}
	cmd := dumpCommand(context.Background(), cfg)

	assert.Equal(t, []string{"pg_dump", "-h", "db", "-p", "5433", "-U", "u", "-d", "trail", "-w"}, cmd.Args)
	assert.Contains(t, cmd.Env, "PGPASSWORD=pw")
}

func TestCreateDumpSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trail.db")
	require.NoError(t, os.WriteFile(path, []byte("SQLite format 3"), 0o600))

	data, err := createDump(context.Background(), &config.Config{DBDriver: "sqlite", SQLitePath: path})
	require.NoError(t, err)

	zr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "SQLite format 3", string(plain))
}

func TestCreateDumpUnknownDriver(t *testing.T) {
	_, err := createDump(context.Background(), &config.Config{DBDriver: "mysql"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "mysql"))
}
