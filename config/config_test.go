package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "trail.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "4242", cfg.HTTPPort)
	assert.Equal(t, 4, cfg.ReportConcurrency)
	assert.Equal(t, "dossier", cfg.ReportDefaultStyle)
	assert.Equal(t, 4096, cfg.SourceCacheSize)
	assert.Equal(t, 5, cfg.SnapshotKeep)
	assert.False(t, cfg.SnapshotsEnabled())
}

func TestDSN(t *testing.T) {
	cfg := Config{DBHost: "db", DBPort: 5432, DBUser: "u", DBPassword: "p", DBName: "trail"}
	assert.Equal(t, "host=db user=u password=p dbname=trail port=5432 sslmode=disable", cfg.DSN())
}

func TestValidate(t *testing.T) {
	valid := Config{DBDriver: "postgres", DBHost: "db", DBUser: "u", ReportConcurrency: 1, SnapshotKeep: 1}
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *Config){
		"postgres without host":    func(c *Config) { c.DBHost = "" },
		"unknown driver":           func(c *Config) { c.DBDriver = "mysql" },
		"sqlite without path":      func(c *Config) { c.DBDriver = "sqlite"; c.SQLitePath = "" },
		"zero concurrency":         func(c *Config) { c.ReportConcurrency = 0 },
		"snapshots without bucket": func(c *Config) { c.SnapshotSchedule = "@daily" },
		"snapshots keep zero": func(c *Config) {
			c.SnapshotSchedule = "@daily"
			c.S3Bucket, c.S3Key, c.S3Secret = "b", "k", "s"
			c.SnapshotKeep = 0
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	withBucket := valid
	withBucket.SnapshotSchedule = "0 3 * * *"
	withBucket.S3Bucket, withBucket.S3Key, withBucket.S3Secret = "b", "k", "s"
	assert.NoError(t, withBucket.Validate())
	assert.True(t, withBucket.SnapshotsEnabled())
	assert.True(t, withBucket.ObjectStorageConfigured())
}
