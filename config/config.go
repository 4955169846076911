package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBDriver   string `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost     string `envconfig:"DB_HOST"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"paper_trail"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"paper-trail.db"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`
	LogMode      string `envconfig:"LOG_MODE" default:"production"`

	// Report-Erzeugung
	ReportConcurrency  int    `envconfig:"REPORT_CONCURRENCY" default:"4"`
	ReportStyleFile    string `envconfig:"REPORT_STYLE_FILE"`
	ReportDefaultStyle string `envconfig:"REPORT_DEFAULT_STYLE" default:"dossier"`

	SourceCacheSize int `envconfig:"SOURCE_CACHE_SIZE" default:"4096"`

	// Dossier-Snapshots per Cron, leer = deaktiviert
	SnapshotSchedule string `envconfig:"SNAPSHOT_SCHEDULE"`
	SnapshotKeep     int    `envconfig:"SNAPSHOT_KEEP" default:"5"`

	S3URL    string `envconfig:"S3_URL"`
	S3Region string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Key    string `envconfig:"S3_KEY"`
	S3Secret string `envconfig:"S3_SECRET"`
	S3Bucket string `envconfig:"S3_BUCKET"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// SnapshotsEnabled meldet, ob der Snapshot-Job laufen soll.
func (c *Config) SnapshotsEnabled() bool {
	return strings.TrimSpace(c.SnapshotSchedule) != ""
}

// ObjectStorageConfigured meldet, ob ein S3-Bucket konfiguriert ist.
func (c *Config) ObjectStorageConfigured() bool {
	return c.S3Bucket != "" && c.S3Key != "" && c.S3Secret != ""
}

// Validate prüft Kombinationen, die envconfig allein nicht abdecken kann.
func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case "postgres":
		if c.DBHost == "" || c.DBUser == "" {
			errs = append(errs, errors.New("DB_HOST and DB_USER are required for the postgres driver"))
		}
	case "sqlite":
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	if c.ReportConcurrency < 1 {
		errs = append(errs, errors.New("REPORT_CONCURRENCY must be at least 1"))
	}
	if c.SnapshotsEnabled() {
		if !c.ObjectStorageConfigured() {
			errs = append(errs, errors.New("SNAPSHOT_SCHEDULE requires S3_BUCKET, S3_KEY and S3_SECRET"))
		}
		if c.SnapshotKeep < 1 {
			errs = append(errs, errors.New("SNAPSHOT_KEEP must be at least 1"))
		}
	}
	return errors.Join(errs...)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, c.Validate()
}
