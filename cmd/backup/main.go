package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"paper-trail/config"
	"paper-trail/storage"
)

const backupPrefix = "backups/"

// backupConfig ergänzt die App-Konfiguration um die Rotationsgrenze.
type backupConfig struct {
	KeepBackups int `envconfig:"KEEP_BACKUPS" default:"4"`
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	logging.Info("Starting backup...")

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}
	var bcfg backupConfig
	if err := envconfig.Process("", &bcfg); err != nil {
		logging.Fatal("Backup config load error", zap.Error(err))
	}
	if !cfg.ObjectStorageConfigured() {
		logging.Fatal("S3_BUCKET, S3_KEY and S3_SECRET are required for backups")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	// 1. Datenbank-Dump erstellen
	dump, err := createDump(ctx, cfg)
	if err != nil {
		logging.Fatal("Failed to create database dump", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}

	// 2. Hochladen
	store, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}
	key := backupKey(cfg.DBDriver, time.Now())
	link, err := store.Put(ctx, key, dump, "application/gzip")
	if err != nil {
		logging.Fatal("Backup upload failed", zap.String("key", key), zap.Error(err))
	}
	logging.Info("Backup uploaded", zap.String("link", link), zap.Int("bytes", len(dump)))

	// 3. Alte Backups rotieren
	deleted, err := storage.Rotate(ctx, store, backupPrefix, bcfg.KeepBackups)
	if err != nil {
		logging.Fatal("Backup rotation failed", zap.Error(err))
	}
	logging.Info("Backup finished", zap.Strings("rotated", deleted))
}

func backupKey(driver string, now time.Time) string {
	ext := "sql.gz"
	if driver == "sqlite" {
		ext = "sqlite.gz"
	}
	return fmt.Sprintf("%sbackup-%s.%s", backupPrefix, now.UTC().Format("2006-01-02T15-04-05Z"), ext)
}

func createDump(ctx context.Context, cfg *config.Config) ([]byte, error) {
	switch cfg.DBDriver {
	case "postgres":
		return gzipCommand(dumpCommand(ctx, cfg))
	case "sqlite":
		f, err := os.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return gzipReader(f)
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

func dumpCommand(ctx context.Context, cfg *config.Config) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "pg_dump",
		"-h", cfg.DBHost,
		"-p", fmt.Sprint(cfg.DBPort),
		"-U", cfg.DBUser,
		"-d", cfg.DBName,
		"-w", // Passwort wird über PGPASSWORD bereitgestellt
	)
	cmd.Env = append(os.Environ(), fmt.Sprintf("PGPASSWORD=%s", cfg.DBPassword))
	return cmd
}

func gzipCommand(cmd *exec.Cmd) ([]byte, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	data, err := gzipReader(stdout)
	if err != nil {
		_ = cmd.Wait()
		return nil, err
	}
	if err := cmd.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func gzipReader(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	if _, err := io.Copy(gzipWriter, r); err != nil {
		return nil, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
