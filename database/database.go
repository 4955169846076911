package database

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"paper-trail/config"
	"paper-trail/models"
)

// Open öffnet die Datenbank gemäß DB_DRIVER.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "postgres":
		db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig(cfg.LogMode))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		log.Info("Successfully connected to postgres database.", zap.String("db_name", cfg.DBName))
		return db, nil
	case "sqlite":
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("Successfully connected to sqlite database.", zap.String("path", cfg.SQLitePath))
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// OpenSQLite öffnet eine SQLite-Datenbank mit aktivierten Fremdschlüsseln.
// ":memory:" liefert eine frische In-Memory-Datenbank (Tests).
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := sqliteDSN(path)
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig("production"))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite serialisiert Schreibzugriffe ohnehin; eine Verbindung hält außerdem
	// In-Memory-Datenbanken am Leben.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func sqliteDSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?_foreign_keys=on"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func gormConfig(mode string) *gorm.Config {
	level := logger.Silent
	if strings.EqualFold(mode, "development") {
		level = logger.Warn
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}
}

// Migrate legt alle Tabellen in Abhängigkeitsreihenfolge an.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Project{},
		&models.SearchRound{},
		&models.SearchQuery{},
		&models.Source{},
		&models.RoundSource{},
		&models.Extract{},
		&models.Evidence{},
	)
}
