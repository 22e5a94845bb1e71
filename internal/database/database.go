package database

import (
	"fmt"
	"time"

	"restoran/internal/config"
	"restoran/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormWriter sends gorm's warnings through the application logger.
type gormWriter struct {
	log *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warnf(format, args...)
}

// Open connects to the configured database. Lookups that find nothing are
// expected and are not logged.
func Open(cfg config.DatabaseConfig, log *zap.SugaredLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(gormWriter{log: log}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}
	return db, nil
}

// Migrate creates or updates the users, menu_items and orders tables.
func Migrate(db *gorm.DB) error {
	entities := []interface{}{
		&models.User{},
		&models.MenuItem{},
		&models.Order{},
	}
	for _, entity := range entities {
		if err := db.AutoMigrate(entity); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", entity, err)
		}
	}
	return nil
}
