package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tradejournal/src/database/migrations"
	"tradejournal/src/model"
)

// Connect opens a database handle for config. The handle is returned to the
// caller and passed explicitly to whoever needs it.
func Connect(config Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch config.Driver {
	case DriverPostgres:
		dialector = postgres.Open(config.URL)
	case DriverSQLite:
		dialector = sqlite.Open(config.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.LogLevel(config.GormLogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}

	maxOpen := config.MaxOpenConns
	if config.Driver == DriverSQLite {
		// a single writer avoids SQLITE_BUSY and keeps in-memory databases shared
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithField("driver", config.Driver).Info("[database] connection established")

	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("[database] failed to get sql.DB from gorm")
		return
	}
	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("[database] failed to close connection")
		return
	}
	logrus.Info("[database] connection closed")
}

// Migrate creates or updates the schema and runs pending data migrations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Account{},
		&model.Position{},
		&model.Order{},
		&model.Trade{},
		&model.PartialExit{},
		&model.StatusHistoryEntry{},
		&migrations.DataMigration{},
	); err != nil {
		return fmt.Errorf("failed to run schema migrations: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("failed to run data migrations: %w", err)
	}

	logrus.Info("[database] migrations completed")

	return nil
}
