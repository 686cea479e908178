package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/pkg/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the relational database selected by DATA_SOURCE and runs migrations
func InitDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Data.Source {
	case config.SourcePostgres:
		// Configure Postgres options
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DB.GetDSN(),
			PreferSimpleProtocol: true, // Disables implicit prepared statement usage
		})
	case config.SourceSQLite:
		if dir := filepath.Dir(cfg.DB.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.DB.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	default:
		return nil, fmt.Errorf("data source %q is not relational", cfg.Data.Source)
	}

	db, err := Open(dialector, cfg.DB.LogLevel)
	if err != nil {
		return nil, err
	}

	// Get generic database object SQL
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Set connection pool settings from config
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.DB.ConnMaxIdleTime)

	log.Info("Database connected successfully",
		zap.String("driver", dialector.Name()),
		zap.Int("max_open_conns", cfg.DB.MaxOpenConns))

	return db, nil
}

// Open connects through dialector and migrates the catalog schema
func Open(dialector gorm.Dialector, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the catalog tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Category{}, &model.SubCategory{}, &model.Product{}, &model.Admin{}); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	return nil
}
