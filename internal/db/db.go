package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vocabtest-backend/internal/config"
	"vocabtest-backend/internal/model"
)

var database *gorm.DB

// InitDBFromConfig opens the configured database, migrates it and stores the
// handle for GetDB.
func InitDBFromConfig(cfg *config.APIConfig) error {
	conn, err := Open(cfg.DB)
	if err != nil {
		return err
	}
	if err := Migrate(conn); err != nil {
		return err
	}
	database = conn
	return nil
}

// GetDB returns the handle opened by InitDBFromConfig.
func GetDB() *gorm.DB {
	return database
}

// Open connects to postgres or sqlite depending on the DRIVER setting.
func Open(c config.DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.Username, c.Password.Value, c.Names.Vocab, c.SSLMode)
		dialector = postgres.Open(dsn)
	case "sqlite":
		if dir := filepath.Dir(c.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
		dialector = sqlite.Open(c.Path + "?_foreign_keys=on")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if c.Driver == "sqlite" {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		if c.Pool.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(c.Pool.MaxOpenConns)
		}
		if c.Pool.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(c.Pool.MaxIdleConns)
		}
		if c.Pool.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(time.Duration(c.Pool.ConnMaxLifetime) * time.Second)
		}
	}
	return conn, nil
}

// Migrate creates the schema and makes sure the default category exists.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(model.Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return EnsureDefaultCategory(conn)
}

// EnsureDefaultCategory inserts category id=1 when it is missing.
func EnsureDefaultCategory(conn *gorm.DB) error {
	var existing model.Category
	err := conn.First(&existing, model.DefaultCategoryID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up default category: %w", err)
	}

	desc := "Default category"
	def := model.Category{ID: model.DefaultCategoryID, Name: model.DefaultCategoryName, Description: &desc}
	if err := conn.Create(&def).Error; err != nil {
		return fmt.Errorf("create default category: %w", err)
	}
	if conn.Dialector.Name() == "postgres" {
		// Explicit ids do not advance the serial sequence.
		return conn.Exec(`SELECT setval(pg_get_serial_sequence('categories', 'id'), (SELECT MAX(id) FROM categories))`).Error
	}
	return nil
}
