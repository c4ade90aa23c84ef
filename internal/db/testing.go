package db

import (
	"fmt"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var memSeq atomic.Int64

// OpenMemory opens a private, migrated in-memory SQLite database. Each call
// gets its own database, which keeps package tests independent.
func OpenMemory() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:vocab_mem_%d?mode=memory&cache=shared&_foreign_keys=on", memSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open memory database: %w", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	// A single connection keeps the shared-cache database alive and
	// serialises writers.
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}
