package db

import (
	"fmt"

	"gorm.io/gorm"
)

// QueryExecutor handles database queries.
type QueryExecutor struct {
	DB *gorm.DB
}

// NewQueryExecutor creates a new instance of QueryExecutor.
func NewQueryExecutor(db *gorm.DB) *QueryExecutor {
	return &QueryExecutor{DB: db}
}

// Count returns the number of rows that match the given conditions.
// A nil conditions map counts the whole table.
func (qe *QueryExecutor) Count(table string, conditions map[string]interface{}) (int64, error) {
	var count int64
	q := qe.DB.Table(table)
	if len(conditions) > 0 {
		q = q.Where(conditions)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}

// Exists checks if a record matching the conditions exists.
func (qe *QueryExecutor) Exists(table string, conditions map[string]interface{}) (bool, error) {
	count, err := qe.Count(table, conditions)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Transaction executes a set of operations within a database transaction.
// The callback receives an executor bound to the transaction.
func (qe *QueryExecutor) Transaction(txFunc func(tx *QueryExecutor) error) error {
	return qe.DB.Transaction(func(tx *gorm.DB) error {
		return txFunc(NewQueryExecutor(tx))
	})
}

// RawExec executes a raw SQL command and returns the affected row count.
func (qe *QueryExecutor) RawExec(query string, args ...interface{}) (int64, error) {
	res := qe.DB.Exec(query, args...)
	return res.RowsAffected, res.Error
}
