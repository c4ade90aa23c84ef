package repository

import (
	"fmt"

	"gorm.io/gorm"

	"vocabtest-backend/internal/db"
	"vocabtest-backend/internal/db/query"
	"vocabtest-backend/internal/model"
)

type TestRepository interface {
	List(limit, offset int) ([]model.TestWithCategory, int64, error)
	GetByID(id uint) (*model.TestWithCategory, error)
	Items(testID uint) ([]model.TestItemWithWord, error)
	CreateWithItems(test *model.Test, items []model.TestItem) error
	Delete(id uint) error
	Exists(id uint) (bool, error)
	AddHistory(entry *model.TestHistory) error
	History(testID uint) ([]model.TestHistory, error)
	Count() (int64, error)
}

type testRepository struct {
	db *gorm.DB
	qe *db.QueryExecutor
}

func NewTestRepository(conn *gorm.DB) TestRepository {
	return &testRepository{db: conn, qe: db.NewQueryExecutor(conn)}
}

func (r *testRepository) joined() *gorm.DB {
	return r.db.Table("tests AS t").
		Select("t.*, c.name AS category_name").
		Joins("LEFT JOIN categories AS c ON t.category_id = c.id")
}

func (r *testRepository) List(limit, offset int) ([]model.TestWithCategory, int64, error) {
	total, err := r.Count()
	if err != nil {
		return nil, 0, err
	}

	tests := []model.TestWithCategory{}
	err = r.joined().Order("t.created_at DESC, t.id DESC").Limit(limit).Offset(offset).Scan(&tests).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list tests: %w", err)
	}
	return tests, total, nil
}

func (r *testRepository) GetByID(id uint) (*model.TestWithCategory, error) {
	var tests []model.TestWithCategory
	if err := r.joined().Where("t.id = ?", id).Scan(&tests).Error; err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	if len(tests) == 0 {
		return nil, ErrNotFound
	}
	return &tests[0], nil
}

func (r *testRepository) Items(testID uint) ([]model.TestItemWithWord, error) {
	items := []model.TestItemWithWord{}
	err := r.db.Table("test_items AS ti").
		Select("ti.*, w.english, w.japanese").
		Joins("JOIN words AS w ON ti.word_id = w.id").
		Where("ti.test_id = ?", testID).
		Order("ti.question_order").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list test items: %w", err)
	}
	return items, nil
}

// CreateWithItems inserts the test and all of its items in one transaction.
// Either everything is stored or nothing is.
func (r *testRepository) CreateWithItems(test *model.Test, items []model.TestItem) error {
	return r.qe.Transaction(func(tx *db.QueryExecutor) error {
		if err := tx.DB.Omit("Items").Create(test).Error; err != nil {
			return fmt.Errorf("create test: %w", err)
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].TestID = test.ID
		}
		if err := tx.DB.CreateInBatches(items, 200).Error; err != nil {
			return fmt.Errorf("create test items: %w", err)
		}
		return nil
	})
}

// Delete removes the test and its items. History entries are kept.
func (r *testRepository) Delete(id uint) error {
	items, itemArgs := query.NewQueryBuilder().DeleteFrom("test_items").Where("test_id = ?", id).Build()
	test, testArgs := query.NewQueryBuilder().DeleteFrom("tests").Where("id = ?", id).Build()

	return r.qe.Transaction(func(tx *db.QueryExecutor) error {
		if _, err := tx.RawExec(items, itemArgs...); err != nil {
			return fmt.Errorf("delete test items: %w", err)
		}
		n, err := tx.RawExec(test, testArgs...)
		if err != nil {
			return fmt.Errorf("delete test: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *testRepository) Exists(id uint) (bool, error) {
	return r.qe.Exists("tests", map[string]interface{}{"id": id})
}

func (r *testRepository) AddHistory(entry *model.TestHistory) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("record test usage: %w", err)
	}
	return nil
}

func (r *testRepository) History(testID uint) ([]model.TestHistory, error) {
	entries := []model.TestHistory{}
	err := r.db.Where("test_id = ?", testID).Order("used_at DESC, id DESC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list test history: %w", err)
	}
	return entries, nil
}

func (r *testRepository) Count() (int64, error) {
	return r.qe.Count("tests", nil)
}
