package repository

import (
	"fmt"

	"gorm.io/gorm"

	"vocabtest-backend/internal/db"
	"vocabtest-backend/internal/db/query"
	"vocabtest-backend/internal/model"
)

type CategoryRepository interface {
	List() ([]model.CategoryWithCount, error)
	GetByID(id uint) (*model.Category, error)
	GetByName(name string) (*model.Category, error)
	NameTaken(name string, excludeID uint) (bool, error)
	Exists(id uint) (bool, error)
	Create(category *model.Category) error
	Update(category *model.Category) error
	Delete(id uint) error
	Count() (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
	qe *db.QueryExecutor
}

func NewCategoryRepository(conn *gorm.DB) CategoryRepository {
	return &categoryRepository{db: conn, qe: db.NewQueryExecutor(conn)}
}

func (r *categoryRepository) List() ([]model.CategoryWithCount, error) {
	categories := []model.CategoryWithCount{}
	err := r.db.Table("categories AS c").
		Select("c.*, COUNT(w.id) AS word_count").
		Joins("LEFT JOIN words AS w ON c.id = w.category_id").
		Group("c.id, c.name, c.description, c.created_at").
		Order("c.id").
		Scan(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (r *categoryRepository) GetByName(name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (r *categoryRepository) NameTaken(name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(&model.Category{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	return count > 0, nil
}

func (r *categoryRepository) Exists(id uint) (bool, error) {
	return r.qe.Exists("categories", map[string]interface{}{"id": id})
}

func (r *categoryRepository) Create(category *model.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	res := r.db.Model(&model.Category{}).Where("id = ?", category.ID).Updates(map[string]interface{}{
		"name":        category.Name,
		"description": category.Description,
	})
	if res.Error != nil {
		return fmt.Errorf("update category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Updates reports zero rows when nothing changed on some drivers.
		ok, err := r.Exists(category.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
	}
	return nil
}

// Delete moves the category's words to the default category, detaches tests
// filtered on it and removes the row, all in one transaction.
func (r *categoryRepository) Delete(id uint) error {
	reassign, reassignArgs := query.NewQueryBuilder().
		Update("words").
		Set(map[string]interface{}{"category_id": model.DefaultCategoryID}).
		Where("category_id = ?", id).
		Build()
	detach, detachArgs := query.NewQueryBuilder().
		Update("tests").
		Set(map[string]interface{}{"category_id": nil}).
		Where("category_id = ?", id).
		Build()
	remove, removeArgs := query.NewQueryBuilder().DeleteFrom("categories").Where("id = ?", id).Build()

	return r.qe.Transaction(func(tx *db.QueryExecutor) error {
		if _, err := tx.RawExec(reassign, reassignArgs...); err != nil {
			return fmt.Errorf("reassign words: %w", err)
		}
		if _, err := tx.RawExec(detach, detachArgs...); err != nil {
			return fmt.Errorf("detach tests: %w", err)
		}
		n, err := tx.RawExec(remove, removeArgs...)
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *categoryRepository) Count() (int64, error) {
	return r.qe.Count("categories", nil)
}

