package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"vocabtest-backend/internal/db"
	"vocabtest-backend/internal/db/query"
	"vocabtest-backend/internal/model"
)

// WordFilter narrows a word listing. Zero values mean "no filter".
type WordFilter struct {
	Search     string
	CategoryID uint
	Difficulty int
	Limit      int
	Offset     int
}

type WordRepository interface {
	List(filter WordFilter) ([]model.WordWithCategory, int64, error)
	GetByID(id uint) (*model.WordWithCategory, error)
	Create(word *model.Word) error
	Update(word *model.Word) error
	Delete(id uint) error
	DeleteMany(ids []uint) (int64, error)
	Range(startID, endID uint, categoryID *uint) ([]model.WordWithCategory, error)
	ByIDs(ids []uint) ([]model.WordWithCategory, error)
	PoolIDs(categoryID *uint) ([]uint, error)
	FindDuplicate(english, japanese string) (bool, error)
	IncrementFrequencyForTest(testID uint) (int64, error)
	Count() (int64, error)
}

type wordRepository struct {
	db *gorm.DB
	qe *db.QueryExecutor
}

func NewWordRepository(conn *gorm.DB) WordRepository {
	return &wordRepository{db: conn, qe: db.NewQueryExecutor(conn)}
}

// joined starts a words query with the category name attached.
func (r *wordRepository) joined() *gorm.DB {
	return r.db.Table("words AS w").
		Select("w.*, c.name AS category_name").
		Joins("LEFT JOIN categories AS c ON w.category_id = c.id")
}

func wordPredicate(f WordFilter) *query.FilterPredicate {
	p := query.NewFilterPredicate()
	if s := strings.TrimSpace(f.Search); s != "" {
		p.Open().Like("w.english", s).Or().Like("w.japanese", s).Close()
	}
	if f.CategoryID != 0 {
		p.Equal("w.category_id", f.CategoryID)
	}
	if f.Difficulty != 0 {
		p.Equal("w.difficulty", f.Difficulty)
	}
	return p
}

func (r *wordRepository) List(f WordFilter) ([]model.WordWithCategory, int64, error) {
	where, args := wordPredicate(f).Build()

	countQ := r.db.Table("words AS w")
	listQ := r.joined()
	if where != "" {
		countQ = countQ.Where(where, args...)
		listQ = listQ.Where(where, args...)
	}

	var total int64
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count words: %w", err)
	}

	words := []model.WordWithCategory{}
	err := listQ.Order("w.id DESC").Limit(f.Limit).Offset(f.Offset).Scan(&words).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list words: %w", err)
	}
	return words, total, nil
}

func (r *wordRepository) GetByID(id uint) (*model.WordWithCategory, error) {
	var words []model.WordWithCategory
	if err := r.joined().Where("w.id = ?", id).Scan(&words).Error; err != nil {
		return nil, fmt.Errorf("get word: %w", err)
	}
	if len(words) == 0 {
		return nil, ErrNotFound
	}
	return &words[0], nil
}

func (r *wordRepository) Create(word *model.Word) error {
	if err := r.db.Create(word).Error; err != nil {
		return fmt.Errorf("create word: %w", err)
	}
	return nil
}

func (r *wordRepository) Update(word *model.Word) error {
	res := r.db.Model(&model.Word{}).Where("id = ?", word.ID).Updates(map[string]interface{}{
		"english":     word.English,
		"japanese":    word.Japanese,
		"category_id": word.CategoryID,
		"difficulty":  word.Difficulty,
	})
	if res.Error != nil {
		return fmt.Errorf("update word: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *wordRepository) Delete(id uint) error {
	n, err := r.DeleteMany([]uint{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes the given words atomically. It refuses with ErrInUse if
// any of them is still part of a test.
func (r *wordRepository) DeleteMany(ids []uint) (int64, error) {
	var deleted int64
	err := r.qe.Transaction(func(tx *db.QueryExecutor) error {
		inUse, err := tx.Exists("test_items", map[string]interface{}{"word_id": ids})
		if err != nil {
			return err
		}
		if inUse {
			return ErrInUse
		}
		res := tx.DB.Where("id IN ?", ids).Delete(&model.Word{})
		if res.Error != nil {
			return fmt.Errorf("delete words: %w", res.Error)
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

func (r *wordRepository) Range(startID, endID uint, categoryID *uint) ([]model.WordWithCategory, error) {
	p := query.NewFilterPredicate().Between("w.id", startID, endID)
	if categoryID != nil {
		p.Equal("w.category_id", *categoryID)
	}
	where, args := p.Build()

	words := []model.WordWithCategory{}
	if err := r.joined().Where(where, args...).Order("w.id").Scan(&words).Error; err != nil {
		return nil, fmt.Errorf("select word range: %w", err)
	}
	return words, nil
}

func (r *wordRepository) ByIDs(ids []uint) ([]model.WordWithCategory, error) {
	words := []model.WordWithCategory{}
	if len(ids) == 0 {
		return words, nil
	}
	if err := r.joined().Where("w.id IN ?", ids).Order("w.id").Scan(&words).Error; err != nil {
		return nil, fmt.Errorf("select words by id: %w", err)
	}
	return words, nil
}

// PoolIDs lists every word id, optionally restricted to one category.
func (r *wordRepository) PoolIDs(categoryID *uint) ([]uint, error) {
	var ids []uint
	q := r.db.Model(&model.Word{})
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if err := q.Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("select word pool: %w", err)
	}
	return ids, nil
}

// FindDuplicate reports whether a word matches english OR japanese,
// ignoring case.
func (r *wordRepository) FindDuplicate(english, japanese string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Word{}).
		Where("LOWER(english) = LOWER(?) OR LOWER(japanese) = LOWER(?)", english, japanese).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("find duplicate word: %w", err)
	}
	return count > 0, nil
}

// IncrementFrequencyForTest bumps the usage counter of every word on a test.
func (r *wordRepository) IncrementFrequencyForTest(testID uint) (int64, error) {
	sub := r.db.Model(&model.TestItem{}).Select("word_id").Where("test_id = ?", testID)
	res := r.db.Model(&model.Word{}).
		Where("id IN (?)", sub).
		UpdateColumn("frequency", gorm.Expr("frequency + ?", 1))
	if res.Error != nil {
		return 0, fmt.Errorf("increment word frequency: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *wordRepository) Count() (int64, error) {
	return r.qe.Count("words", nil)
}
