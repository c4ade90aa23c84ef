package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vocabtest-backend/internal/db"
	"vocabtest-backend/internal/model"
	"vocabtest-backend/internal/repository"
)

type fixture struct {
	conn       *gorm.DB
	words      repository.WordRepository
	categories repository.CategoryRepository
	tests      repository.TestRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return &fixture{
		conn:       conn,
		words:      repository.NewWordRepository(conn),
		categories: repository.NewCategoryRepository(conn),
		tests:      repository.NewTestRepository(conn),
	}
}

// seed adds n words (word1/単語1 ...) to the given category.
func (f *fixture) seed(t *testing.T, n int, categoryID uint) []uint {
	t.Helper()
	ids := make([]uint, 0, n)
	for i := 1; i <= n; i++ {
		w := &model.Word{
			English:    fmt.Sprintf("word%d", i),
			Japanese:   fmt.Sprintf("単語%d", i),
			CategoryID: categoryID,
			Difficulty: 1,
		}
		require.NoError(t, f.words.Create(w))
		ids = append(ids, w.ID)
	}
	return ids
}

func (f *fixture) category(t *testing.T, name string) uint {
	t.Helper()
	c := &model.Category{Name: name}
	require.NoError(t, f.categories.Create(c))
	return c.ID
}

func uintPtr(v uint) *uint { return &v }
func intPtr(v int) *int    { return &v }
func strPtr(v string) *string {
	return &v
}

func ids(words []model.WordWithCategory) []uint {
	out := make([]uint, len(words))
	for i, w := range words {
		out[i] = w.ID
	}
	return out
}
