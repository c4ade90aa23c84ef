package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vocabtest-backend/internal/db"
	"vocabtest-backend/internal/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

// seedWords inserts n words named word1..wordN into category 1.
func seedWords(t *testing.T, conn *gorm.DB, n int) {
	t.Helper()
	repo := NewWordRepository(conn)
	for i := 1; i <= n; i++ {
		w := &model.Word{
			English:    fmt.Sprintf("word%d", i),
			Japanese:   fmt.Sprintf("単語%d", i),
			CategoryID: model.DefaultCategoryID,
			Difficulty: 1,
		}
		require.NoError(t, repo.Create(w))
	}
}

func wordIDs(words []model.WordWithCategory) []uint {
	ids := make([]uint, len(words))
	for i, w := range words {
		ids[i] = w.ID
	}
	return ids
}

func TestDefaultCategorySeeded(t *testing.T) {
	conn := openTestDB(t)
	c, err := NewCategoryRepository(conn).GetByID(model.DefaultCategoryID)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCategoryName, c.Name)
}

func TestWordListFilters(t *testing.T) {
	conn := openTestDB(t)
	words := NewWordRepository(conn)
	cats := NewCategoryRepository(conn)

	fruit := &model.Category{Name: "fruit"}
	require.NoError(t, cats.Create(fruit))

	require.NoError(t, words.Create(&model.Word{English: "apple", Japanese: "りんご", CategoryID: fruit.ID, Difficulty: 2}))
	require.NoError(t, words.Create(&model.Word{English: "pineapple", Japanese: "パイナップル", CategoryID: fruit.ID, Difficulty: 3}))
	require.NoError(t, words.Create(&model.Word{English: "dog", Japanese: "犬", CategoryID: model.DefaultCategoryID, Difficulty: 1}))

	got, total, err := words.List(WordFilter{Search: "apple", Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, got, 2)
	assert.Equal(t, "pineapple", got[0].English, "newest first")
	assert.Equal(t, "fruit", got[0].CategoryName)

	got, total, err = words.List(WordFilter{Search: "犬", Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "dog", got[0].English)

	got, total, err = words.List(WordFilter{CategoryID: fruit.ID, Difficulty: 3, Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "pineapple", got[0].English)

	got, total, err = words.List(WordFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, got, 1)
	assert.Equal(t, "pineapple", got[0].English)
}

func TestWordRangeAndIDs(t *testing.T) {
	conn := openTestDB(t)
	seedWords(t, conn, 10)
	words := NewWordRepository(conn)

	got, err := words.Range(3, 6, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 4, 5, 6}, wordIDs(got))

	other := uint(99)
	got, err = words.Range(1, 10, &other)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = words.ByIDs([]uint{9, 2, 42})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{2, 9}, wordIDs(got))

	pool, err := words.PoolIDs(nil)
	require.NoError(t, err)
	assert.Len(t, pool, 10)
}

func TestWordBulkDelete(t *testing.T) {
	conn := openTestDB(t)
	seedWords(t, conn, 5)
	words := NewWordRepository(conn)

	n, err := words.DeleteMany([]uint{2, 3})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	pool, err := words.PoolIDs(nil)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 4, 5}, pool)

	assert.ErrorIs(t, words.Delete(2), ErrNotFound)
}

func TestWordDeleteRefusedWhileOnTest(t *testing.T) {
	conn := openTestDB(t)
	seedWords(t, conn, 3)
	words := NewWordRepository(conn)
	tests := NewTestRepository(conn)

	test := &model.Test{Title: "t", TestType: model.EnglishToJapanese, QuestionCount: 1, Code: "abc"}
	require.NoError(t, tests.CreateWithItems(test, []model.TestItem{{WordID: 2, QuestionOrder: 1, QuestionType: model.EnglishToJapanese}}))

	_, err := words.DeleteMany([]uint{1, 2})
	assert.ErrorIs(t, err, ErrInUse)

	pool, err := words.PoolIDs(nil)
	require.NoError(t, err)
	assert.Len(t, pool, 3, "bulk delete is all-or-nothing")
}

func TestWordFindDuplicate(t *testing.T) {
	conn := openTestDB(t)
	words := NewWordRepository(conn)
	require.NoError(t, words.Create(&model.Word{English: "Apple", Japanese: "りんご", CategoryID: 1, Difficulty: 1}))

	dup, err := words.FindDuplicate("apple", "林檎")
	require.NoError(t, err)
	assert.True(t, dup)

	dup, err = words.FindDuplicate("pear", "りんご")
	require.NoError(t, err)
	assert.True(t, dup)

	dup, err = words.FindDuplicate("pear", "なし")
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestCategoryDeleteReassignsWords(t *testing.T) {
	conn := openTestDB(t)
	words := NewWordRepository(conn)
	cats := NewCategoryRepository(conn)
	tests := NewTestRepository(conn)

	animals := &model.Category{Name: "animals"}
	require.NoError(t, cats.Create(animals))
	dog := &model.Word{English: "dog", Japanese: "犬", CategoryID: animals.ID, Difficulty: 1}
	require.NoError(t, words.Create(dog))

	test := &model.Test{Title: "animals", TestType: model.Mixed, QuestionCount: 1, CategoryID: &animals.ID, Code: "c1"}
	require.NoError(t, tests.CreateWithItems(test, []model.TestItem{{WordID: dog.ID, QuestionOrder: 1, QuestionType: model.EnglishToJapanese}}))

	require.NoError(t, cats.Delete(animals.ID))

	got, err := words.GetByID(dog.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCategoryID, got.CategoryID)

	stored, err := tests.GetByID(test.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CategoryID)

	_, err = cats.GetByID(animals.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, cats.Delete(animals.ID), ErrNotFound)
}

func TestCategoryListCountsWords(t *testing.T) {
	conn := openTestDB(t)
	seedWords(t, conn, 4)

	list, err := NewCategoryRepository(conn).List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 4, list[0].WordCount)
}

func TestTestCreateWithItemsRollsBack(t *testing.T) {
	conn := openTestDB(t)
	seedWords(t, conn, 2)
	tests := NewTestRepository(conn)

	test := &model.Test{Title: "broken", TestType: model.EnglishToJapanese, QuestionCount: 2, Code: "rb"}
	items := []model.TestItem{
		{WordID: 1, QuestionOrder: 1, QuestionType: model.EnglishToJapanese},
		{WordID: 2, QuestionOrder: 1, QuestionType: model.EnglishToJapanese},
	}
	require.Error(t, tests.CreateWithItems(test, items))

	n, err := tests.Count()
	require.NoError(t, err)
	assert.Zero(t, n, "a failed item insert must not leave the test behind")
}

func TestTestItemsHistoryAndDelete(t *testing.T) {
	conn := openTestDB(t)
	seedWords(t, conn, 3)
	tests := NewTestRepository(conn)
	words := NewWordRepository(conn)

	test := &model.Test{Title: "quiz", TestType: model.Mixed, QuestionCount: 2, Code: "q1"}
	require.NoError(t, tests.CreateWithItems(test, []model.TestItem{
		{WordID: 3, QuestionOrder: 1, QuestionType: model.EnglishToJapanese},
		{WordID: 1, QuestionOrder: 2, QuestionType: model.JapaneseToEnglish},
	}))

	items, err := tests.Items(test.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "word3", items[0].English)
	assert.Equal(t, 2, items[1].QuestionOrder)

	notes := "period 2"
	require.NoError(t, tests.AddHistory(&model.TestHistory{TestID: test.ID, Notes: &notes}))
	n, err := words.IncrementFrequencyForTest(test.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	w, err := words.GetByID(3)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Frequency)

	require.NoError(t, tests.Delete(test.ID))
	assert.ErrorIs(t, tests.Delete(test.ID), ErrNotFound)

	items, err = tests.Items(test.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	history, err := tests.History(test.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1, "usage log survives test deletion")
}
