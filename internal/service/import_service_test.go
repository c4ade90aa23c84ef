package service

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocabtest-backend/internal/model"
	"vocabtest-backend/internal/repository"
)

func boolPtr(v bool) *bool { return &v }

func TestImportDefaults(t *testing.T) {
	f := newFixture(t)
	svc := NewImportService(f.words, f.categories, nil)

	res, err := svc.Import(ImportRequest{Words: []ImportRow{{English: "apple", Japanese: "りんご"}}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, "Successfully imported 1 words", res.Message())

	page, _, err := f.words.List(repository.WordFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, model.DefaultCategoryID, page[0].CategoryID)
	assert.Equal(t, 1, page[0].Difficulty)
}

func TestImportSkipsDuplicates(t *testing.T) {
	f := newFixture(t)
	svc := NewImportService(f.words, f.categories, nil)
	require.NoError(t, f.words.Create(&model.Word{English: "apple", Japanese: "りんご", CategoryID: 1, Difficulty: 1}))

	res, err := svc.Import(ImportRequest{
		Words:   []ImportRow{{English: "Apple", Japanese: "林檎"}, {English: "pear", Japanese: "なし"}},
		Options: ImportOptions{SkipDuplicates: boolPtr(true)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 2, res.TotalProcessed)
	assert.Equal(t, "Successfully imported 1 words, skipped 1 duplicates", res.Message())

	res, err = svc.Import(ImportRequest{
		Words:   []ImportRow{{English: "apple", Japanese: "林檎"}},
		Options: ImportOptions{SkipDuplicates: boolPtr(false)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
}

func TestImportCategories(t *testing.T) {
	f := newFixture(t)
	svc := NewImportService(f.words, f.categories, nil)

	res, err := svc.Import(ImportRequest{Words: []ImportRow{
		{English: "dog", Japanese: "犬", Category: "animals", Difficulty: 2},
		{English: "cat", Japanese: "猫", Category: "animals"},
		{English: "run", Japanese: "走る", Category: model.DefaultCategoryName},
	}})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Imported)

	animals, err := f.categories.GetByName("animals")
	require.NoError(t, err)
	require.NotNil(t, animals.Description)
	assert.Equal(t, "Imported category: animals", *animals.Description)

	pool, err := f.words.PoolIDs(&animals.ID)
	require.NoError(t, err)
	assert.Len(t, pool, 2)

	res, err = svc.Import(ImportRequest{
		Words:   []ImportRow{{English: "red", Japanese: "赤", Category: "colours"}},
		Options: ImportOptions{CreateCategories: boolPtr(false)},
	})
	require.NoError(t, err)
	assert.Zero(t, res.Imported)
	assert.Equal(t, 1, res.Errors)
	assert.Contains(t, res.ErrorDetails[0], "colours")
	assert.Equal(t, "Successfully imported 0 words, 1 errors occurred", res.Message())
}

func TestImportErrorDetailsCapped(t *testing.T) {
	f := newFixture(t)
	svc := NewImportService(f.words, f.categories, nil)

	rows := make([]ImportRow, 0, 15)
	for i := 0; i < 12; i++ {
		rows = append(rows, ImportRow{English: fmt.Sprintf("w%d", i)})
	}
	rows = append(rows, ImportRow{English: "ok", Japanese: "良い"})

	res, err := svc.Import(ImportRequest{Words: rows})
	require.NoError(t, err)
	assert.Equal(t, 12, res.Errors)
	assert.Len(t, res.ErrorDetails, maxErrorDetails)
	assert.Equal(t, 13, res.TotalProcessed)
	assert.Equal(t, 1, res.Imported)
}

func TestImportRejectsEmpty(t *testing.T) {
	f := newFixture(t)
	_, err := NewImportService(f.words, f.categories, nil).Import(ImportRequest{})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDifficultyParsing(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{`3`, 3},
		{`"4"`, 4},
		{`"2 (easy)"`, 2},
		{`9`, 5},
		{`-2`, 1},
		{`0`, 1},
		{`"hard"`, 1},
		{`null`, 1},
		{`2.7`, 2},
	}
	for _, tc := range cases {
		var row ImportRow
		require.NoError(t, json.Unmarshal([]byte(`{"english":"a","japanese":"b","difficulty":`+tc.raw+`}`), &row), tc.raw)
		assert.Equal(t, tc.want, clampDifficulty(row.Difficulty), tc.raw)
	}
}
