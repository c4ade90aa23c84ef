package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryBuilder(t *testing.T) {
	sql, args := NewQueryBuilder().
		Update("words").
		Set(map[string]interface{}{"difficulty": 2, "category_id": 1}).
		Where("category_id = ?", 7).
		Build()
	assert.Equal(t, "UPDATE words SET category_id = ?, difficulty = ? WHERE category_id = ?", sql)
	assert.Equal(t, []interface{}{1, 2, 7}, args)

	sql, args = NewQueryBuilder().DeleteFrom("test_items").Where("test_id = ?", 3).Build()
	assert.Equal(t, "DELETE FROM test_items WHERE test_id = ?", sql)
	assert.Equal(t, []interface{}{3}, args)

	sql, args = NewQueryBuilder().
		Select("id", "english").
		From("words").
		WherePredicate(NewFilterPredicate().Equal("category_id", 2).Or().Equal("difficulty", 5)).
		Where("id > ?", 10).
		Build()
	assert.Equal(t, "SELECT id, english FROM words WHERE (category_id = ? OR difficulty = ?) AND id > ?", sql)
	assert.Equal(t, []interface{}{2, 5, 10}, args)

	sql, args = NewQueryBuilder().From("categories").WherePredicate(NewFilterPredicate()).Build()
	assert.Equal(t, "SELECT * FROM categories", sql)
	assert.Empty(t, args)
}
