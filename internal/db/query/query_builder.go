package query

import (
	"fmt"
	"sort"
	"strings"
)

// QueryBuilder assembles simple SELECT, UPDATE and DELETE statements with
// positional placeholders. Table and column names are trusted input.
type QueryBuilder struct {
	query      strings.Builder
	table      string
	conditions []string
	columns    []string
	values     []interface{}
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

func (qb *QueryBuilder) Select(columns ...string) *QueryBuilder {
	qb.columns = append(qb.columns, columns...)
	return qb
}

func (qb *QueryBuilder) From(table string) *QueryBuilder {
	qb.table = table
	return qb
}

// Where adds a condition. Conditions are joined with AND.
func (qb *QueryBuilder) Where(condition string, args ...interface{}) *QueryBuilder {
	qb.conditions = append(qb.conditions, condition)
	qb.values = append(qb.values, args...)
	return qb
}

// WherePredicate adds a built FilterPredicate as one condition.
func (qb *QueryBuilder) WherePredicate(p *FilterPredicate) *QueryBuilder {
	sql, args := p.Build()
	if sql == "" {
		return qb
	}
	return qb.Where("("+sql+")", args...)
}

func (qb *QueryBuilder) Update(table string) *QueryBuilder {
	qb.table = table
	qb.query.WriteString(fmt.Sprintf("UPDATE %s SET ", table))
	return qb
}

// Set must follow Update and precede Where so placeholders line up.
// Columns are written in name order.
func (qb *QueryBuilder) Set(assignments map[string]interface{}) *QueryBuilder {
	cols := make([]string, 0, len(assignments))
	for col := range assignments {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols))
	for _, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = ?", col))
		qb.values = append(qb.values, assignments[col])
	}
	qb.query.WriteString(strings.Join(sets, ", "))
	return qb
}

func (qb *QueryBuilder) DeleteFrom(table string) *QueryBuilder {
	qb.table = table
	qb.query.WriteString(fmt.Sprintf("DELETE FROM %s", table))
	return qb
}

func (qb *QueryBuilder) Build() (string, []interface{}) {
	if qb.query.Len() == 0 {
		if len(qb.columns) > 0 {
			qb.query.WriteString(fmt.Sprintf("SELECT %s FROM %s", strings.Join(qb.columns, ", "), qb.table))
		} else {
			qb.query.WriteString(fmt.Sprintf("SELECT * FROM %s", qb.table))
		}
	}

	if len(qb.conditions) > 0 {
		qb.query.WriteString(" WHERE " + strings.Join(qb.conditions, " AND "))
	}

	return qb.query.String(), qb.values
}
