package query

import "strings"

// FilterPredicate builds a parameterised WHERE fragment. Values are never
// interpolated into the SQL text; Build returns them as bind arguments.
type FilterPredicate struct {
	predicate strings.Builder
	args      []interface{}
	pending   bool
}

func NewFilterPredicate() *FilterPredicate {
	return &FilterPredicate{}
}

func (fp *FilterPredicate) Open() *FilterPredicate {
	fp.join()
	fp.predicate.WriteString("(")
	return fp
}

func (fp *FilterPredicate) Close() *FilterPredicate {
	fp.predicate.WriteString(")")
	fp.pending = true
	return fp
}

func (fp *FilterPredicate) And() *FilterPredicate {
	fp.predicate.WriteString(" AND ")
	fp.pending = false
	return fp
}

func (fp *FilterPredicate) Or() *FilterPredicate {
	fp.predicate.WriteString(" OR ")
	fp.pending = false
	return fp
}

func (fp *FilterPredicate) Not() *FilterPredicate {
	fp.join()
	fp.predicate.WriteString("NOT ")
	return fp
}

func (fp *FilterPredicate) Equal(column string, value interface{}) *FilterPredicate {
	return fp.cond(column+" = ?", value)
}

func (fp *FilterPredicate) NotEqual(column string, value interface{}) *FilterPredicate {
	return fp.cond(column+" <> ?", value)
}

func (fp *FilterPredicate) GreaterThan(column string, value interface{}) *FilterPredicate {
	return fp.cond(column+" > ?", value)
}

func (fp *FilterPredicate) LessThan(column string, value interface{}) *FilterPredicate {
	return fp.cond(column+" < ?", value)
}

func (fp *FilterPredicate) Between(column string, v1, v2 interface{}) *FilterPredicate {
	return fp.cond(column+" BETWEEN ? AND ?", v1, v2)
}

func (fp *FilterPredicate) In(column string, values interface{}) *FilterPredicate {
	return fp.cond(column+" IN ?", values)
}

// Like matches pattern anywhere in column.
func (fp *FilterPredicate) Like(column, pattern string) *FilterPredicate {
	return fp.cond(column+" LIKE ?", "%"+pattern+"%")
}

// Empty reports whether no condition has been added.
func (fp *FilterPredicate) Empty() bool {
	return fp.predicate.Len() == 0
}

// Build returns the SQL fragment and its bind arguments.
func (fp *FilterPredicate) Build() (string, []interface{}) {
	return fp.predicate.String(), fp.args
}

func (fp *FilterPredicate) cond(sql string, args ...interface{}) *FilterPredicate {
	fp.join()
	fp.predicate.WriteString(sql)
	fp.args = append(fp.args, args...)
	fp.pending = true
	return fp
}

// join inserts an implicit AND between two adjacent conditions.
func (fp *FilterPredicate) join() {
	if fp.pending {
		fp.predicate.WriteString(" AND ")
		fp.pending = false
	}
}
