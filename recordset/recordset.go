// Package recordset holds tabular, schema-carrying batches of provider rows.
//
// A Set is an ordered list of columns plus an ordered list of rows. Provider
// schemas drift between seasons, so nothing here assumes a fixed schema: the
// column list is the union of keys in first-seen order, and a row may lack any
// column (rendered empty on output).
package recordset

import "sort"

// Row is one record. A missing key and a nil value both mean "null".
type Row map[string]any

// IsNull reports whether column is absent or nil in the row.
func (r Row) IsNull(column string) bool {
	v, ok := r[column]
	return !ok || v == nil
}

// Set is an ordered batch of rows sharing a column list.
type Set struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// New creates a set with the given columns and rows. Keys present in rows but
// not in columns are appended to the column list, sorted per row.
func New(columns []string, rows ...Row) *Set {
	s := &Set{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		s.addColumn(c)
	}
	for _, r := range rows {
		s.Append(r)
	}
	return s
}

func (s *Set) addColumn(column string) {
	if _, ok := s.index[column]; ok {
		return
	}
	s.index[column] = len(s.columns)
	s.columns = append(s.columns, column)
}

// Append adds a row, widening the column list with any unseen keys in sorted
// order so the result stays deterministic.
func (s *Set) Append(row Row) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	for _, key := range sortedKeys(row) {
		s.addColumn(key)
	}
	s.rows = append(s.rows, row)
}

// Columns returns the column list. The caller must not modify it.
func (s *Set) Columns() []string {
	if s == nil {
		return nil
	}
	return s.columns
}

// HasColumn reports whether column is part of the schema.
func (s *Set) HasColumn(column string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[column]
	return ok
}

// Rows returns the rows. The caller must not modify them.
func (s *Set) Rows() []Row {
	if s == nil {
		return nil
	}
	return s.rows
}

// Len returns the number of rows; a nil set has none.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rows)
}

// Empty reports whether the set is nil or has no rows.
func (s *Set) Empty() bool {
	return s.Len() == 0
}

// Get returns the value of column in row i.
func (s *Set) Get(i int, column string) any {
	return s.rows[i][column]
}

// Clone returns a deep-enough copy: new column list, new row maps, shared values.
func (s *Set) Clone() *Set {
	if s == nil {
		return nil
	}
	out := &Set{
		columns: append([]string(nil), s.columns...),
		index:   make(map[string]int, len(s.index)),
		rows:    make([]Row, len(s.rows)),
	}
	for k, v := range s.index {
		out.index[k] = v
	}
	for i, r := range s.rows {
		cp := make(Row, len(r)+3)
		for k, v := range r {
			cp[k] = v
		}
		out.rows[i] = cp
	}
	return out
}

// Tag returns a copy of the set with column set to value on every row.
// A new column is appended to the end of the schema; an existing one is
// overwritten in place.
func (s *Set) Tag(column string, value any) *Set {
	return s.Derive(column, func(Row) any { return value })
}

// Derive returns a copy of the set with column computed per row by fn.
// Column placement follows Tag.
func (s *Set) Derive(column string, fn func(Row) any) *Set {
	out := s.Clone()
	if out == nil {
		out = New(nil)
	}
	out.addColumn(column)
	for _, r := range out.rows {
		r[column] = fn(r)
	}
	return out
}

// Filter returns a copy containing only the rows for which keep returns true.
// The schema is kept as is, even when no row survives.
func (s *Set) Filter(keep func(Row) bool) *Set {
	if s == nil {
		return nil
	}
	out := &Set{
		columns: append([]string(nil), s.columns...),
		index:   make(map[string]int, len(s.index)),
	}
	for k, v := range s.index {
		out.index[k] = v
	}
	for _, r := range s.rows {
		if keep(r) {
			cp := make(Row, len(r))
			for k, v := range r {
				cp[k] = v
			}
			out.rows = append(out.rows, cp)
		}
	}
	return out
}

// NotNull is a Filter predicate keeping rows where column has a value.
func NotNull(column string) func(Row) bool {
	return func(r Row) bool { return !r.IsNull(column) }
}

// Concat stacks sets in order into one table. The column list is the union of
// all column lists in first-seen order; rows keep their accumulation order.
// Nil sets are skipped.
func Concat(sets ...*Set) *Set {
	out := New(nil)
	for _, s := range sets {
		if s == nil {
			continue
		}
		for _, c := range s.columns {
			out.addColumn(c)
		}
		out.rows = append(out.rows, s.rows...)
	}
	return out
}

func sortedKeys(r Row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
