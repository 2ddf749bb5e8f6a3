package collect

import "github.com/teranos/paddock/recordset"

// Accumulators gathers record sets per category for one run. Sets are only
// ever appended; the pipeline drains them once at the end.
type Accumulators struct {
	sets map[Category][]*recordset.Set
}

// NewAccumulators creates empty accumulators.
func NewAccumulators() *Accumulators {
	return &Accumulators{sets: make(map[Category][]*recordset.Set, len(Categories))}
}

// Add appends set to category. Nil and row-less sets are absent and skipped.
func (a *Accumulators) Add(c Category, set *recordset.Set) {
	if set.Empty() {
		return
	}
	a.sets[c] = append(a.sets[c], set)
}

// Merge appends every present set of y.
func (a *Accumulators) Merge(y *Yield) {
	for _, c := range Categories {
		a.Add(c, y.Get(c))
	}
}

// Sets returns the accumulated sets of category in append order.
func (a *Accumulators) Sets(c Category) []*recordset.Set {
	return a.sets[c]
}

// Rows counts accumulated rows of category.
func (a *Accumulators) Rows(c Category) int {
	n := 0
	for _, s := range a.sets[c] {
		n += s.Len()
	}
	return n
}
