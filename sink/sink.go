// Package sink persists consolidated tables.
package sink

import (
	"context"
	"regexp"
	"sync"

	"github.com/teranos/paddock/errors"
	"github.com/teranos/paddock/recordset"
)

// Sink is durable storage for named tables. Writing a name again replaces the
// previous table.
type Sink interface {
	Write(ctx context.Context, name string, table *recordset.Set) error
	// Target describes where name is written (file path, table reference).
	Target(name string) string
}

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateName rejects names that could escape the output location.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return errors.Newf("invalid table name %q", name)
	}
	return nil
}

// Memory keeps written tables in memory, in write order.
type Memory struct {
	mu     sync.Mutex
	tables map[string]*recordset.Set
	order  []string
	// Fail makes Write return the mapped error for that name.
	Fail map[string]error
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string]*recordset.Set)}
}

func (m *Memory) Write(ctx context.Context, name string, table *recordset.Set) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.Fail[name]; ok {
		return err
	}
	if _, seen := m.tables[name]; !seen {
		m.order = append(m.order, name)
	}
	m.tables[name] = table.Clone()
	return nil
}

func (m *Memory) Target(name string) string {
	return "memory:" + name
}

// Table returns the last table written under name.
func (m *Memory) Table(name string) (*recordset.Set, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[name]
	return t, ok
}

// Names lists written table names in first-write order.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}
