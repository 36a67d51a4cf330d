// Package store provides CellStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/lokeswaran22/time/grid"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements grid.CellStore and grid.AuditLog in process memory.
type Memory struct {
	mu    sync.RWMutex
	cells map[grid.CellKey]grid.Cell
	audit []grid.AuditEntry
}

func NewMemory() *Memory {
	return &Memory{cells: make(map[grid.CellKey]grid.Cell)}
}

func (m *Memory) Get(_ context.Context, key grid.CellKey) (*grid.Cell, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cell, ok := m.cells[key]
	if !ok {
		return nil, nil
	}
	return &cell, nil
}

// Set upserts by key: last write wins.
func (m *Memory) Set(_ context.Context, key grid.CellKey, cell grid.Cell) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cells[key] = cell
	return nil
}

func (m *Memory) Delete(_ context.Context, key grid.CellKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.cells, key)
	return nil
}

func (m *Memory) ListForDate(_ context.Context, date grid.DateKey) ([]grid.CellRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []grid.CellRecord
	for key, cell := range m.cells {
		if key.Date == date {
			records = append(records, grid.CellRecord{Key: key, Cell: cell})
		}
	}
	return records, nil
}

// Len reports the number of stored cells (test helper).
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cells)
}

// =============================================================================
// AUDIT LOG
// =============================================================================

func (m *Memory) Append(_ context.Context, entry grid.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.audit = append(m.audit, entry)
	return nil
}

// Recent returns up to limit entries, newest first.
func (m *Memory) Recent(_ context.Context, limit int) ([]grid.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.audit)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]grid.AuditEntry, 0, n)
	for i := len(m.audit) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.audit[i])
	}
	return out, nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.audit = nil
	return nil
}
