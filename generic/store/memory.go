// Package store provides Source implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/site-statement/generic"
)

// =============================================================================
// MEMORY SOURCE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	ledgers map[string]generic.RawLedger
	failing map[string]error
}

func NewMemory() *Memory {
	return &Memory{
		ledgers: make(map[string]generic.RawLedger),
		failing: make(map[string]error),
	}
}

// Put registers (or replaces) a ledger under its Name.
func (m *Memory) Put(ledger generic.RawLedger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledgers[ledger.Name] = copyLedger(ledger)
}

// Fail makes LoadLedger return err for name. Used to exercise batch isolation.
func (m *Memory) Fail(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[name] = err
}

func (m *Memory) ListLedgers(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.ledgers)+len(m.failing))
	seen := make(map[string]bool)
	for name := range m.ledgers {
		names = append(names, name)
		seen[name] = true
	}
	for name := range m.failing {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *Memory) LoadLedger(ctx context.Context, name string) (generic.RawLedger, error) {
	if err := ctx.Err(); err != nil {
		return generic.RawLedger{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.failing[name]; ok {
		return generic.RawLedger{}, err
	}
	ledger, ok := m.ledgers[name]
	if !ok {
		return generic.RawLedger{}, generic.ErrLedgerNotFound
	}
	return copyLedger(ledger), nil
}

// copyLedger hands out an independent copy so callers can never alias
// the stored records.
func copyLedger(l generic.RawLedger) generic.RawLedger {
	out := generic.RawLedger{
		Name:    l.Name,
		Columns: append([]string(nil), l.Columns...),
		Summary: append([]generic.SummaryRow(nil), l.Summary...),
		Client:  l.Client,
		Records: make([]generic.RawRecord, len(l.Records)),
	}
	for i, r := range l.Records {
		rec := make(generic.RawRecord, len(r))
		for k, v := range r {
			rec[k] = v
		}
		out.Records[i] = rec
	}
	return out
}

var _ generic.Source = (*Memory)(nil)
