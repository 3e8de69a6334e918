package filter

import (
	"context"
	"sync"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/dataset"
)

// DefaultMemoSize bounds the number of cached results.
const DefaultMemoSize = 64

// Memo caches results keyed by table identity and request fingerprint.
// Tables without an identity are never cached. A cached Result is shared
// between callers and must be treated as read-only.
type Memo struct {
	max int

	mu      sync.Mutex
	entries map[string]*Result
	order   []string
	hits    int
	misses  int
}

// NewMemo creates a memo holding at most size results. Non-positive size
// means DefaultMemoSize.
func NewMemo(size int) *Memo {
	if size <= 0 {
		size = DefaultMemoSize
	}

	return &Memo{
		max:     size,
		entries: make(map[string]*Result),
	}
}

// Apply returns the cached result for (t, req) or computes and stores it.
func (m *Memo) Apply(ctx context.Context, t *dataset.Table, req Request) (*Result, error) {
	if t == nil || t.Identity == "" {
		return Apply(ctx, t, req)
	}

	key := t.Identity + "#" + req.Key()

	m.mu.Lock()
	if res, ok := m.entries[key]; ok {
		m.hits++
		m.mu.Unlock()

		return res, nil
	}
	m.mu.Unlock()

	res, err := Apply(ctx, t, req)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.misses++

	if _, ok := m.entries[key]; !ok {
		m.order = append(m.order, key)
	}

	m.entries[key] = res

	for len(m.order) > m.max {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.entries, oldest)
	}

	return res, nil
}

// Len returns the number of cached results.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

// Stats returns the number of hits and misses.
func (m *Memo) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.hits, m.misses
}
