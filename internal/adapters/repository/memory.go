package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore keeps shares in process memory, newest last.
type MemoryStore struct {
	settings

	mu     sync.RWMutex
	shares []Share
	byID   map[string]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		settings: defaultSettings(opts),
		byID:     make(map[string]int),
	}
}

func (m *MemoryStore) Create(_ context.Context, name, params string) (Share, error) {
	sh, err := newShare(m.settings, name, params)
	if err != nil {
		return Share{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.byID[sh.ID]; dup {
		return Share{}, fmt.Errorf("%w: duplicate id %q", ErrInvalidShare, sh.ID)
	}
	m.byID[sh.ID] = len(m.shares)
	m.shares = append(m.shares, sh)
	return sh, nil
}

func (m *MemoryStore) List(_ context.Context, limit int) ([]Share, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit > len(m.shares) {
		limit = len(m.shares)
	}
	out := make([]Share, 0, limit)
	for i := len(m.shares) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.shares[i])
	}
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Share, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.byID[id]
	if !ok {
		return Share{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return m.shares[i], nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	m.shares = append(m.shares[:i], m.shares[i+1:]...)
	delete(m.byID, id)
	for j := i; j < len(m.shares); j++ {
		m.byID[m.shares[j].ID] = j
	}
	return nil
}

func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.shares), nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

func newShare(s settings, name, params string) (Share, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Share{}, fmt.Errorf("%w: empty name", ErrInvalidShare)
	}
	return Share{
		ID:        s.newID(),
		Name:      name,
		Params:    params,
		CreatedAt: s.now(),
	}, nil
}
