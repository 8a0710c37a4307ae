package store

import (
	"context"
	"sort"
	"sync"

	"github.com/jask/omnibar/internal/candidate"
)

// Memory is an in-process store with the same surface as SQLite.
type Memory struct {
	mu     sync.Mutex
	kv     map[string]string
	recent map[string]candidate.RecentItem
}

func NewMemory() *Memory {
	return &Memory{kv: map[string]string{}, recent: map[string]candidate.RecentItem{}}
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Lookup(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.kv[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.kv[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.kv, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(key string) (string, bool) {
	v, err := m.Lookup(context.Background(), key)
	return v, err == nil
}

func (m *Memory) Set(key, value string) { _ = m.Put(context.Background(), key, value) }

func recentKey(kind, id string) string { return kind + "\x00" + id }

func (m *Memory) PutRecent(_ context.Context, it candidate.RecentItem) error {
	m.mu.Lock()
	m.recent[recentKey(it.Type, it.ID)] = it
	m.mu.Unlock()
	return nil
}

func (m *Memory) Recent(_ context.Context, limit int) ([]candidate.RecentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedLocked(limit), nil
}

func (m *Memory) sortedLocked(limit int) []candidate.RecentItem {
	out := make([]candidate.RecentItem, 0, len(m.recent))
	for _, it := range m.recent {
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastVisitedAt.Equal(out[j].LastVisitedAt) {
			return out[i].LastVisitedAt.After(out[j].LastVisitedAt)
		}
		return recentKey(out[i].Type, out[i].ID) < recentKey(out[j].Type, out[j].ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *Memory) TrimRecent(_ context.Context, keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := map[string]candidate.RecentItem{}
	if keep > 0 {
		for _, it := range m.sortedLocked(keep) {
			kept[recentKey(it.Type, it.ID)] = it
		}
	}
	m.recent = kept
	return nil
}

func (m *Memory) Visit(ctx context.Context, it candidate.RecentItem, keep int) error {
	_ = m.PutRecent(ctx, it)
	return m.TrimRecent(ctx, keep)
}

func (m *Memory) DeleteRecent(_ context.Context, kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := recentKey(kind, id)
	if _, ok := m.recent[k]; !ok {
		return ErrNotFound
	}
	delete(m.recent, k)
	return nil
}

func (m *Memory) ClearRecent(_ context.Context) error {
	m.mu.Lock()
	m.recent = map[string]candidate.RecentItem{}
	m.mu.Unlock()
	return nil
}
