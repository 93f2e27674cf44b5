package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used in development and tests. Records
// are kept in ingestion order per path.
type MemoryStore struct {
	mu     sync.Mutex
	paths  map[string]*memCollection
	subs   map[string]map[*Subscription]struct{}
	closed bool
}

type memCollection struct {
	order []string
	byKey map[string]Fields
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		paths: make(map[string]*memCollection),
		subs:  make(map[string]map[*Subscription]struct{}),
	}
}

// ReadOnce returns all records under path in ingestion order.
func (m *MemoryStore) ReadOnce(ctx context.Context, path string) ([]Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(path), nil
}

// ReadChild returns a single record's fields, or ErrNotFound.
func (m *MemoryStore) ReadChild(ctx context.Context, path, key string) (Fields, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.paths[path]
	if !ok {
		return nil, ErrNotFound
	}
	fields, ok := col.byKey[key]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneFields(fields), nil
}

// Write upserts a record and notifies observers of path.
func (m *MemoryStore) Write(ctx context.Context, path, key string, fields Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.paths[path]
	if !ok {
		col = &memCollection{byKey: make(map[string]Fields)}
		m.paths[path] = col
	}
	if _, exists := col.byKey[key]; !exists {
		col.order = append(col.order, key)
	}
	col.byKey[key] = cloneFields(fields)

	m.notifyLocked(path)
	return nil
}

// GenerateID returns a new unique record key.
func (m *MemoryStore) GenerateID(path string) string {
	return uuid.NewString()
}

// Observe registers an observer of path and delivers the current snapshot
// immediately.
func (m *MemoryStore) Observe(path string) *Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := newSubscription(path, m.unregister)
	set, ok := m.subs[path]
	if !ok {
		set = make(map[*Subscription]struct{})
		m.subs[path] = set
	}
	set[sub] = struct{}{}

	sub.publish(m.snapshotLocked(path))
	return sub
}

// Close cancels all subscriptions and discards stored records.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	var all []*Subscription
	for _, set := range m.subs {
		for sub := range set {
			all = append(all, sub)
		}
	}
	m.subs = make(map[string]map[*Subscription]struct{})
	m.mu.Unlock()

	for _, sub := range all {
		sub.Close()
	}
	return nil
}

func (m *MemoryStore) unregister(sub *Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if set, ok := m.subs[sub.path]; ok {
		delete(set, sub)
	}
}

func (m *MemoryStore) snapshotLocked(path string) []Snapshot {
	col, ok := m.paths[path]
	if !ok {
		return []Snapshot{}
	}
	snaps := make([]Snapshot, 0, len(col.order))
	for _, key := range col.order {
		snaps = append(snaps, Snapshot{Key: key, Fields: cloneFields(col.byKey[key])})
	}
	return snaps
}

func (m *MemoryStore) notifyLocked(path string) {
	set, ok := m.subs[path]
	if !ok || len(set) == 0 {
		return
	}
	snaps := m.snapshotLocked(path)
	for sub := range set {
		sub.publish(snaps)
	}
}
