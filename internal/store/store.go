// Package store abstracts the keyed hierarchical record store backing the
// directory. Records live under slash-separated collection paths
// (e.g. "groupChats", "groupChats/<id>/messages") and carry flat field maps
// of primitive values: string, number, boolean, sequence-of-string.
package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when a record does not exist at the given path/key.
var ErrNotFound = errors.New("record not found")

// Fields is a flat field map as persisted for a single record.
type Fields map[string]interface{}

// Snapshot is a point-in-time read of one record.
type Snapshot struct {
	Key    string
	Fields Fields
}

// Store is the storage collaborator. Implementations must deliver an initial
// snapshot to new observers and a fresh full snapshot of the observed path
// after every write to it.
type Store interface {
	// ReadOnce returns all records under path in ingestion order.
	ReadOnce(ctx context.Context, path string) ([]Snapshot, error)

	// ReadChild returns a single record's fields, or ErrNotFound.
	ReadChild(ctx context.Context, path, key string) (Fields, error)

	// Write upserts a whole record. Observers of path are notified.
	Write(ctx context.Context, path, key string, fields Fields) error

	// GenerateID returns a new unique record key for the collection.
	GenerateID(path string) string

	// Observe registers an observer of path. The caller owns the returned
	// subscription and must Close it to release the observer.
	Observe(path string) *Subscription

	// Close releases the store and cancels all subscriptions.
	Close() error
}

// Subscription is a cancellable handle on an observed path. Snapshots of the
// whole path are delivered on the channel; slow consumers lose intermediate
// snapshots but always receive the latest one eventually.
type Subscription struct {
	path   string
	ch     chan []Snapshot
	cancel func(*Subscription)
	once   sync.Once
}

func newSubscription(path string, cancel func(*Subscription)) *Subscription {
	return &Subscription{
		path:   path,
		ch:     make(chan []Snapshot, 8),
		cancel: cancel,
	}
}

// Snapshots returns the delivery channel. It is closed by Close.
func (s *Subscription) Snapshots() <-chan []Snapshot { return s.ch }

// Path returns the observed path.
func (s *Subscription) Path() string { return s.path }

// Close unregisters the observer and closes the channel. Safe to call more
// than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.cancel(s)
		close(s.ch)
	})
}

// publish delivers snaps without blocking, evicting the oldest pending
// delivery when the buffer is full. Callers must hold the store lock that
// also guards Close's unregister, so no send can race the channel close.
func (s *Subscription) publish(snaps []Snapshot) {
	select {
	case s.ch <- snaps:
	default:
		select {
		case <-s.ch:
		default:
		}
		select {
		case s.ch <- snaps:
		default:
		}
	}
}

// cloneFields deep-copies a field map so callers cannot mutate stored state.
func cloneFields(f Fields) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		switch val := v.(type) {
		case []string:
			out[k] = append([]string(nil), val...)
		case []interface{}:
			out[k] = append([]interface{}(nil), val...)
		default:
			out[k] = val
		}
	}
	return out
}
