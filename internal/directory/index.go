// Package directory maintains an in-memory read model over the neighborhood
// and event collections and projects per-user home views from it.
package directory

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/andydlo/neighborhood-connect/internal/event"
	"github.com/andydlo/neighborhood-connect/internal/neighborhood"
	"github.com/andydlo/neighborhood-connect/internal/store"
)

// Index is the in-memory read model. Each collection is replaced wholesale
// from a store snapshot; malformed records are dropped with a diagnostic and
// never surface in query results.
type Index struct {
	mu     sync.RWMutex
	groups []neighborhood.Neighborhood
	events []event.Event
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{}
}

// SetGroups replaces the group collection from a full snapshot.
func (ix *Index) SetGroups(snaps []store.Snapshot) {
	groups := make([]neighborhood.Neighborhood, 0, len(snaps))
	for _, s := range snaps {
		n, err := neighborhood.Decode(s.Key, s.Fields)
		if err != nil {
			slog.Warn("dropping group record", "key", s.Key, "error", err)
			continue
		}
		groups = append(groups, *n)
	}

	ix.mu.Lock()
	ix.groups = groups
	ix.mu.Unlock()
}

// SetEvents replaces the event collection from a full snapshot.
func (ix *Index) SetEvents(snaps []store.Snapshot) {
	events := make([]event.Event, 0, len(snaps))
	for _, s := range snaps {
		e, err := event.Decode(s.Key, s.Fields)
		if err != nil {
			slog.Warn("dropping event record", "key", s.Key, "error", err)
			continue
		}
		events = append(events, *e)
	}

	ix.mu.Lock()
	ix.events = events
	ix.mu.Unlock()
}

// Search returns the groups serving the given ZIP code and age, in
// ingestion order.
func (ix *Index) Search(zipCode string, age int) []neighborhood.Neighborhood {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]neighborhood.Neighborhood, 0)
	for _, g := range ix.groups {
		if g.Matches(zipCode, age) {
			out = append(out, g)
		}
	}
	return out
}

// PartitionGroups splits the user's groups into created and joined. The two
// slices are disjoint: a created group never appears under joined.
func (ix *Index) PartitionGroups(email string) (created, joined []neighborhood.Neighborhood) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	created = make([]neighborhood.Neighborhood, 0)
	joined = make([]neighborhood.Neighborhood, 0)
	for _, g := range ix.groups {
		switch {
		case g.IsCreator(email):
			created = append(created, g)
		case g.IsMember(email):
			joined = append(joined, g)
		}
	}
	return created, joined
}

// PartitionEvents splits events into those the user attends, soonest first,
// and the rest in ingestion order.
func (ix *Index) PartitionEvents(email string) (attending, available []event.Event) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	attending = make([]event.Event, 0)
	available = make([]event.Event, 0)
	for _, e := range ix.events {
		if e.IsAttending(email) {
			attending = append(attending, e)
		} else {
			available = append(available, e)
		}
	}
	sort.SliceStable(attending, func(i, j int) bool {
		return attending[i].Date.Before(attending[j].Date)
	})
	return attending, available
}
