package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/andydlo/neighborhood-connect/internal/store"
)

// Repository handles event persistence against the record store
type Repository struct {
	store store.Store
}

// NewRepository creates a new event repository
func NewRepository(st store.Store) *Repository {
	return &Repository{store: st}
}

// List returns all events in ingestion order. A malformed record is dropped
// with a diagnostic; it never fails the whole read.
func (r *Repository) List(ctx context.Context) ([]Event, error) {
	snaps, err := r.store.ReadOnce(ctx, Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]Event, 0, len(snaps))
	for _, snap := range snaps {
		e, err := Decode(snap.Key, snap.Fields)
		if err != nil {
			slog.Warn("dropping event record", "key", snap.Key, "error", err)
			continue
		}
		events = append(events, *e)
	}
	return events, nil
}

// Get retrieves one event by ID. Returns (nil, nil) when the record does
// not exist.
func (r *Repository) Get(ctx context.Context, id string) (*Event, error) {
	fields, err := r.store.ReadChild(ctx, Collection, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return Decode(id, fields)
}

// Create persists a new event, assigning its ID.
func (r *Repository) Create(ctx context.Context, e *Event) error {
	e.ID = r.store.GenerateID(Collection)
	if err := r.store.Write(ctx, Collection, e.ID, e.Encode()); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// Put writes back an existing event record.
func (r *Repository) Put(ctx context.Context, e *Event) error {
	if err := r.store.Write(ctx, Collection, e.ID, e.Encode()); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}
