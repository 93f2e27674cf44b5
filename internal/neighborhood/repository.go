package neighborhood

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/andydlo/neighborhood-connect/internal/store"
)

// Repository handles neighborhood persistence against the record store
type Repository struct {
	store store.Store
}

// NewRepository creates a new neighborhood repository
func NewRepository(st store.Store) *Repository {
	return &Repository{store: st}
}

// List returns all neighborhoods in ingestion order. A malformed record is
// dropped with a diagnostic; it never fails the whole read.
func (r *Repository) List(ctx context.Context) ([]Neighborhood, error) {
	snaps, err := r.store.ReadOnce(ctx, Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list neighborhoods: %w", err)
	}

	groups := make([]Neighborhood, 0, len(snaps))
	for _, snap := range snaps {
		n, err := Decode(snap.Key, snap.Fields)
		if err != nil {
			slog.Warn("dropping neighborhood record", "key", snap.Key, "error", err)
			continue
		}
		groups = append(groups, *n)
	}
	return groups, nil
}

// Get retrieves one neighborhood by ID. Returns (nil, nil) when the record
// does not exist.
func (r *Repository) Get(ctx context.Context, id string) (*Neighborhood, error) {
	fields, err := r.store.ReadChild(ctx, Collection, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get neighborhood: %w", err)
	}
	return Decode(id, fields)
}

// Create persists a new neighborhood, assigning its ID.
func (r *Repository) Create(ctx context.Context, n *Neighborhood) error {
	n.ID = r.store.GenerateID(Collection)
	if err := r.store.Write(ctx, Collection, n.ID, n.Encode()); err != nil {
		return fmt.Errorf("failed to create neighborhood: %w", err)
	}
	return nil
}

// Put writes back an existing neighborhood record.
func (r *Repository) Put(ctx context.Context, n *Neighborhood) error {
	if err := r.store.Write(ctx, Collection, n.ID, n.Encode()); err != nil {
		return fmt.Errorf("failed to update neighborhood: %w", err)
	}
	return nil
}
