package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/andydlo/neighborhood-connect/internal/store"
)

// Repository handles message persistence against the record store
type Repository struct {
	store store.Store
}

// NewRepository creates a new message repository
func NewRepository(st store.Store) *Repository {
	return &Repository{store: st}
}

// GroupExists reports whether the owning group record is present.
func (r *Repository) GroupExists(ctx context.Context, neighborhoodID string) (bool, error) {
	_, err := r.store.ReadChild(ctx, groupCollection, neighborhoodID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check neighborhood: %w", err)
	}
	return true, nil
}

// List returns a group's messages. Malformed records are dropped with a
// diagnostic.
func (r *Repository) List(ctx context.Context, neighborhoodID string) ([]Message, error) {
	snaps, err := r.store.ReadOnce(ctx, MessagesPath(neighborhoodID))
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]Message, 0, len(snaps))
	for _, snap := range snaps {
		m, err := Decode(snap.Key, snap.Fields)
		if err != nil {
			slog.Warn("dropping message record", "key", snap.Key, "error", err)
			continue
		}
		messages = append(messages, *m)
	}
	return messages, nil
}

// Create persists a new message under its group, assigning its ID.
func (r *Repository) Create(ctx context.Context, neighborhoodID string, m *Message) error {
	path := MessagesPath(neighborhoodID)
	m.ID = r.store.GenerateID(path)
	if err := r.store.Write(ctx, path, m.ID, m.Encode()); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}
