package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/andydlo/neighborhood-connect/internal/store"
)

// Repository handles user profile persistence against the record store
type Repository struct {
	store store.Store
}

// NewRepository creates a new user repository
func NewRepository(st store.Store) *Repository {
	return &Repository{store: st}
}

// Get retrieves a profile by record key. Returns (nil, nil) when absent.
func (r *Repository) Get(ctx context.Context, uid string) (*Profile, error) {
	fields, err := r.store.ReadChild(ctx, Collection, uid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return Decode(uid, fields)
}

// GetByEmail retrieves a profile by email. Returns (nil, nil) when absent.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	snaps, err := r.store.ReadOnce(ctx, Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	for _, snap := range snaps {
		p, err := Decode(snap.Key, snap.Fields)
		if err != nil {
			slog.Warn("dropping user record", "key", snap.Key, "error", err)
			continue
		}
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

// Create persists a new profile, assigning its UID.
func (r *Repository) Create(ctx context.Context, p *Profile) error {
	p.UID = r.store.GenerateID(Collection)
	if err := r.store.Write(ctx, Collection, p.UID, p.Encode()); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}
