package chat

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Common errors
var (
	ErrNeighborhoodNotFound = errors.New("neighborhood not found")
	ErrEmptyMessage         = errors.New("message text must not be empty")
)

// Service handles chat business logic
type Service struct {
	repo *Repository
}

// NewService creates a new chat service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// List returns a group's messages in posting order.
func (s *Service) List(ctx context.Context, neighborhoodID string) ([]Message, error) {
	exists, err := s.repo.GroupExists(ctx, neighborhoodID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNeighborhoodNotFound
	}

	messages, err := s.repo.List(ctx, neighborhoodID)
	if err != nil {
		return nil, err
	}
	SortMessages(messages)
	return messages, nil
}

// Post appends a message to the group's stream. The posting time is
// assigned here, server-side.
func (s *Service) Post(ctx context.Context, neighborhoodID, authorEmail, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	exists, err := s.repo.GroupExists(ctx, neighborhoodID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNeighborhoodNotFound
	}

	m := &Message{
		Text:     text,
		UserID:   authorEmail,
		PostedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, neighborhoodID, m); err != nil {
		return nil, err
	}
	return m, nil
}
