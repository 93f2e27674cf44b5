package event

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

// Common errors
var (
	ErrEventNotFound   = errors.New("event not found")
	ErrAlreadySignedUp = errors.New("user is already signed up for this event")
	ErrNotSignedUp     = errors.New("user is not signed up for this event")
)

// Service handles event business logic
type Service struct {
	repo *Repository
}

// NewService creates a new event service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new event with the creator as its first attendee. The
// date is truncated to whole seconds, matching the persisted precision.
func (s *Service) Create(ctx context.Context, creatorEmail string, req *CreateEventRequest) (*Event, error) {
	e := &Event{
		Name:        strings.TrimSpace(req.Name),
		Type:        req.Type,
		Description: req.Description,
		Address:     req.Address,
		Date:        time.Unix(req.Date.Unix(), 0),
		Attendees:   []string{creatorEmail},
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// List returns all events in ingestion order.
func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

// Mine returns the events the user is signed up for, soonest first.
func (s *Service) Mine(ctx context.Context, email string) ([]Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	attending := []Event{}
	for _, e := range events {
		if e.IsAttending(email) {
			attending = append(attending, e)
		}
	}
	sort.SliceStable(attending, func(i, j int) bool {
		return attending[i].Date.Before(attending[j].Date)
	})
	return attending, nil
}

// SignUp appends the user to the event's attendee list. The attendance test
// runs against the freshest snapshot, fetched immediately before the write.
func (s *Service) SignUp(ctx context.Context, id, email string) (*Event, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEventNotFound
	}
	if e.IsAttending(email) {
		return nil, ErrAlreadySignedUp
	}

	e.Attendees = append(e.Attendees, email)
	if err := s.repo.Put(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Unsubscribe removes the user from the event's attendee list. Creators may
// unsubscribe from their own events; the list can legitimately end up
// empty.
func (s *Service) Unsubscribe(ctx context.Context, id, email string) (*Event, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEventNotFound
	}
	if !e.IsAttending(email) {
		return nil, ErrNotSignedUp
	}

	attendees := make([]string, 0, len(e.Attendees)-1)
	for _, a := range e.Attendees {
		if a != email {
			attendees = append(attendees, a)
		}
	}
	e.Attendees = attendees
	if err := s.repo.Put(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}
