package neighborhood

import (
	"context"
	"errors"
	"strings"
)

// Common errors
var (
	ErrNeighborhoodNotFound = errors.New("neighborhood not found")
	ErrAlreadyMember        = errors.New("user is already a member of this neighborhood")
)

// Service handles neighborhood business logic
type Service struct {
	repo *Repository
}

// NewService creates a new neighborhood service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new neighborhood group with the creator as its sole
// member.
func (s *Service) Create(ctx context.Context, creatorEmail string, req *CreateNeighborhoodRequest) (*Neighborhood, error) {
	ageRange, err := ParseAgeRange(req.AgeRange)
	if err != nil {
		return nil, err
	}

	n := &Neighborhood{
		GroupName:    strings.TrimSpace(req.Name),
		AgeRange:     ageRange,
		ZipCode:      strings.TrimSpace(req.ZipCode),
		Users:        []string{creatorEmail},
		CreatorEmail: creatorEmail,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Search returns every group serving the given ZIP code and age, in
// ingestion order. No matches is an empty result, not an error.
func (s *Service) Search(ctx context.Context, zipCode string, age int) ([]Neighborhood, error) {
	groups, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	zipCode = strings.TrimSpace(zipCode)
	matches := []Neighborhood{}
	for _, n := range groups {
		if n.Matches(zipCode, age) {
			matches = append(matches, n)
		}
	}
	return matches, nil
}

// Mine partitions the user's groups into created and joined. The partition
// is total and disjoint: a member's group lands in exactly one slice,
// decided solely by creatorEmail.
func (s *Service) Mine(ctx context.Context, email string) (created, joined []Neighborhood, err error) {
	groups, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	created, joined = []Neighborhood{}, []Neighborhood{}
	for _, n := range groups {
		if !n.IsMember(email) {
			continue
		}
		if n.IsCreator(email) {
			created = append(created, n)
		} else {
			joined = append(joined, n)
		}
	}
	return created, joined, nil
}

// Join appends the user to the group's membership list. The membership test
// runs against the freshest snapshot, fetched immediately before the write;
// two concurrent joins of the same group can still race last-write-wins, a
// known trade-off of the storage model.
func (s *Service) Join(ctx context.Context, id, email string) (*Neighborhood, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNeighborhoodNotFound
	}
	if n.IsMember(email) {
		return nil, ErrAlreadyMember
	}

	n.Users = append(n.Users, email)
	if err := s.repo.Put(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}
