package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyInUse  = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service handles account and profile business logic
type Service struct {
	repo *Repository
}

// NewService creates a new user service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// SignUp registers a new account and stores its profile record.
func (s *Service) SignUp(ctx context.Context, req *SignupRequest) (*Profile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	p := &Profile{
		Email:        email,
		Zip:          strings.TrimSpace(req.Zip),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Login verifies credentials and returns the matching profile.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*Profile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}

// Profile retrieves a profile by record key.
func (s *Service) Profile(ctx context.Context, uid string) (*Profile, error) {
	p, err := s.repo.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrUserNotFound
	}
	return p, nil
}
