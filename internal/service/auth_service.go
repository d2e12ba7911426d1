package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"shorter/internal/entities"
	"shorter/internal/repository"
)

// DefaultBcryptCost is the bcrypt work factor used for new passwords
const DefaultBcryptCost = 8

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*entities.User, error)
	Register(ctx context.Context, username, password string) (*entities.User, error)
	EnsureUser(ctx context.Context, username, password string) (*entities.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	cost     int
}

// NewAuthService creates a new auth service hashing with the given bcrypt cost
func NewAuthService(userRepo repository.UserRepository, cost int) AuthService {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	return &authService{
		userRepo: userRepo,
		cost:     cost,
	}
}

// Authenticate checks a username and password pair
func (s *authService) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	if username == "" {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthenticated
	}

	return user, nil
}

// Register creates a new user account
func (s *authService) Register(ctx context.Context, username, password string) (*entities.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, username, string(hashedPassword))
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// EnsureUser returns the named user, creating it when missing.
// An existing user keeps its password.
func (s *authService) EnsureUser(ctx context.Context, username, password string) (*entities.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user, err = s.Register(ctx, username, password)
	if errors.Is(err, ErrUserExists) {
		// created concurrently by another instance
		return s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	}
	return user, err
}
