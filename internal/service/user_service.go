package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"comicvault/internal/auth"
	"comicvault/internal/domain"
	"comicvault/internal/repository"
)

var (
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("invalid input")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	// Unknown name and wrong password are indistinguishable on purpose.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when attempting to register with an existing name.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, name, password string) (string, error)
	Login(ctx context.Context, name, password string) (token string, user *domain.User, err error)
}

type userService struct {
	users    repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewUserService(users repository.UserRepository, secret []byte, tokenTTL time.Duration) UserService {
	return &userService{
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (s *userService) Register(ctx context.Context, name, password string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return "", fmt.Errorf("%w: name and password are required", ErrValidation)
	}

	// Best-effort existence check; the storage unique constraint closes
	// the remaining race between concurrent registrations.
	if _, err := s.users.GetByName(ctx, name); err == nil {
		return "", ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		PasswordHash: string(hash),
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return "", ErrUserAlreadyExists
		}
		return "", err
	}

	return id, nil
}

func (s *userService) Login(ctx context.Context, name, password string) (string, *domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return "", nil, fmt.Errorf("%w: name and password are required", ErrValidation)
	}

	user, err := s.users.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	return token, sanitizeUser(user), nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
