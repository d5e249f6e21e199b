package user

import (
	"context"
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookcatalog/internal/platform/crypto"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ValidateCredentials checks a new username and password pair.
func ValidateCredentials(username, password string) error {
	return validation.Errors{
		"username": validation.Validate(username,
			validation.Required,
			validation.Length(1, 150),
			validation.Match(usernamePattern).Error("may contain only letters, digits and @/./+/-/_"),
		),
		"password": crypto.ValidatePasswordStrength(password),
	}.Filter()
}

// Register creates an active user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateCredentials(username, password); err != nil {
		return User{}, err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return User{}, err
	}
	u := &User{Username: username, PasswordHash: hash, IsActive: true}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return *u, nil
}

// EnsureUser registers username unless it already exists. It reports
// whether a user was created.
func (s *Service) EnsureUser(ctx context.Context, username, password string) (User, bool, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, false, err
	}
	u, err = s.Register(ctx, username, password)
	if errors.Is(err, ErrAlreadyExists) {
		u, err = s.repo.GetByUsername(ctx, strings.TrimSpace(username))
		return u, false, err
	}
	return u, err == nil, err
}

// Authenticate returns the active user matching the credentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return User{}, err
	}
	if !u.IsActive || !crypto.VerifyPassword(u.PasswordHash, password) {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, false)
}
