package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"log/slog"

	"github.com/Iryna9992004/crm-test-task-1/internal/domain"
	"github.com/Iryna9992004/crm-test-task-1/internal/repository"
	"github.com/Iryna9992004/crm-test-task-1/pkg/validate"
)

// Service orchestrates login and registration. It is the only place failures
// are classified into ValidationError, ErrInvalidCredentials or StorageError.
type Service struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// New constructs a Service.
func New(users repository.UserRepository, logger *slog.Logger) Service {
	return Service{users: users, logger: logger}
}

// Login authenticates by email and password and returns the stored user.
func (s Service) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if violations := validate.Login(email, password); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, &StorageError{Err: err}
	}
	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, nil
}

// Register validates all four fields and saves the account through the
// repository upsert. Registering an email that already exists overwrites the
// prior record; no duplicate error exists.
func (s Service) Register(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	if violations := validate.Registration(creds.Username, creds.Email, creds.Password, creds.GitHubKey); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	saved, err := s.users.Save(ctx, &domain.User{
		Username:  creds.Username,
		Email:     creds.Email,
		Password:  creds.Password,
		GitHubKey: creds.GitHubKey,
	})
	if err != nil {
		return nil, &StorageError{Err: err}
	}

	s.logger.Info("user registered", "user_id", saved.ID)
	return saved, nil
}
