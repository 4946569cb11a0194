package auth

import (
	"context"
	"errors"
	"io"
	"testing"

	"log/slog"

	"github.com/Iryna9992004/crm-test-task-1/internal/domain"
	"github.com/Iryna9992004/crm-test-task-1/internal/repository"
	"github.com/Iryna9992004/crm-test-task-1/internal/repository/memory"
)

func TestRegisterSavesSubmittedFields(t *testing.T) {
	var saved *domain.User
	users := userRepoMock{
		saveFunc: func(_ context.Context, user *domain.User) (*domain.User, error) {
			stored := *user
			stored.ID = "user-1"
			saved = &stored
			return &stored, nil
		},
	}
	svc := New(users, newLogger())

	user, err := svc.Register(context.Background(), domain.Credentials{
		Username:  "bob",
		Email:     "bob@x.com",
		Password:  "secret1",
		GitHubKey: "ghkey1234567",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "user-1" {
		t.Fatalf("expected storage-assigned id, got %q", user.ID)
	}
	if saved.Username != "bob" || saved.Email != "bob@x.com" || saved.Password != "secret1" || saved.GitHubKey != "ghkey1234567" {
		t.Fatalf("saved fields do not match submission: %+v", saved)
	}
}

func TestRegisterShortUsernameFailsValidationWithoutSave(t *testing.T) {
	users := userRepoMock{
		saveFunc: func(context.Context, *domain.User) (*domain.User, error) {
			t.Fatal("save must not be called for invalid submissions")
			return nil, nil
		},
	}
	svc := New(users, newLogger())

	_, err := svc.Register(context.Background(), domain.Credentials{
		Username:  "ab",
		Email:     "a@b.c",
		Password:  "secret1",
		GitHubKey: "ghkey1234567",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if msg, ok := verr.Fields()["username"]; !ok || msg == "" {
		t.Fatalf("expected username violation, got %+v", verr.Fields())
	}
}

func TestRegisterCollectsAllViolations(t *testing.T) {
	svc := New(userRepoMock{}, newLogger())

	_, err := svc.Register(context.Background(), domain.Credentials{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Violations) != 4 {
		t.Fatalf("expected all four violations reported at once, got %+v", verr.Violations)
	}
}

func TestLoginUnknownEmailIsInvalidCredentials(t *testing.T) {
	users := userRepoMock{
		findByEmailFunc: func(context.Context, string) (*domain.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := New(users, newLogger())

	_, err := svc.Login(context.Background(), "nobody@x.com", "secret1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Fatal("well-formed fields must never classify as validation failure")
	}
}

func TestLoginWrongPasswordMatchesUnknownEmailClassification(t *testing.T) {
	users := userRepoMock{
		findByEmailFunc: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: email, Password: "secret1"}, nil
		},
	}
	svc := New(users, newLogger())

	_, err := svc.Login(context.Background(), "bob@x.com", "wrong1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginMalformedInputSkipsRepository(t *testing.T) {
	users := userRepoMock{
		findByEmailFunc: func(context.Context, string) (*domain.User, error) {
			t.Fatal("repository must not be consulted for invalid input")
			return nil, nil
		},
	}
	svc := New(users, newLogger())

	_, err := svc.Login(context.Background(), "not-an-email", "secret1")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLoginStorageFailure(t *testing.T) {
	boom := errors.New("connection refused")
	users := userRepoMock{
		findByEmailFunc: func(context.Context, string) (*domain.User, error) {
			return nil, boom
		},
	}
	svc := New(users, newLogger())

	_, err := svc.Login(context.Background(), "bob@x.com", "secret1")
	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatal("expected wrapped cause to be preserved")
	}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc := New(memory.New(), newLogger())
	ctx := context.Background()

	registered, err := svc.Register(ctx, domain.Credentials{
		Username:  "bob",
		Email:     "bob@x.com",
		Password:  "secret1",
		GitHubKey: "ghkey1234567",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Login(ctx, "bob@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != registered.ID || user.Username != "bob" || user.GitHubKey != "ghkey1234567" {
		t.Fatalf("login returned a different user: %+v", user)
	}

	if _, err := svc.Login(ctx, "bob@x.com", "wrong1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterTwiceOverwrites(t *testing.T) {
	svc := New(memory.New(), newLogger())
	ctx := context.Background()

	first, err := svc.Register(ctx, domain.Credentials{Username: "bob", Email: "bob@x.com", Password: "secret1", GitHubKey: "ghkey1234567"})
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	second, err := svc.Register(ctx, domain.Credentials{Username: "robert", Email: "bob@x.com", Password: "secret2", GitHubKey: "ghkey7654321"})
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected a single record to be kept, got ids %q and %q", first.ID, second.ID)
	}

	user, err := svc.Login(ctx, "bob@x.com", "secret2")
	if err != nil {
		t.Fatalf("login with overwritten password: %v", err)
	}
	if user.Username != "robert" {
		t.Fatalf("expected second registration fields to win, got %+v", user)
	}
	if _, err := svc.Login(ctx, "bob@x.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must no longer match, got %v", err)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type userRepoMock struct {
	findByEmailFunc func(context.Context, string) (*domain.User, error)
	findByIDFunc    func(context.Context, string) (*domain.User, error)
	saveFunc        func(context.Context, *domain.User) (*domain.User, error)
}

func (m userRepoMock) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, repository.ErrNotFound
}

func (m userRepoMock) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m userRepoMock) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, user)
	}
	stored := *user
	return &stored, nil
}
