package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Iryna9992004/crm-test-task-1/internal/domain"
	"github.com/Iryna9992004/crm-test-task-1/internal/repository"
)

// Repository keeps users in process memory, keyed by email. Useful for tests
// and local development without a backing store.
type Repository struct {
	mu      sync.RWMutex
	byEmail map[string]domain.User
}

var _ repository.UserRepository = (*Repository)(nil)

// New constructs an empty Repository.
func New() *Repository {
	return &Repository{byEmail: make(map[string]domain.User)}
}

// FindByEmail returns the user stored under the exact email.
func (r *Repository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

// FindByID scans for the user with the assigned identifier.
func (r *Repository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.byEmail {
		if user.ID == id {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Save upserts by email under a single lock, so concurrent saves for the same
// email cannot produce two records.
func (r *Repository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := domain.User{
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.Password,
		GitHubKey: user.GitHubKey,
	}
	if existing, ok := r.byEmail[user.Email]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.ID = uuid.NewString()
		stored.CreatedAt = time.Now().UTC()
	}
	r.byEmail[user.Email] = stored
	result := stored
	return &result, nil
}
