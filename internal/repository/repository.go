package repository

import (
	"context"

	"github.com/Iryna9992004/crm-test-task-1/internal/domain"
)

// UserRepository persists users. Save is an upsert keyed on email: when a
// record with the same email exists its username, password and github key are
// replaced and the storage-assigned id is retained, otherwise a new record is
// created. Implementations must make the upsert atomic with respect to
// concurrent saves for the same email.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}
