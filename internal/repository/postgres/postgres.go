package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Iryna9992004/crm-test-task-1/internal/domain"
	"github.com/Iryna9992004/crm-test-task-1/internal/repository"
)

// Repository implements UserRepository on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

var _ repository.UserRepository = (*Repository)(nil)

// New constructs a Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindByEmail fetches a user by exact email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT id, username, email, password, github_key, created_at FROM users WHERE email = $1`
	row := r.pool.QueryRow(ctx, query, email)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.GitHubKey, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID retrieves a user by identifier.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT id, username, email, password, github_key, created_at FROM users WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.GitHubKey, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Save upserts by email. The unique index on email makes the
// insert-or-replace atomic; the existing id and created_at survive an
// overwrite, so a duplicate-key error can never surface.
func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `INSERT INTO users (id, username, email, password, github_key, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (email) DO UPDATE SET
			username = EXCLUDED.username,
			password = EXCLUDED.password,
			github_key = EXCLUDED.github_key
		RETURNING id, created_at`
	saved := domain.User{
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.Password,
		GitHubKey: user.GitHubKey,
	}
	row := r.pool.QueryRow(ctx, query, uuid.NewString(), user.Username, user.Email, user.Password, user.GitHubKey)
	if err := row.Scan(&saved.ID, &saved.CreatedAt); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
