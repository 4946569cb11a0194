package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/Iryna9992004/crm-test-task-1/internal/domain"
	"github.com/Iryna9992004/crm-test-task-1/internal/repository"
)

const (
	emailKeyPrefix = "auth:user:email:"
	idKeyPrefix    = "auth:user:id:"
	saveRetries    = 3
)

// Repository implements UserRepository on Redis. Records live under their
// email key; a second key indexes id back to email.
type Repository struct {
	client *redis.Client
}

var _ repository.UserRepository = (*Repository)(nil)

type userRecord struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	GitHubKey string    `json:"githubKey"`
	CreatedAt time.Time `json:"created_at"`
}

// NewClient creates and pings a Redis client.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// New constructs a Repository.
func New(client *redis.Client) *Repository {
	return &Repository{client: client}
}

// FindByEmail fetches a user by exact email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	payload, err := r.client.Get(ctx, emailKeyPrefix+email).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	var record userRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// FindByID resolves the id index, then loads the record.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	email, err := r.client.Get(ctx, idKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return r.FindByEmail(ctx, email)
}

// Save upserts by email inside a WATCH transaction, so two concurrent saves
// for the same email serialize on the email key and cannot fork the record.
func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	var saved *domain.User
	key := emailKeyPrefix + user.Email

	txn := func(tx *redis.Tx) error {
		record := userRecord{
			Username:  user.Username,
			Email:     user.Email,
			Password:  user.Password,
			GitHubKey: user.GitHubKey,
		}

		existing, err := tx.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var prior userRecord
			if err := json.Unmarshal(existing, &prior); err != nil {
				return err
			}
			record.ID = prior.ID
			record.CreatedAt = prior.CreatedAt
		case errors.Is(err, redis.Nil):
			record.ID = uuid.NewString()
			record.CreatedAt = time.Now().UTC()
		default:
			return err
		}

		payload, err := json.Marshal(record)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			pipe.Set(ctx, idKeyPrefix+record.ID, record.Email, 0)
			return nil
		})
		if err != nil {
			return err
		}
		saved = record.toDomain()
		return nil
	}

	for attempt := 0; attempt < saveRetries; attempt++ {
		err := r.client.Watch(ctx, txn, key)
		if err == nil {
			return saved, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, redis.TxFailedErr
}

func (record userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:        record.ID,
		Username:  record.Username,
		Email:     record.Email,
		Password:  record.Password,
		GitHubKey: record.GitHubKey,
		CreatedAt: record.CreatedAt,
	}
}
