package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Iryna9992004/crm-test-task-1/internal/domain"
	"github.com/Iryna9992004/crm-test-task-1/internal/repository"
)

// Repository implements UserRepository on MongoDB.
type Repository struct {
	col *mongo.Collection
}

var _ repository.UserRepository = (*Repository)(nil)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	GitHubKey string             `bson:"githubKey"`
	CreatedAt time.Time          `bson:"created_at,omitempty"`
}

// New constructs a Repository over the users collection.
func New(db *mongo.Database) *Repository {
	return &Repository{col: db.Collection("users")}
}

// EnsureIndexes creates the unique email index the upsert relies on.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// FindByEmail fetches a user by exact email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return toDomain(doc), nil
}

// FindByID retrieves a user by its ObjectID hex.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return toDomain(doc), nil
}

// Save upserts by email through a single FindOneAndUpdate, which the server
// executes atomically per document key.
func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	update := bson.M{
		"$set": bson.M{
			"username":  user.Username,
			"password":  user.Password,
			"githubKey": user.GitHubKey,
		},
		// email comes from the filter on insert; listing it here too would
		// conflict with the upsert document construction.
		"$setOnInsert": bson.M{
			"created_at": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc userDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"email": user.Email}, update, opts).Decode(&doc); err != nil {
		return nil, err
	}
	return toDomain(doc), nil
}

func toDomain(doc userDoc) *domain.User {
	return &domain.User{
		ID:        doc.ID.Hex(),
		Username:  doc.Username,
		Email:     doc.Email,
		Password:  doc.Password,
		GitHubKey: doc.GitHubKey,
		CreatedAt: doc.CreatedAt,
	}
}
