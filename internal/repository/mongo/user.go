package mongo

import (
	"context"
	"errors"

	"github.com/rookgm/gofood/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository implements UserRepository interface
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates new UserRepository instance
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{collection: db.collection(usersCollection)}
}

// CreateUser inserts new user
func (ur *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if _, err := ur.collection.InsertOne(ctx, toUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrConflictData
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID returns user by id
func (ur *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return ur.findOne(ctx, bson.M{"_id": id})
}

// GetUserByName returns user by name
func (ur *UserRepository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	return ur.findOne(ctx, bson.M{"name": name})
}

func (ur *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := ur.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}
	return toUserEntity(&doc), nil
}

// ListUsersByRole returns users having role
func (ur *UserRepository) ListUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := ur.collection.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		return nil, err
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(docs))
	for i := range docs {
		users = append(users, *toUserEntity(&docs[i]))
	}
	return users, nil
}
