package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/rookgm/gofood/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MenuRepository implements MenuRepository interface
type MenuRepository struct {
	collection *mongo.Collection
}

// NewMenuRepository creates new MenuRepository instance
func NewMenuRepository(db *DB) *MenuRepository {
	return &MenuRepository{collection: db.collection(menuCollection)}
}

// CreateMenuItem inserts new menu item
func (mr *MenuRepository) CreateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	if _, err := mr.collection.InsertOne(ctx, toMenuItemDocument(item)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrConflictData
		}
		return nil, err
	}
	return item, nil
}

// GetMenuItem returns menu item by id
func (mr *MenuRepository) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var doc menuItemDocument
	if err := mr.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}
	return toMenuItemEntity(&doc), nil
}

// ListMenuItems returns menu items sorted by category and name
func (mr *MenuRepository) ListMenuItems(ctx context.Context, onlyAvailable bool) ([]models.MenuItem, error) {
	filter := bson.M{}
	if onlyAvailable {
		filter["available"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := mr.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []menuItemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]models.MenuItem, 0, len(docs))
	for i := range docs {
		items = append(items, *toMenuItemEntity(&docs[i]))
	}
	return items, nil
}

// UpdateMenuItem applies non-nil fields of update
func (mr *MenuRepository) UpdateMenuItem(ctx context.Context, id string, upd models.MenuItemUpdate, updatedAt time.Time) (*models.MenuItem, error) {
	set := bson.M{"updated_at": updatedAt}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Available != nil {
		set["available"] = *upd.Available
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc menuItemDocument
	err := mr.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}
	return toMenuItemEntity(&doc), nil
}

// DeleteMenuItem removes menu item
func (mr *MenuRepository) DeleteMenuItem(ctx context.Context, id string) error {
	res, err := mr.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrDataNotFound
	}
	return nil
}
