package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/rookgm/gofood/internal/models"
	"github.com/rookgm/gofood/internal/service"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	client        *mongo.Client
	orders        *mongo.Collection
	finished      *mongo.Collection
	riderFinished *mongo.Collection
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{
		client:        db.client,
		orders:        db.collection(ordersCollection),
		finished:      db.collection(finishedCollection),
		riderFinished: db.collection(riderFinishedCollection),
	}
}

func filterDocument(filter service.OrderFilter) bson.M {
	f := bson.M{}
	if filter.UserID != "" {
		f["user_id"] = filter.UserID
	}
	if filter.RiderID != "" {
		f["rider_id"] = filter.RiderID
	}
	return f
}

// CreateOrder inserts new live order
func (or *OrderRepository) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	if _, err := or.orders.InsertOne(ctx, toOrderDocument(o)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrConflictData
		}
		return nil, err
	}
	return o, nil
}

// GetOrder returns live order by id
func (or *OrderRepository) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var doc orderDocument
	if err := or.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}
	return toOrderEntity(&doc), nil
}

// ListOrders returns live orders, newest first
func (or *OrderRepository) ListOrders(ctx context.Context, filter service.OrderFilter) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := or.orders.Find(ctx, filterDocument(filter), opts)
	if err != nil {
		return nil, err
	}

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, *toOrderEntity(&docs[i]))
	}
	return orders, nil
}

// UpdateOrder updates rider and status fields if order version is unchanged
func (or *OrderRepository) UpdateOrder(ctx context.Context, o *models.Order) error {
	update := bson.M{
		"$set": bson.M{
			"rider_id":         o.RiderID,
			"assigned_at":      o.AssignedAt,
			"pending":          o.Pending,
			"confirmed":        o.Confirmed,
			"preparing":        o.Preparing,
			"packing":          o.Packing,
			"out_for_delivery": o.OutForDelivery,
			"updated_at":       o.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := or.orders.UpdateOne(ctx, bson.M{"_id": o.ID, "version": o.Version}, update)
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return or.missingOrStale(ctx, o.ID)
	}

	o.Version++
	return nil
}

// missingOrStale tells apart a deleted order from a version mismatch
func (or *OrderRepository) missingOrStale(ctx context.Context, id string) error {
	n, err := or.orders.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrDataNotFound
	}
	return models.ErrVersionConflict
}

// ArchiveOrder inserts archive records and deletes live order in one transaction
func (or *OrderRepository) ArchiveOrder(ctx context.Context, f *models.FinishedOrder, r *models.RiderDelivery, version int64) error {
	session, err := or.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := or.orders.DeleteOne(sc, bson.M{"_id": f.ID, "version": version})
		if err != nil {
			return nil, fmt.Errorf("failed to delete live order: %w", err)
		}
		if res.DeletedCount == 0 {
			return nil, or.missingOrStale(sc, f.ID)
		}

		if _, err := or.finished.InsertOne(sc, toFinishedDocument(f)); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, models.ErrConflictData
			}
			return nil, fmt.Errorf("failed to insert finished order: %w", err)
		}

		if r != nil {
			if _, err := or.riderFinished.InsertOne(sc, toRiderDeliveryDocument(r)); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return nil, models.ErrConflictData
				}
				return nil, fmt.Errorf("failed to insert rider delivery: %w", err)
			}
		}

		return nil, nil
	})

	return err
}

// GetFinishedOrder returns archived order by id
func (or *OrderRepository) GetFinishedOrder(ctx context.Context, id string) (*models.FinishedOrder, error) {
	var doc finishedDocument
	if err := or.finished.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}
	return toFinishedEntity(&doc), nil
}

// ListFinishedOrders returns archived orders, most recently delivered first
func (or *OrderRepository) ListFinishedOrders(ctx context.Context, filter service.OrderFilter) ([]models.FinishedOrder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "delivered_at", Value: -1}})
	cursor, err := or.finished.Find(ctx, filterDocument(filter), opts)
	if err != nil {
		return nil, err
	}

	var docs []finishedDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	orders := make([]models.FinishedOrder, 0, len(docs))
	for i := range docs {
		orders = append(orders, *toFinishedEntity(&docs[i]))
	}
	return orders, nil
}

// ListRiderDeliveries returns rider archive records
func (or *OrderRepository) ListRiderDeliveries(ctx context.Context, riderID string) ([]models.RiderDelivery, error) {
	opts := options.Find().SetSort(bson.D{{Key: "delivered_at", Value: -1}})
	cursor, err := or.riderFinished.Find(ctx, filterDocument(service.OrderFilter{RiderID: riderID}), opts)
	if err != nil {
		return nil, err
	}

	var docs []riderDeliveryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	deliveries := make([]models.RiderDelivery, 0, len(docs))
	for i := range docs {
		deliveries = append(deliveries, *toRiderDeliveryEntity(&docs[i]))
	}
	return deliveries, nil
}

// DeleteFinishedOrder removes archived order
func (or *OrderRepository) DeleteFinishedOrder(ctx context.Context, id string) error {
	res, err := or.finished.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrDataNotFound
	}
	return nil
}
