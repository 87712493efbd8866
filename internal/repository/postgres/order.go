package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rookgm/gofood/internal/models"
	"github.com/rookgm/gofood/internal/service"
)

const (
	orderColumns = `id, user_id, user_name, items, contact, location, address, rider_id, assigned_at,
						pending, confirmed, preparing, packing, out_for_delivery, version, created_at, updated_at`

	insertOrderQuery = `
						INSERT INTO orders (` + orderColumns + `)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
`
	selectOrderQuery = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	selectOrdersQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE ($1 = '' OR user_id = $1) AND ($2 = '' OR rider_id = $2)
						ORDER BY created_at DESC
`
	updateOrderQuery = `
						UPDATE orders SET
							rider_id = $3, assigned_at = $4,
							pending = $5, confirmed = $6, preparing = $7, packing = $8, out_for_delivery = $9,
							updated_at = $10, version = version + 1
						WHERE id = $1 AND version = $2
`
	orderExistsQuery = `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`

	deleteOrderQuery = `DELETE FROM orders WHERE id = $1 AND version = $2`

	finishedColumns = `id, user_id, user_name, items, contact, location, address, rider_id, rider_name, rider_phone,
						assigned_at, pending, confirmed, preparing, packing, out_for_delivery,
						created_at, updated_at, delivered_at`

	insertFinishedQuery = `
						INSERT INTO finished_orders (` + finishedColumns + `)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
`
	selectFinishedQuery = `SELECT ` + finishedColumns + ` FROM finished_orders WHERE id = $1`

	selectFinishedListQuery = `
						SELECT ` + finishedColumns + ` FROM finished_orders
						WHERE ($1 = '' OR user_id = $1) AND ($2 = '' OR rider_id = $2)
						ORDER BY delivered_at DESC
`
	deleteFinishedQuery = `DELETE FROM finished_orders WHERE id = $1`

	riderDeliveryColumns = `id, user_id, user_name, rider_id, items, contact, location, address, delivered_at`

	insertRiderDeliveryQuery = `
						INSERT INTO rider_finished_deliveries (` + riderDeliveryColumns + `)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	selectRiderDeliveriesQuery = `
						SELECT ` + riderDeliveryColumns + ` FROM rider_finished_deliveries
						WHERE $1 = '' OR rider_id = $1
						ORDER BY delivered_at DESC
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	o := models.Order{}
	err := row.Scan(&o.ID, &o.UserID, &o.UserName, &o.Items, &o.Contact, &o.Location, &o.Address, &o.RiderID, &o.AssignedAt,
		&o.Pending, &o.Confirmed, &o.Preparing, &o.Packing, &o.OutForDelivery, &o.Version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}
	return &o, nil
}

func scanFinished(row pgx.Row) (*models.FinishedOrder, error) {
	f := models.FinishedOrder{}
	err := row.Scan(&f.ID, &f.UserID, &f.UserName, &f.Items, &f.Contact, &f.Location, &f.Address, &f.RiderID, &f.RiderName, &f.RiderPhone,
		&f.AssignedAt, &f.Pending, &f.Confirmed, &f.Preparing, &f.Packing, &f.OutForDelivery,
		&f.CreatedAt, &f.UpdatedAt, &f.DeliveredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}
	return &f, nil
}

// CreateOrder inserts new order to database
func (or *OrderRepository) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	_, err := or.db.Exec(ctx, insertOrderQuery,
		o.ID, o.UserID, o.UserName, o.Items, o.Contact, o.Location, o.Address, o.RiderID, o.AssignedAt,
		o.Pending, o.Confirmed, o.Preparing, o.Packing, o.OutForDelivery, o.Version, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if or.db.ErrorCode(err) == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return o, nil
}

// GetOrder returns live order by id
func (or *OrderRepository) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return scanOrder(or.db.QueryRow(ctx, selectOrderQuery, id))
}

// ListOrders returns live orders, newest first
func (or *OrderRepository) ListOrders(ctx context.Context, filter service.OrderFilter) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectOrdersQuery, filter.UserID, filter.RiderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateOrder updates rider and status fields if order version is unchanged
func (or *OrderRepository) UpdateOrder(ctx context.Context, o *models.Order) error {
	cmd, err := or.db.Exec(ctx, updateOrderQuery, o.ID, o.Version, o.RiderID, o.AssignedAt,
		o.Pending, o.Confirmed, o.Preparing, o.Packing, o.OutForDelivery, o.UpdatedAt)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return or.missingOrStale(ctx, or.db, o.ID)
	}

	o.Version++
	return nil
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// missingOrStale tells apart a deleted order from a version mismatch
func (or *OrderRepository) missingOrStale(ctx context.Context, q queryRower, id string) error {
	var exists bool
	if err := q.QueryRow(ctx, orderExistsQuery, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return models.ErrDataNotFound
	}
	return models.ErrVersionConflict
}

// ArchiveOrder inserts archive records and deletes live order in one transaction
func (or *OrderRepository) ArchiveOrder(ctx context.Context, f *models.FinishedOrder, r *models.RiderDelivery, version int64) error {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, deleteOrderQuery, f.ID, version)
	if err != nil {
		return fmt.Errorf("failed to delete live order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return or.missingOrStale(ctx, tx, f.ID)
	}

	_, err = tx.Exec(ctx, insertFinishedQuery,
		f.ID, f.UserID, f.UserName, f.Items, f.Contact, f.Location, f.Address, f.RiderID, f.RiderName, f.RiderPhone,
		f.AssignedAt, f.Pending, f.Confirmed, f.Preparing, f.Packing, f.OutForDelivery,
		f.CreatedAt, f.UpdatedAt, f.DeliveredAt)
	if err != nil {
		if or.db.ErrorCode(err) == pgErrUniqueViolationCode {
			return models.ErrConflictData
		}
		return fmt.Errorf("failed to insert finished order: %w", err)
	}

	if r != nil {
		_, err = tx.Exec(ctx, insertRiderDeliveryQuery,
			r.ID, r.UserID, r.UserName, r.RiderID, r.Items, r.Contact, r.Location, r.Address, r.DeliveredAt)
		if err != nil {
			if or.db.ErrorCode(err) == pgErrUniqueViolationCode {
				return models.ErrConflictData
			}
			return fmt.Errorf("failed to insert rider delivery: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetFinishedOrder returns archived order by id
func (or *OrderRepository) GetFinishedOrder(ctx context.Context, id string) (*models.FinishedOrder, error) {
	return scanFinished(or.db.QueryRow(ctx, selectFinishedQuery, id))
}

// ListFinishedOrders returns archived orders, most recently delivered first
func (or *OrderRepository) ListFinishedOrders(ctx context.Context, filter service.OrderFilter) ([]models.FinishedOrder, error) {
	rows, err := or.db.Query(ctx, selectFinishedListQuery, filter.UserID, filter.RiderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.FinishedOrder{}

	for rows.Next() {
		f, err := scanFinished(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// ListRiderDeliveries returns rider archive records
func (or *OrderRepository) ListRiderDeliveries(ctx context.Context, riderID string) ([]models.RiderDelivery, error) {
	rows, err := or.db.Query(ctx, selectRiderDeliveriesQuery, riderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deliveries := []models.RiderDelivery{}

	for rows.Next() {
		d := models.RiderDelivery{}
		err = rows.Scan(&d.ID, &d.UserID, &d.UserName, &d.RiderID, &d.Items, &d.Contact, &d.Location, &d.Address, &d.DeliveredAt)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}

// DeleteFinishedOrder removes archived order
func (or *OrderRepository) DeleteFinishedOrder(ctx context.Context, id string) error {
	cmd, err := or.db.Exec(ctx, deleteFinishedQuery, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
