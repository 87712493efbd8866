package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rookgm/gofood/internal/models"
	"go.uber.org/zap"
)

// number of attempts for writes that lose an optimistic lock race
const maxWriteAttempts = 3

// OrderFilter narrows order listings, empty fields match everything
type OrderFilter struct {
	UserID  string
	RiderID string
}

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts new live order
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrder returns live order by id
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	// ListOrders returns live orders ordered by creation time, newest first
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// UpdateOrder stores order if its version is unchanged and increments the version
	UpdateOrder(ctx context.Context, order *models.Order) error
	// ArchiveOrder stores archive records and deletes the live order in one transaction.
	// rider may be nil.
	ArchiveOrder(ctx context.Context, finished *models.FinishedOrder, rider *models.RiderDelivery, version int64) error
	// GetFinishedOrder returns archived order by id
	GetFinishedOrder(ctx context.Context, id string) (*models.FinishedOrder, error)
	// ListFinishedOrders returns archived orders
	ListFinishedOrders(ctx context.Context, filter OrderFilter) ([]models.FinishedOrder, error)
	// ListRiderDeliveries returns rider archive records, all of them for empty riderID
	ListRiderDeliveries(ctx context.Context, riderID string) ([]models.RiderDelivery, error)
	// DeleteFinishedOrder removes archived order
	DeleteFinishedOrder(ctx context.Context, id string) error
}

// MenuReader gives read access to the menu catalog
type MenuReader interface {
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
}

// UserReader gives read access to users
type UserReader interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// EventQueue accepts order events for asynchronous publishing
type EventQueue interface {
	Enqueue(event models.OrderEvent)
}

// OrderOptions tunes order lifecycle behavior
type OrderOptions struct {
	// DispatchOnAssign makes rider assignment of a packed order move it out for delivery
	DispatchOnAssign bool
}

// OrderService implements order lifecycle
type OrderService struct {
	repo   OrderRepository
	menu   MenuReader
	users  UserReader
	events EventQueue
	opts   OrderOptions
	logger *zap.Logger
	now    func() time.Time
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, menu MenuReader, users UserReader, events EventQueue, opts OrderOptions, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		menu:   menu,
		users:  users,
		events: events,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// CreateOrder validates order, snapshots item names and prices and stores it
func (os *OrderService) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.UserID == "" || order.UserName == "" {
		return nil, models.ErrMissingFields
	}
	if len(order.Items) == 0 {
		return nil, models.ErrEmptyOrder
	}
	if order.Location == nil && order.Address == "" {
		return nil, models.ErrNoDestination
	}

	items := make([]models.OrderItem, 0, len(order.Items))
	for i, item := range order.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %d", models.ErrInvalidQuantity, i)
		}

		menuItem, err := os.menu.GetMenuItem(ctx, item.MenuItemID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				return nil, fmt.Errorf("%w: %s", models.ErrMenuItemNotFound, item.MenuItemID)
			}
			return nil, err
		}
		if !menuItem.Available {
			return nil, fmt.Errorf("%w: %s", models.ErrMenuItemUnavailable, menuItem.Name)
		}

		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Quantity:   item.Quantity,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
		})
	}

	now := os.now()
	newOrder := &models.Order{
		ID:       uuid.New().String(),
		UserID:   order.UserID,
		UserName: order.UserName,
		Items:    items,
		Contact:  order.Contact,
		Location: order.Location,
		Address:  order.Address,
		StatusFields: models.StatusFields{
			Pending: models.DefaultPendingMessage,
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := os.repo.CreateOrder(ctx, newOrder)
	if err != nil {
		return nil, err
	}

	os.logger.Debug("order created", zap.String("order", created.ID), zap.String("user", created.UserID))
	os.emit(models.OrderEvent{
		Type:    models.EventOrderCreated,
		OrderID: created.ID,
		UserID:  created.UserID,
	})

	return created, nil
}

// GetOrder returns live order
func (os *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := os.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, models.ErrOrderNotFound)
	}
	return order, nil
}

// ListUserOrders returns live orders of user
func (os *OrderService) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return os.repo.ListOrders(ctx, OrderFilter{UserID: userID})
}

// ListRiderOrders returns live orders assigned to rider
func (os *OrderService) ListRiderOrders(ctx context.Context, riderID string) ([]models.Order, error) {
	return os.repo.ListOrders(ctx, OrderFilter{RiderID: riderID})
}

// ListAllOrders returns every live order
func (os *OrderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return os.repo.ListOrders(ctx, OrderFilter{})
}

// GetFinishedOrder returns archived order
func (os *OrderService) GetFinishedOrder(ctx context.Context, id string) (*models.FinishedOrder, error) {
	order, err := os.repo.GetFinishedOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, models.ErrOrderNotFound)
	}
	return order, nil
}

// ListUserFinishedOrders returns archived orders of user
func (os *OrderService) ListUserFinishedOrders(ctx context.Context, userID string) ([]models.FinishedOrder, error) {
	return os.repo.ListFinishedOrders(ctx, OrderFilter{UserID: userID})
}

// ListAllFinishedOrders returns every archived order
func (os *OrderService) ListAllFinishedOrders(ctx context.Context) ([]models.FinishedOrder, error) {
	return os.repo.ListFinishedOrders(ctx, OrderFilter{})
}

// ListRiderDeliveries returns rider archive, every rider's for empty riderID
func (os *OrderService) ListRiderDeliveries(ctx context.Context, riderID string) ([]models.RiderDelivery, error) {
	return os.repo.ListRiderDeliveries(ctx, riderID)
}

// DeleteFinishedOrder permanently removes archived order
func (os *OrderService) DeleteFinishedOrder(ctx context.Context, id string) error {
	if err := os.repo.DeleteFinishedOrder(ctx, id); err != nil {
		return notFound(err, models.ErrOrderNotFound)
	}
	return nil
}

// SetStatus sets one allow-listed status field. The field must name the current
// state (message update) or the next one.
func (os *OrderService) SetStatus(ctx context.Context, orderID, field, value string) (*models.Order, error) {
	target, err := models.StateForField(field)
	if err != nil {
		return nil, err
	}
	order, changed, err := os.mutate(ctx, orderID, func(o *models.Order) (bool, error) {
		if value == "" {
			return false, fmt.Errorf("%w: %s cannot be unset", models.ErrInvalidTransition, field)
		}
		current := o.State()
		if current != target && !current.CanTransition(target) {
			return false, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, current, target)
		}
		if o.Get(field) == value {
			return false, nil
		}
		o.Set(field, value)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return order, nil
	}

	os.logger.Debug("order status set",
		zap.String("order", orderID),
		zap.String("field", field),
		zap.String("value", value))
	os.emit(models.OrderEvent{
		Type:      models.EventStatusChanged,
		OrderID:   order.ID,
		UserID:    order.UserID,
		RiderID:   order.RiderID,
		StatusKey: field,
		Value:     value,
	})

	return order, nil
}

// AssignRider attaches rider to order, replacing previous one
func (os *OrderService) AssignRider(ctx context.Context, orderID, riderID string) (*models.Order, error) {
	if riderID == "" {
		return nil, models.ErrMissingFields
	}

	order, _, err := os.mutate(ctx, orderID, func(o *models.Order) (bool, error) {
		now := os.now()
		o.RiderID = riderID
		o.AssignedAt = &now
		if os.opts.DispatchOnAssign && o.State() == models.StatePacking {
			o.OutForDelivery = "Out for delivery since " + now.Format(time.RFC3339)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	os.logger.Debug("rider assigned", zap.String("order", orderID), zap.String("rider", riderID))
	os.emit(models.OrderEvent{
		Type:    models.EventRiderAssigned,
		OrderID: order.ID,
		UserID:  order.UserID,
		RiderID: riderID,
	})

	return order, nil
}

// MarkFinished moves a delivered order to the archive
func (os *OrderService) MarkFinished(ctx context.Context, orderID string) (*models.FinishedOrder, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		order, err := os.repo.GetOrder(ctx, orderID)
		if err != nil {
			return nil, notFound(err, models.ErrOrderNotFound)
		}

		current := order.State()
		if !current.CanTransition(models.StateDelivered) {
			return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, current, models.StateDelivered)
		}

		finished, riderDelivery, err := os.archiveRecords(ctx, order)
		if err != nil {
			return nil, err
		}

		err = os.repo.ArchiveOrder(ctx, finished, riderDelivery, order.Version)
		switch {
		case err == nil:
			os.logger.Info("order finished", zap.String("order", orderID), zap.String("rider", order.RiderID))
			os.emit(models.OrderEvent{
				Type:    models.EventOrderFinished,
				OrderID: orderID,
				UserID:  order.UserID,
				RiderID: order.RiderID,
			})
			return finished, nil
		case errors.Is(err, models.ErrVersionConflict):
			os.logger.Debug("archive lost race, retrying", zap.String("order", orderID), zap.Int("attempt", attempt+1))
			continue
		default:
			return nil, notFound(err, models.ErrOrderNotFound)
		}
	}

	return nil, models.ErrVersionConflict
}

// archiveRecords builds archive records with denormalized rider details
func (os *OrderService) archiveRecords(ctx context.Context, order *models.Order) (*models.FinishedOrder, *models.RiderDelivery, error) {
	deliveredAt := os.now()

	finished := &models.FinishedOrder{
		ID:           order.ID,
		UserID:       order.UserID,
		UserName:     order.UserName,
		Items:        order.Items,
		Contact:      order.Contact,
		Location:     order.Location,
		Address:      order.Address,
		RiderID:      order.RiderID,
		AssignedAt:   order.AssignedAt,
		StatusFields: order.StatusFields,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
		DeliveredAt:  deliveredAt,
	}

	if order.RiderID == "" {
		return finished, nil, nil
	}

	rider, err := os.users.GetUserByID(ctx, order.RiderID)
	switch {
	case err == nil:
		finished.RiderName = rider.Name
		finished.RiderPhone = rider.Phone
	case errors.Is(err, models.ErrDataNotFound):
		// rider ids are not validated on assignment
		os.logger.Warn("assigned rider not found", zap.String("order", order.ID), zap.String("rider", order.RiderID))
	default:
		return nil, nil, err
	}

	riderDelivery := &models.RiderDelivery{
		ID:          order.ID,
		UserID:      order.UserID,
		UserName:    order.UserName,
		RiderID:     order.RiderID,
		Items:       order.Items,
		Contact:     order.Contact,
		Location:    order.Location,
		Address:     order.Address,
		DeliveredAt: deliveredAt,
	}

	return finished, riderDelivery, nil
}

// mutate loads order, applies fn and stores it, retrying on optimistic lock conflicts.
// fn reports whether it changed the order, mutate reports whether it was written.
func (os *OrderService) mutate(ctx context.Context, orderID string, fn func(o *models.Order) (bool, error)) (*models.Order, bool, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		order, err := os.repo.GetOrder(ctx, orderID)
		if err != nil {
			return nil, false, notFound(err, models.ErrOrderNotFound)
		}

		changed, err := fn(order)
		if err != nil {
			return nil, false, err
		}
		if !changed {
			return order, false, nil
		}

		order.UpdatedAt = os.now()
		err = os.repo.UpdateOrder(ctx, order)
		switch {
		case err == nil:
			return order, true, nil
		case errors.Is(err, models.ErrVersionConflict):
			os.logger.Debug("order update lost race, retrying", zap.String("order", orderID), zap.Int("attempt", attempt+1))
			continue
		default:
			return nil, false, notFound(err, models.ErrOrderNotFound)
		}
	}

	return nil, false, models.ErrVersionConflict
}

func (os *OrderService) emit(event models.OrderEvent) {
	if os.events == nil {
		return
	}
	event.At = os.now()
	os.events.Enqueue(event)
}

// notFound replaces ErrDataNotFound by a domain specific error
func notFound(err, replacement error) error {
	if errors.Is(err, models.ErrDataNotFound) {
		return replacement
	}
	return err
}
