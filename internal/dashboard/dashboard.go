// Package dashboard builds the polled views of the admin, rider and customer screens.
package dashboard

import (
	"context"
	"time"

	"github.com/rookgm/gofood/internal/client"
	"github.com/rookgm/gofood/internal/models"
	"github.com/rookgm/gofood/internal/poller"
	"go.uber.org/zap"
)

// API is the part of gofood API dashboards read
type API interface {
	AllOrders(ctx context.Context) ([]models.Order, error)
	AllFinishedOrders(ctx context.Context) ([]models.FinishedOrder, error)
	RiderOrders(ctx context.Context, riderID string) ([]models.Order, error)
	RiderDeliveries(ctx context.Context, riderID string) ([]models.RiderDelivery, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetFinishedOrder(ctx context.Context, id string) (*models.FinishedOrder, error)
	UserFinishedOrders(ctx context.Context, userID string) ([]models.FinishedOrder, error)
}

// AdminSnapshot is admin view of live and finished orders
type AdminSnapshot struct {
	Active   []models.Order
	Finished []models.FinishedOrder
}

// RiderSnapshot is rider view of current and delivered orders
type RiderSnapshot struct {
	Current   []models.Order
	Delivered []models.RiderDelivery
}

// CustomerSnapshot is customer view of one order and the order history.
// Exactly one of Order and Finished is set.
type CustomerSnapshot struct {
	Order    *models.Order
	Finished *models.FinishedOrder
	History  []models.FinishedOrder
}

// State returns lifecycle state of the tracked order
func (s CustomerSnapshot) State() models.OrderState {
	if s.Finished != nil {
		return models.StateArchived
	}
	if s.Order != nil {
		return s.Order.State()
	}
	return ""
}

// FetchAdmin loads admin snapshot
func FetchAdmin(ctx context.Context, api API) (AdminSnapshot, error) {
	active, err := api.AllOrders(ctx)
	if err != nil {
		return AdminSnapshot{}, err
	}
	finished, err := api.AllFinishedOrders(ctx)
	if err != nil {
		return AdminSnapshot{}, err
	}
	return AdminSnapshot{Active: active, Finished: finished}, nil
}

// FetchRider loads rider snapshot
func FetchRider(ctx context.Context, api API, riderID string) (RiderSnapshot, error) {
	current, err := api.RiderOrders(ctx, riderID)
	if err != nil {
		return RiderSnapshot{}, err
	}
	delivered, err := api.RiderDeliveries(ctx, riderID)
	if err != nil {
		return RiderSnapshot{}, err
	}
	return RiderSnapshot{Current: current, Delivered: delivered}, nil
}

// FetchCustomer loads customer snapshot. An order missing from the live set
// is looked up in the archive.
func FetchCustomer(ctx context.Context, api API, userID, orderID string) (CustomerSnapshot, error) {
	snap := CustomerSnapshot{}

	order, err := api.GetOrder(ctx, orderID)
	switch {
	case err == nil:
		snap.Order = order
	case client.IsNotFound(err):
		finished, err := api.GetFinishedOrder(ctx, orderID)
		if err != nil {
			return CustomerSnapshot{}, err
		}
		snap.Finished = finished
	default:
		return CustomerSnapshot{}, err
	}

	history, err := api.UserFinishedOrders(ctx, userID)
	if err != nil {
		return CustomerSnapshot{}, err
	}
	snap.History = history

	return snap, nil
}

// NewAdmin creates poller of admin dashboard
func NewAdmin(api API, interval time.Duration, logger *zap.Logger, opts ...poller.Option[AdminSnapshot]) *poller.Poller[AdminSnapshot] {
	fetch := func(ctx context.Context) (AdminSnapshot, error) {
		return FetchAdmin(ctx, api)
	}
	opts = append([]poller.Option[AdminSnapshot]{poller.WithLogger[AdminSnapshot](logger)}, opts...)
	return poller.New("admin", interval, fetch, opts...)
}

// NewRider creates poller of rider dashboard
func NewRider(api API, riderID string, interval time.Duration, logger *zap.Logger, opts ...poller.Option[RiderSnapshot]) *poller.Poller[RiderSnapshot] {
	fetch := func(ctx context.Context) (RiderSnapshot, error) {
		return FetchRider(ctx, api, riderID)
	}
	opts = append([]poller.Option[RiderSnapshot]{poller.WithLogger[RiderSnapshot](logger)}, opts...)
	return poller.New("rider", interval, fetch, opts...)
}

// NewCustomer creates poller of customer order detail
func NewCustomer(api API, userID, orderID string, interval time.Duration, logger *zap.Logger, opts ...poller.Option[CustomerSnapshot]) *poller.Poller[CustomerSnapshot] {
	fetch := func(ctx context.Context) (CustomerSnapshot, error) {
		return FetchCustomer(ctx, api, userID, orderID)
	}
	opts = append([]poller.Option[CustomerSnapshot]{poller.WithLogger[CustomerSnapshot](logger)}, opts...)
	return poller.New("customer", interval, fetch, opts...)
}
