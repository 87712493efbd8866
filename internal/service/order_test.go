package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rookgm/gofood/internal/auth"
	"github.com/rookgm/gofood/internal/models"
	"github.com/rookgm/gofood/internal/repository/memory"
	"github.com/rookgm/gofood/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []models.OrderEvent
}

func (r *eventRecorder) Enqueue(event models.OrderEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

type fixture struct {
	store  *memory.Store
	orders *service.OrderService
	events *eventRecorder
	itemA  *models.MenuItem
	itemB  *models.MenuItem
	rider  *models.User
}

func newFixture(t *testing.T, opts service.OrderOptions) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.New()
	menu := service.NewMenuService(store)
	users := service.NewUserService(store, auth.NewAuthToken([]byte("secret"), time.Hour))

	itemA, err := menu.CreateItem(ctx, "Jollof", 85, "rice", "")
	require.NoError(t, err)
	itemB, err := menu.CreateItem(ctx, "Kelewele", 20.5, "sides", "")
	require.NoError(t, err)
	rider, err := users.CreateUser(ctx, "kofi", "secret", models.RoleRider, "0240000000")
	require.NoError(t, err)

	events := &eventRecorder{}

	return &fixture{
		store:  store,
		orders: service.NewOrderService(store, store, store, events, opts, zap.NewNop()),
		events: events,
		itemA:  itemA,
		itemB:  itemB,
		rider:  rider,
	}
}

func (f *fixture) createOrder(t *testing.T) *models.Order {
	t.Helper()
	order, err := f.orders.CreateOrder(context.Background(), &models.Order{
		UserID:   "u1",
		UserName: "ama",
		Items: []models.OrderItem{
			{MenuItemID: f.itemA.ID, Quantity: 2},
			{MenuItemID: f.itemB.ID, Quantity: 1},
		},
		Contact:  "0200000000",
		Location: &models.Location{Name: "Osu", Lat: 5.55, Lon: -0.18},
	})
	require.NoError(t, err)
	return order
}

func TestOrderService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, service.OrderOptions{})

	order := f.createOrder(t)
	assert.Equal(t, models.DefaultPendingMessage, order.Pending)
	assert.Equal(t, models.StatePending, order.State())
	assert.Equal(t, "Jollof", order.Items[0].Name)
	assert.Equal(t, 85.0, order.Items[0].Price)
	assert.Equal(t, "190.5", order.Total().String())

	_, err := f.orders.SetStatus(ctx, order.ID, models.FieldConfirmed, "Confirmed by kitchen")
	require.NoError(t, err)

	got, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Confirmed by kitchen", got.Confirmed)
	assert.Empty(t, got.Preparing)

	_, err = f.orders.AssignRider(ctx, order.ID, f.rider.ID)
	require.NoError(t, err)

	got, err = f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, f.rider.ID, got.RiderID)
	require.NotNil(t, got.AssignedAt)
	assert.Empty(t, got.OutForDelivery)

	finished, err := f.orders.MarkFinished(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "kofi", finished.RiderName)
	assert.Equal(t, "0240000000", finished.RiderPhone)

	_, err = f.orders.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	archived, err := f.orders.GetFinishedOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, f.rider.ID, archived.RiderID)
	if diff := cmp.Diff(order.Items, archived.Items); diff != "" {
		t.Errorf("archived items mismatch (-want +got):\n%s", diff)
	}

	deliveries, err := f.orders.ListRiderDeliveries(ctx, f.rider.ID)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, order.ID, deliveries[0].ID)

	history, err := f.orders.ListUserFinishedOrders(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, history, 1)

	assert.Equal(t, []string{
		models.EventOrderCreated,
		models.EventStatusChanged,
		models.EventRiderAssigned,
		models.EventOrderFinished,
	}, f.events.types())
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, service.OrderOptions{})

	available := false
	_, err := service.NewMenuService(f.store).UpdateItem(ctx, f.itemB.ID, models.MenuItemUpdate{Available: &available})
	require.NoError(t, err)

	tests := []struct {
		name    string
		order   *models.Order
		wantErr error
	}{
		{
			name:    "no_items",
			order:   &models.Order{UserID: "u1", UserName: "ama", Address: "Osu"},
			wantErr: models.ErrEmptyOrder,
		},
		{
			name:    "no_destination",
			order:   &models.Order{UserID: "u1", UserName: "ama", Items: []models.OrderItem{{MenuItemID: f.itemA.ID, Quantity: 1}}},
			wantErr: models.ErrNoDestination,
		},
		{
			name:    "no_user_name",
			order:   &models.Order{UserID: "u1", Address: "Osu", Items: []models.OrderItem{{MenuItemID: f.itemA.ID, Quantity: 1}}},
			wantErr: models.ErrMissingFields,
		},
		{
			name:    "zero_quantity",
			order:   &models.Order{UserID: "u1", UserName: "ama", Address: "Osu", Items: []models.OrderItem{{MenuItemID: f.itemA.ID}}},
			wantErr: models.ErrInvalidQuantity,
		},
		{
			name:    "unknown_item",
			order:   &models.Order{UserID: "u1", UserName: "ama", Address: "Osu", Items: []models.OrderItem{{MenuItemID: "nope", Quantity: 1}}},
			wantErr: models.ErrMenuItemNotFound,
		},
		{
			name:    "unavailable_item",
			order:   &models.Order{UserID: "u1", UserName: "ama", Address: "Osu", Items: []models.OrderItem{{MenuItemID: f.itemB.ID, Quantity: 1}}},
			wantErr: models.ErrMenuItemUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.CreateOrder(ctx, tt.order)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	orders, err := f.orders.ListAllOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_UnknownOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, service.OrderOptions{})
	order := f.createOrder(t)

	before, err := f.store.ListOrders(ctx, service.OrderFilter{})
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, "nope", models.FieldConfirmed, "Confirmed")
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	_, err = f.orders.SetStatus(ctx, "nope", models.FieldConfirmed, "")
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	_, err = f.orders.AssignRider(ctx, "nope", f.rider.ID)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	_, err = f.orders.MarkFinished(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	assert.ErrorIs(t, f.orders.DeleteFinishedOrder(ctx, order.ID), models.ErrOrderNotFound)

	after, err := f.store.ListOrders(ctx, service.OrderFilter{})
	require.NoError(t, err)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("orders changed (-before +after):\n%s", diff)
	}
}

func TestOrderService_SetStatus_FieldNotAllowed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, service.OrderOptions{})
	order := f.createOrder(t)

	for _, field := range []string{"riderId", "pending", "items", "userId", "version", "", "OUTFORDELIVERY"} {
		t.Run(field, func(t *testing.T) {
			_, err := f.orders.SetStatus(ctx, order.ID, field, "x")
			assert.ErrorIs(t, err, models.ErrInvalidStatusField)

			got, err := f.orders.GetOrder(ctx, order.ID)
			require.NoError(t, err)
			if diff := cmp.Diff(order, got); diff != "" {
				t.Errorf("order changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOrderService_SetStatus_Transitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, service.OrderOptions{})
	order := f.createOrder(t)

	steps := []struct {
		field   string
		value   string
		wantErr error
		want    models.OrderState
	}{
		{field: models.FieldPreparing, value: "Cooking", wantErr: models.ErrInvalidTransition, want: models.StatePending},
		{field: models.FieldConfirmed, value: "", wantErr: models.ErrInvalidTransition, want: models.StatePending},
		{field: models.FieldConfirmed, value: "Confirmed", want: models.StateConfirmed},
		{field: models.FieldConfirmed, value: "Confirmed again", want: models.StateConfirmed},
		{field: models.FieldPacking, value: "Packing", wantErr: models.ErrInvalidTransition, want: models.StateConfirmed},
		{field: models.FieldPreparing, value: "Cooking", want: models.StatePreparing},
		{field: models.FieldConfirmed, value: "Back", wantErr: models.ErrInvalidTransition, want: models.StatePreparing},
		{field: models.FieldPacking, value: "Packing", want: models.StatePacking},
		{field: models.FieldOutForDelivery, value: "On the way", want: models.StateOutForDelivery},
	}

	for _, step := range steps {
		_, err := f.orders.SetStatus(ctx, order.ID, step.field, step.value)
		if step.wantErr != nil {
			assert.ErrorIs(t, err, step.wantErr, "%s=%q", step.field, step.value)
		} else {
			assert.NoError(t, err, "%s=%q", step.field, step.value)
		}

		got, err := f.orders.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, step.want, got.State(), "%s=%q", step.field, step.value)
	}

	got, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Confirmed again", got.Confirmed)
}

func TestOrderService_MarkFinished_RequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, service.OrderOptions{})
	order := f.createOrder(t)

	_, err := f.orders.MarkFinished(ctx, order.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = f.orders.GetOrder(ctx, order.ID)
	assert.NoError(t, err)
}

func TestOrderService_MarkFinished_WithoutRider(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, service.OrderOptions{})
	order := f.createOrder(t)

	_, err := f.orders.SetStatus(ctx, order.ID, models.FieldConfirmed, "Confirmed")
	require.NoError(t, err)

	finished, err := f.orders.MarkFinished(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, finished.RiderID)

	deliveries, err := f.orders.ListRiderDeliveries(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, deliveries)

	_, err = f.orders.MarkFinished(ctx, order.ID)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestOrderService_MarkFinished_Concurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, service.OrderOptions{})
	order := f.createOrder(t)

	_, err := f.orders.SetStatus(ctx, order.ID, models.FieldConfirmed, "Confirmed")
	require.NoError(t, err)
	_, err = f.orders.AssignRider(ctx, order.ID, f.rider.ID)
	require.NoError(t, err)

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.orders.MarkFinished(ctx, order.ID); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)

	finished, err := f.orders.ListAllFinishedOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, finished, 1)

	deliveries, err := f.orders.ListRiderDeliveries(ctx, f.rider.ID)
	require.NoError(t, err)
	assert.Len(t, deliveries, 1)

	live, err := f.orders.ListAllOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, live)
}

func TestOrderService_AssignRider(t *testing.T) {
	ctx := context.Background()

	t.Run("assignment_does_not_dispatch", func(t *testing.T) {
		f := newFixture(t, service.OrderOptions{})
		order := f.createOrder(t)
		for _, field := range []string{models.FieldConfirmed, models.FieldPreparing, models.FieldPacking} {
			_, err := f.orders.SetStatus(ctx, order.ID, field, field)
			require.NoError(t, err)
		}

		got, err := f.orders.AssignRider(ctx, order.ID, f.rider.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatePacking, got.State())
	})

	t.Run("dispatch_on_assign", func(t *testing.T) {
		f := newFixture(t, service.OrderOptions{DispatchOnAssign: true})
		order := f.createOrder(t)

		got, err := f.orders.AssignRider(ctx, order.ID, f.rider.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatePending, got.State())

		for _, field := range []string{models.FieldConfirmed, models.FieldPreparing, models.FieldPacking} {
			_, err := f.orders.SetStatus(ctx, order.ID, field, field)
			require.NoError(t, err)
		}

		got, err = f.orders.AssignRider(ctx, order.ID, "r2")
		require.NoError(t, err)
		assert.Equal(t, models.StateOutForDelivery, got.State())
		assert.Contains(t, got.OutForDelivery, "Out for delivery since ")
		assert.Equal(t, "r2", got.RiderID)
	})

	t.Run("empty_rider", func(t *testing.T) {
		f := newFixture(t, service.OrderOptions{})
		order := f.createOrder(t)

		_, err := f.orders.AssignRider(ctx, order.ID, "")
		assert.ErrorIs(t, err, models.ErrMissingFields)
	})

	t.Run("unknown_rider_archives_blank_details", func(t *testing.T) {
		f := newFixture(t, service.OrderOptions{})
		order := f.createOrder(t)

		_, err := f.orders.SetStatus(ctx, order.ID, models.FieldConfirmed, "Confirmed")
		require.NoError(t, err)
		_, err = f.orders.AssignRider(ctx, order.ID, "ghost")
		require.NoError(t, err)

		finished, err := f.orders.MarkFinished(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "ghost", finished.RiderID)
		assert.Empty(t, finished.RiderName)
	})
}

func TestOrderService_SetStatus_SameValueEmitsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, service.OrderOptions{})
	order := f.createOrder(t)

	_, err := f.orders.SetStatus(ctx, order.ID, models.FieldConfirmed, "Confirmed")
	require.NoError(t, err)
	applied, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)

	got, err := f.orders.SetStatus(ctx, order.ID, models.FieldConfirmed, "Confirmed")
	require.NoError(t, err)
	assert.Equal(t, applied.Version, got.Version)

	assert.Equal(t, []string{
		models.EventOrderCreated,
		models.EventStatusChanged,
	}, f.events.types())
}
