package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderState_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderState
		to   OrderState
		want bool
	}{
		{name: "pending_to_confirmed", from: StatePending, to: StateConfirmed, want: true},
		{name: "pending_to_preparing", from: StatePending, to: StatePreparing, want: false},
		{name: "confirmed_to_preparing", from: StateConfirmed, to: StatePreparing, want: true},
		{name: "confirmed_to_delivered", from: StateConfirmed, to: StateDelivered, want: true},
		{name: "pending_to_delivered", from: StatePending, to: StateDelivered, want: false},
		{name: "preparing_to_packing", from: StatePreparing, to: StatePacking, want: true},
		{name: "packing_to_out_for_delivery", from: StatePacking, to: StateOutForDelivery, want: true},
		{name: "packing_to_preparing_backward", from: StatePacking, to: StatePreparing, want: false},
		{name: "out_for_delivery_to_delivered", from: StateOutForDelivery, to: StateDelivered, want: true},
		{name: "delivered_to_archived", from: StateDelivered, to: StateArchived, want: true},
		{name: "archived_to_pending", from: StateArchived, to: StatePending, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestStateForField(t *testing.T) {
	state, err := StateForField(FieldOutForDelivery)
	require.NoError(t, err)
	assert.Equal(t, StateOutForDelivery, state)

	for _, field := range []string{FieldPending, "delivered", "riderId", ""} {
		_, err := StateForField(field)
		assert.ErrorIs(t, err, ErrInvalidStatusField, field)
	}
}

func TestStatusFields_State(t *testing.T) {
	sf := StatusFields{Pending: DefaultPendingMessage}
	assert.Equal(t, StatePending, sf.State())

	sf.Set(FieldConfirmed, "ok")
	assert.Equal(t, StateConfirmed, sf.State())
	assert.Equal(t, "ok", sf.Get(FieldConfirmed))

	sf.Set(FieldPreparing, "cooking")
	sf.Set(FieldPacking, "boxed")
	assert.Equal(t, StatePacking, sf.State())

	sf.Set("unknown", "x")
	assert.Equal(t, StatePacking, sf.State())
	assert.True(t, StateArchived.IsTerminal())
	assert.False(t, StatePacking.IsTerminal())
}

func TestItemsTotal(t *testing.T) {
	items := []OrderItem{
		{MenuItemID: "a", Quantity: 2, Price: 10.1},
		{MenuItemID: "b", Quantity: 1, Price: 0.2},
	}
	assert.Equal(t, "20.4", ItemsTotal(items).String())
	assert.True(t, ItemsTotal(nil).IsZero())
}
