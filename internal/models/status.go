package models

import "fmt"

// OrderState is a step of the order lifecycle
type OrderState string

// order states in workflow order
const (
	StatePending        OrderState = "pending"
	StateConfirmed      OrderState = "confirmed"
	StatePreparing      OrderState = "preparing"
	StatePacking        OrderState = "packing"
	StateOutForDelivery OrderState = "out_for_delivery"
	StateDelivered      OrderState = "delivered"
	StateArchived       OrderState = "archived"
)

// status field names accepted by the status endpoint
const (
	FieldPending        = "pending"
	FieldConfirmed      = "confirmed"
	FieldPreparing      = "preparing"
	FieldPacking        = "packing"
	FieldOutForDelivery = "outForDelivery"
)

// DefaultPendingMessage is set on every new order
const DefaultPendingMessage = "Pending Confirmation"

var transitions = map[OrderState][]OrderState{
	StatePending:        {StateConfirmed},
	StateConfirmed:      {StatePreparing, StateDelivered},
	StatePreparing:      {StatePacking, StateDelivered},
	StatePacking:        {StateOutForDelivery, StateDelivered},
	StateOutForDelivery: {StateDelivered},
	StateDelivered:      {StateArchived},
}

// settable maps an allow-listed status field to the state it represents.
// pending is set on creation only.
var settable = map[string]OrderState{
	FieldConfirmed:      StateConfirmed,
	FieldPreparing:      StatePreparing,
	FieldPacking:        StatePacking,
	FieldOutForDelivery: StateOutForDelivery,
}

// StateForField returns the state represented by an allow-listed status field
func StateForField(field string) (OrderState, error) {
	state, ok := settable[field]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatusField, field)
	}
	return state, nil
}

// CanTransition reports whether the lifecycle allows moving from s to next
func (s OrderState) CanTransition(next OrderState) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s OrderState) IsTerminal() bool {
	return len(transitions[s]) == 0
}
