package models

import "time"

// order event types
const (
	EventOrderCreated  = "order.created"
	EventStatusChanged = "order.status_changed"
	EventRiderAssigned = "order.rider_assigned"
	EventOrderFinished = "order.finished"
)

// OrderEvent describes a change of an order, published for push-style consumers
type OrderEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	RiderID   string    `json:"riderId,omitempty"`
	StatusKey string    `json:"statusKey,omitempty"`
	Value     string    `json:"value,omitempty"`
	At        time.Time `json:"at"`
}
