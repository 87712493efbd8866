package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Location is a structured delivery destination
type Location struct {
	Name string  `json:"name" bson:"name"`
	Lat  float64 `json:"lat" bson:"lat"`
	Lon  float64 `json:"lon" bson:"lon"`
}

// OrderItem is a menu item reference with the quantity ordered.
// Name and Price are snapshotted when the order is created.
type OrderItem struct {
	MenuItemID string  `json:"menuItemId" bson:"menu_item_id"`
	Quantity   int     `json:"quantity" bson:"quantity"`
	Name       string  `json:"name" bson:"name"`
	Price      float64 `json:"price" bson:"price"`
}

// StatusFields holds the per-step status messages. An empty field means the step
// has not been reached.
type StatusFields struct {
	Pending        string `json:"pending" bson:"pending"`
	Confirmed      string `json:"confirmed" bson:"confirmed"`
	Preparing      string `json:"preparing" bson:"preparing"`
	Packing        string `json:"packing" bson:"packing"`
	OutForDelivery string `json:"outForDelivery" bson:"out_for_delivery"`
}

// State returns the furthest step reached
func (sf StatusFields) State() OrderState {
	switch {
	case sf.OutForDelivery != "":
		return StateOutForDelivery
	case sf.Packing != "":
		return StatePacking
	case sf.Preparing != "":
		return StatePreparing
	case sf.Confirmed != "":
		return StateConfirmed
	default:
		return StatePending
	}
}

// Get returns the message of the named field
func (sf StatusFields) Get(field string) string {
	switch field {
	case FieldPending:
		return sf.Pending
	case FieldConfirmed:
		return sf.Confirmed
	case FieldPreparing:
		return sf.Preparing
	case FieldPacking:
		return sf.Packing
	case FieldOutForDelivery:
		return sf.OutForDelivery
	}
	return ""
}

// Set overwrites the named field, unknown names are ignored
func (sf *StatusFields) Set(field, value string) {
	switch field {
	case FieldPending:
		sf.Pending = value
	case FieldConfirmed:
		sf.Confirmed = value
	case FieldPreparing:
		sf.Preparing = value
	case FieldPacking:
		sf.Packing = value
	case FieldOutForDelivery:
		sf.OutForDelivery = value
	}
}

// Order is a live order entity
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	UserName   string      `json:"userName"`
	Items      []OrderItem `json:"items"`
	Contact    string      `json:"contact"`
	Location   *Location   `json:"location,omitempty"`
	Address    string      `json:"address,omitempty"`
	RiderID    string      `json:"riderId"`
	AssignedAt *time.Time  `json:"assignedAt,omitempty"`
	StatusFields
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// State returns the current lifecycle state
func (o *Order) State() OrderState {
	return o.StatusFields.State()
}

// Total returns sum of price * quantity over the order items
func (o *Order) Total() decimal.Decimal {
	return ItemsTotal(o.Items)
}

// ItemsTotal returns sum of price * quantity
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// FinishedOrder is the customer/admin facing archive record of a delivered order
type FinishedOrder struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	UserName   string      `json:"userName"`
	Items      []OrderItem `json:"items"`
	Contact    string      `json:"contact"`
	Location   *Location   `json:"location,omitempty"`
	Address    string      `json:"address,omitempty"`
	RiderID    string      `json:"riderId"`
	RiderName  string      `json:"riderName,omitempty"`
	RiderPhone string      `json:"riderPhone,omitempty"`
	AssignedAt *time.Time  `json:"assignedAt,omitempty"`
	StatusFields
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

// RiderDelivery is the rider facing archive record of a delivered order
type RiderDelivery struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	UserName    string      `json:"userName"`
	RiderID     string      `json:"riderId"`
	Items       []OrderItem `json:"items"`
	Contact     string      `json:"contact"`
	Location    *Location   `json:"location,omitempty"`
	Address     string      `json:"address,omitempty"`
	DeliveredAt time.Time   `json:"deliveredAt"`
}
