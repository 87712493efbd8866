package models

import "errors"

var (
	ErrConflictData       = errors.New("data conflicts with existing data")
	ErrDataNotFound       = errors.New("data not found")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrInvalidOrderID     = errors.New("invalid order id")
	ErrInternalError      = errors.New("internal error")

	ErrOrderNotFound       = errors.New("order not found")
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrMenuItemUnavailable = errors.New("menu item is not available")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")

	ErrInvalidStatusField = errors.New("invalid status field")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrVersionConflict    = errors.New("order was modified concurrently")

	ErrMissingFields   = errors.New("missing required fields")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidRole     = errors.New("invalid role")
	ErrEmptyOrder      = errors.New("order has no items")
	ErrNoDestination   = errors.New("order has neither location nor address")
)

// StatusError is returned by the API client for non-2xx responses
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// NewStatusError creates StatusError
func NewStatusError(code int, msg string) *StatusError {
	return &StatusError{Code: code, Message: msg}
}
