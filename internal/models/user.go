package models

import "time"

// user roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleRider = "rider"
)

// ValidRole reports whether role is known
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleRider:
		return true
	}
	return false
}

// User is user entity
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TokenPayload is payload of authorization token
type TokenPayload struct {
	UserID string
	Role   string
}
