package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rookgm/gofood/internal/auth"
	"github.com/rookgm/gofood/internal/models"
)

// TokenService issues tokens on login
type TokenService interface {
	CreateToken(user *models.User) (string, error)
}

// UserRepository is interface for interacting with user-related data
type UserRepository interface {
	// CreateUser inserts new user, returns ErrConflictData when name or email is taken
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByID returns user by id
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// GetUserByName returns user by name
	GetUserByName(ctx context.Context, name string) (*models.User, error)
	// ListUsersByRole returns users having role
	ListUsersByRole(ctx context.Context, role string) ([]models.User, error)
}

// UserService implements user registration and authentication
type UserService struct {
	repo  UserRepository
	token TokenService
	now   func() time.Time
}

// NewUserService creates new UserService instance
func NewUserService(repo UserRepository, token TokenService) *UserService {
	return &UserService{
		repo:  repo,
		token: token,
		now:   time.Now,
	}
}

// SignUp registers a customer account
func (us *UserService) SignUp(ctx context.Context, name, email, password, phone string) (*models.User, error) {
	if name == "" || email == "" || password == "" || phone == "" {
		return nil, models.ErrMissingFields
	}

	return us.create(ctx, name, email, password, phone, models.RoleUser)
}

// CreateUser creates an account with any role, used by admins to add riders and admins
func (us *UserService) CreateUser(ctx context.Context, name, password, role, phone string) (*models.User, error) {
	if name == "" || password == "" || role == "" {
		return nil, models.ErrMissingFields
	}
	if !models.ValidRole(role) {
		return nil, models.ErrInvalidRole
	}

	return us.create(ctx, name, "", password, phone, role)
}

func (us *UserService) create(ctx context.Context, name, email, password, phone, role string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Phone:        phone,
		Role:         role,
		CreatedAt:    us.now(),
	}

	user, err = us.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflictData) {
			return nil, models.ErrUserExists
		}
		return nil, err
	}

	return user, nil
}

// Login checks credentials and returns token and user
func (us *UserService) Login(ctx context.Context, name, password string) (string, *models.User, error) {
	if name == "" || password == "" {
		return "", nil, models.ErrInvalidCredentials
	}

	user, err := us.repo.GetUserByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return "", nil, models.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return "", nil, err
	}

	token, err := us.token.CreateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// GetUser returns user by id
func (us *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := us.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates an admin account unless a user with that name already exists
func (us *UserService) EnsureAdmin(ctx context.Context, name, password string) (bool, error) {
	_, err := us.repo.GetUserByName(ctx, strings.TrimSpace(name))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, models.ErrDataNotFound) {
		return false, err
	}

	if _, err := us.CreateUser(ctx, name, password, models.RoleAdmin, ""); err != nil {
		return false, err
	}
	return true, nil
}

// ListRiders returns all users with rider role
func (us *UserService) ListRiders(ctx context.Context) ([]models.User, error) {
	return us.repo.ListUsersByRole(ctx, models.RoleRider)
}
