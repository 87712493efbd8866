package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rookgm/gofood/internal/models"
)

// MenuRepository is interface for interacting with menu-related data
type MenuRepository interface {
	// CreateMenuItem inserts new menu item
	CreateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error)
	// GetMenuItem returns menu item by id
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
	// ListMenuItems returns menu items, only available ones if onlyAvailable is set
	ListMenuItems(ctx context.Context, onlyAvailable bool) ([]models.MenuItem, error)
	// UpdateMenuItem applies update and returns updated item
	UpdateMenuItem(ctx context.Context, id string, upd models.MenuItemUpdate, updatedAt time.Time) (*models.MenuItem, error)
	// DeleteMenuItem removes menu item
	DeleteMenuItem(ctx context.Context, id string) error
}

// MenuService implements MenuService interface
type MenuService struct {
	repo MenuRepository
	now  func() time.Time
}

// NewMenuService creates new MenuService instance
func NewMenuService(repo MenuRepository) *MenuService {
	return &MenuService{
		repo: repo,
		now:  time.Now,
	}
}

// Menu returns available menu items
func (ms *MenuService) Menu(ctx context.Context) ([]models.MenuItem, error) {
	return ms.repo.ListMenuItems(ctx, true)
}

// AllItems returns every menu item including unavailable ones
func (ms *MenuService) AllItems(ctx context.Context) ([]models.MenuItem, error) {
	return ms.repo.ListMenuItems(ctx, false)
}

// CreateItem validates and stores new menu item
func (ms *MenuService) CreateItem(ctx context.Context, name string, price float64, category, image string) (*models.MenuItem, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	if name == "" || category == "" {
		return nil, models.ErrMissingFields
	}
	if price < 0 {
		return nil, models.ErrInvalidPrice
	}

	now := ms.now()
	item := &models.MenuItem{
		ID:        uuid.New().String(),
		Name:      name,
		Price:     price,
		Category:  category,
		Available: true,
		Image:     image,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return ms.repo.CreateMenuItem(ctx, item)
}

// UpdateItem changes menu item fields
func (ms *MenuService) UpdateItem(ctx context.Context, id string, upd models.MenuItemUpdate) (*models.MenuItem, error) {
	if upd.Price != nil && *upd.Price < 0 {
		return nil, models.ErrInvalidPrice
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, models.ErrMissingFields
	}
	if upd.Category != nil && strings.TrimSpace(*upd.Category) == "" {
		return nil, models.ErrMissingFields
	}

	item, err := ms.repo.UpdateMenuItem(ctx, id, upd, ms.now())
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return nil, models.ErrMenuItemNotFound
		}
		return nil, err
	}

	return item, nil
}

// UpdatePrice changes price only
func (ms *MenuService) UpdatePrice(ctx context.Context, id string, price float64) (*models.MenuItem, error) {
	return ms.UpdateItem(ctx, id, models.MenuItemUpdate{Price: &price})
}

// DeleteItem removes menu item
func (ms *MenuService) DeleteItem(ctx context.Context, id string) error {
	if err := ms.repo.DeleteMenuItem(ctx, id); err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return models.ErrMenuItemNotFound
		}
		return err
	}
	return nil
}
