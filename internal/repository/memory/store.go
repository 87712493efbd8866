// Package memory keeps users, menu items and orders in process memory.
// It backs development runs and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rookgm/gofood/internal/models"
	"github.com/rookgm/gofood/internal/service"
)

// Store implements user, menu and order repositories
type Store struct {
	mu            sync.RWMutex
	users         map[string]models.User
	menu          map[string]models.MenuItem
	orders        map[string]models.Order
	finished      map[string]models.FinishedOrder
	riderFinished map[string]models.RiderDelivery
}

// New creates empty Store
func New() *Store {
	return &Store{
		users:         map[string]models.User{},
		menu:          map[string]models.MenuItem{},
		orders:        map[string]models.Order{},
		finished:      map[string]models.FinishedOrder{},
		riderFinished: map[string]models.RiderDelivery{},
	}
}

// CreateUser inserts new user
func (s *Store) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Name == user.Name || (user.Email != "" && strings.EqualFold(u.Email, user.Email)) {
			return nil, models.ErrConflictData
		}
	}

	s.users[user.ID] = *user
	created := *user
	return &created, nil
}

// GetUserByID returns user by id
func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return &u, nil
}

// GetUserByName returns user by name
func (s *Store) GetUserByName(_ context.Context, name string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Name == name {
			return &u, nil
		}
	}
	return nil, models.ErrDataNotFound
}

// ListUsersByRole returns users having role
func (s *Store) ListUsersByRole(_ context.Context, role string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []models.User{}
	for _, u := range s.users {
		if u.Role == role {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

// CreateMenuItem inserts new menu item
func (s *Store) CreateMenuItem(_ context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.menu[item.ID]; ok {
		return nil, models.ErrConflictData
	}
	s.menu[item.ID] = *item
	created := *item
	return &created, nil
}

// GetMenuItem returns menu item by id
func (s *Store) GetMenuItem(_ context.Context, id string) (*models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.menu[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return &item, nil
}

// ListMenuItems returns menu items sorted by category and name
func (s *Store) ListMenuItems(_ context.Context, onlyAvailable bool) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := []models.MenuItem{}
	for _, item := range s.menu {
		if onlyAvailable && !item.Available {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// UpdateMenuItem applies update
func (s *Store) UpdateMenuItem(_ context.Context, id string, upd models.MenuItemUpdate, updatedAt time.Time) (*models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.menu[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Price != nil {
		item.Price = *upd.Price
	}
	if upd.Category != nil {
		item.Category = *upd.Category
	}
	if upd.Available != nil {
		item.Available = *upd.Available
	}
	if upd.Image != nil {
		item.Image = *upd.Image
	}
	item.UpdatedAt = updatedAt
	s.menu[id] = item

	return &item, nil
}

// DeleteMenuItem removes menu item
func (s *Store) DeleteMenuItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.menu[id]; !ok {
		return models.ErrDataNotFound
	}
	delete(s.menu, id)
	return nil
}

// CreateOrder inserts new live order
func (s *Store) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; ok {
		return nil, models.ErrConflictData
	}
	if _, ok := s.finished[order.ID]; ok {
		return nil, models.ErrConflictData
	}

	stored := cloneOrder(*order)
	s.orders[order.ID] = stored
	created := cloneOrder(stored)
	return &created, nil
}

// GetOrder returns live order by id
func (s *Store) GetOrder(_ context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	found := cloneOrder(order)
	return &found, nil
}

// ListOrders returns live orders, newest first
func (s *Store) ListOrders(_ context.Context, filter service.OrderFilter) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := []models.Order{}
	for _, o := range s.orders {
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		if filter.RiderID != "" && o.RiderID != filter.RiderID {
			continue
		}
		orders = append(orders, cloneOrder(o))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

// UpdateOrder stores order if version matches
func (s *Store) UpdateOrder(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.orders[order.ID]
	if !ok {
		return models.ErrDataNotFound
	}
	if current.Version != order.Version {
		return models.ErrVersionConflict
	}

	order.Version++
	s.orders[order.ID] = cloneOrder(*order)
	return nil
}

// ArchiveOrder moves live order to the archives under one lock
func (s *Store) ArchiveOrder(_ context.Context, finished *models.FinishedOrder, rider *models.RiderDelivery, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.orders[finished.ID]
	if !ok {
		return models.ErrDataNotFound
	}
	if current.Version != version {
		return models.ErrVersionConflict
	}
	if _, ok := s.finished[finished.ID]; ok {
		return models.ErrConflictData
	}

	f := *finished
	f.Items = cloneItems(finished.Items)
	s.finished[f.ID] = f
	if rider != nil {
		r := *rider
		r.Items = cloneItems(rider.Items)
		s.riderFinished[r.ID] = r
	}
	delete(s.orders, finished.ID)

	return nil
}

// GetFinishedOrder returns archived order by id
func (s *Store) GetFinishedOrder(_ context.Context, id string) (*models.FinishedOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.finished[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	f.Items = cloneItems(f.Items)
	return &f, nil
}

// ListFinishedOrders returns archived orders, most recently delivered first
func (s *Store) ListFinishedOrders(_ context.Context, filter service.OrderFilter) ([]models.FinishedOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := []models.FinishedOrder{}
	for _, f := range s.finished {
		if filter.UserID != "" && f.UserID != filter.UserID {
			continue
		}
		if filter.RiderID != "" && f.RiderID != filter.RiderID {
			continue
		}
		f.Items = cloneItems(f.Items)
		orders = append(orders, f)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].DeliveredAt.After(orders[j].DeliveredAt) })
	return orders, nil
}

// ListRiderDeliveries returns rider archive records
func (s *Store) ListRiderDeliveries(_ context.Context, riderID string) ([]models.RiderDelivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deliveries := []models.RiderDelivery{}
	for _, d := range s.riderFinished {
		if riderID != "" && d.RiderID != riderID {
			continue
		}
		d.Items = cloneItems(d.Items)
		deliveries = append(deliveries, d)
	}
	sort.Slice(deliveries, func(i, j int) bool { return deliveries[i].DeliveredAt.After(deliveries[j].DeliveredAt) })
	return deliveries, nil
}

// DeleteFinishedOrder removes archived order
func (s *Store) DeleteFinishedOrder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.finished[id]; !ok {
		return models.ErrDataNotFound
	}
	delete(s.finished, id)
	return nil
}

func cloneOrder(o models.Order) models.Order {
	o.Items = cloneItems(o.Items)
	if o.Location != nil {
		loc := *o.Location
		o.Location = &loc
	}
	if o.AssignedAt != nil {
		at := *o.AssignedAt
		o.AssignedAt = &at
	}
	return o
}

func cloneItems(items []models.OrderItem) []models.OrderItem {
	if items == nil {
		return nil
	}
	return append([]models.OrderItem(nil), items...)
}
