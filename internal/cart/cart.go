// Package cart keeps the customer cart and writes every change through to local storage.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rookgm/gofood/internal/client"
	"github.com/rookgm/gofood/internal/localstore"
	"github.com/rookgm/gofood/internal/models"
	"github.com/shopspring/decimal"
)

// Policy decides what adding an item that is already in the cart does
type Policy string

const (
	// PolicyReplace overwrites quantity
	PolicyReplace Policy = "replace"
	// PolicyIncrement adds to quantity
	PolicyIncrement Policy = "increment"
)

var (
	ErrItemNotFound  = errors.New("item is not in cart")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrUnknownPolicy = errors.New("unknown cart policy")
)

// ParsePolicy parses policy name, empty name selects PolicyReplace
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyReplace:
		return PolicyReplace, nil
	case PolicyIncrement:
		return PolicyIncrement, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Product is menu item snapshot taken when it was added
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
}

// ProductFromMenuItem snapshots menu item
func ProductFromMenuItem(item models.MenuItem) Product {
	return Product{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Category: item.Category,
	}
}

// Item is cart entry
type Item struct {
	MenuItem Product `json:"menuItem"`
	Quantity int     `json:"quantity"`
}

// Storage persists cart
type Storage interface {
	Get(key string, v any) error
	Set(key string, v any) error
	Delete(key string) error
}

// OrderPlacer sends order to the server
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req client.CreateOrderRequest) (*models.Order, error)
}

// Cart is customer cart
type Cart struct {
	mu     sync.Mutex
	items  []Item
	policy Policy
	store  Storage
}

// Load restores cart from storage, a missing cart is empty
func Load(store Storage, policy Policy) (*Cart, error) {
	c := &Cart{policy: policy, store: store}

	if err := store.Get(localstore.KeyCart, &c.items); err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			return nil, fmt.Errorf("failed to load cart: %w", err)
		}
		c.items = nil
	}

	return c, nil
}

// Add puts product into cart, an existing entry is updated according to policy
func (c *Cart) Add(p Product, qty int) error {
	if qty < 1 {
		return models.ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.copyLocked()
	if i := c.indexLocked(p.ID); i >= 0 {
		if c.policy == PolicyIncrement {
			items[i].Quantity += qty
		} else {
			items[i].Quantity = qty
		}
	} else {
		items = append(items, Item{MenuItem: p, Quantity: qty})
	}

	return c.commitLocked(items)
}

// UpdateQuantity sets quantity of entry, quantity below 1 removes it
func (c *Cart) UpdateQuantity(id string, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return ErrItemNotFound
	}

	items := c.copyLocked()
	if qty < 1 {
		items = append(items[:i], items[i+1:]...)
	} else {
		items[i].Quantity = qty
	}

	return c.commitLocked(items)
}

// Remove deletes entry
func (c *Cart) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return ErrItemNotFound
	}
	items := c.copyLocked()

	return c.commitLocked(append(items[:i], items[i+1:]...))
}

// Clear empties cart and deletes it from storage
func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(localstore.KeyCart); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	c.items = nil
	return nil
}

// Items returns copy of cart entries
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]Item(nil), c.items...)
}

// Total returns sum of price times quantity
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(decimal.NewFromFloat(item.MenuItem.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// CheckoutDetails are order fields not kept in cart
type CheckoutDetails struct {
	UserName string
	Contact  string
	Location *models.Location
	Address  string
}

// Checkout places order with cart items and clears cart on success
func (c *Cart) Checkout(ctx context.Context, placer OrderPlacer, details CheckoutDetails) (*models.Order, error) {
	items := c.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	req := client.CreateOrderRequest{
		UserName: details.UserName,
		Items:    make([]client.OrderItem, 0, len(items)),
		Contact:  details.Contact,
		Location: details.Location,
		Address:  details.Address,
	}
	for _, item := range items {
		req.Items = append(req.Items, client.OrderItem{MenuItemID: item.MenuItem.ID, Quantity: item.Quantity})
	}

	order, err := placer.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := c.Clear(); err != nil {
		return order, fmt.Errorf("order placed but cart was not cleared: %w", err)
	}

	return order, nil
}

func (c *Cart) indexLocked(id string) int {
	for i, item := range c.items {
		if item.MenuItem.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) copyLocked() []Item {
	return append([]Item(nil), c.items...)
}

// commitLocked saves items and makes them current only when saving succeeded
func (c *Cart) commitLocked(items []Item) error {
	if err := c.store.Set(localstore.KeyCart, items); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	c.items = items
	return nil
}
