// Package client is HTTP client of the gofood API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rookgm/gofood/internal/models"
)

const defaultTimeout = 10 * time.Second

// Client represents HTTP client for gofood API
type Client struct {
	client  *http.Client
	baseURL string

	mu    sync.RWMutex
	token string
}

// New creates new Client instance, timeout <= 0 selects default timeout
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// SetToken sets authorization token sent with every request
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns current authorization token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type errorResponse struct {
	Error string `json:"error"`
}

// do sends request and decodes JSON response into out.
// Non-2xx responses are returned as *models.StatusError.
func (c *Client) do(ctx context.Context, method string, path []string, in, out any) error {
	u, err := url.JoinPath(c.baseURL, path...)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errResp := errorResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
			errResp.Error = http.StatusText(resp.StatusCode)
		}
		return models.NewStatusError(resp.StatusCode, errResp.Error)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// IsNotFound reports whether err is 404 response
func IsNotFound(err error) bool {
	var se *models.StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// SignUp registers customer account
func (c *Client) SignUp(ctx context.Context, name, email, password, phone string) (*models.User, error) {
	user := models.User{}
	req := signUpRequest{Name: name, Email: email, Password: password, Phone: phone}
	if err := c.do(ctx, http.MethodPost, []string{"signup"}, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login authenticates and remembers the token
// 200 — пользователь успешно аутентифицирован;
// 401 — неверная пара логин/пароль.
func (c *Client) Login(ctx context.Context, name, password string) (string, *models.User, error) {
	resp := loginResponse{}
	if err := c.do(ctx, http.MethodPost, []string{"login"}, loginRequest{Name: name, Password: password}, &resp); err != nil {
		return "", nil, err
	}
	c.SetToken(resp.Token)
	return resp.Token, resp.User, nil
}

// Menu returns available menu items
func (c *Client) Menu(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := c.do(ctx, http.MethodGet, []string{"menu"}, nil, &items)
	return items, err
}

// OrderItem is item of order request
type OrderItem struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

// CreateOrderRequest is body of order creation
type CreateOrderRequest struct {
	UserName string           `json:"userName"`
	Items    []OrderItem      `json:"items"`
	Contact  string           `json:"contact"`
	Location *models.Location `json:"location,omitempty"`
	Address  string           `json:"address,omitempty"`
}

// CreateOrder places order
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	order := models.Order{}
	if err := c.do(ctx, http.MethodPost, []string{"order"}, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder returns live order
func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order := models.Order{}
	if err := c.do(ctx, http.MethodGet, []string{"orders", id}, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetFinishedOrder returns archived order
func (c *Client) GetFinishedOrder(ctx context.Context, id string) (*models.FinishedOrder, error) {
	order := models.FinishedOrder{}
	if err := c.do(ctx, http.MethodGet, []string{"finished-orders", id}, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UserOrders returns live orders of user
func (c *Client) UserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := c.do(ctx, http.MethodGet, []string{"user-orders", userID}, nil, &orders)
	return orders, err
}

// UserFinishedOrders returns archived orders of user
func (c *Client) UserFinishedOrders(ctx context.Context, userID string) ([]models.FinishedOrder, error) {
	var orders []models.FinishedOrder
	err := c.do(ctx, http.MethodGet, []string{"user-finished-orders", userID}, nil, &orders)
	return orders, err
}

// AllOrders returns every live order, admin only
func (c *Client) AllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := c.do(ctx, http.MethodGet, []string{"admin", "orders"}, nil, &orders)
	return orders, err
}

// AllFinishedOrders returns every archived order, admin only
func (c *Client) AllFinishedOrders(ctx context.Context) ([]models.FinishedOrder, error) {
	var orders []models.FinishedOrder
	err := c.do(ctx, http.MethodGet, []string{"admin", "finished-orders"}, nil, &orders)
	return orders, err
}

// RiderOrders returns live orders assigned to rider
func (c *Client) RiderOrders(ctx context.Context, riderID string) ([]models.Order, error) {
	var orders []models.Order
	err := c.do(ctx, http.MethodGet, []string{"rider", "current-orders", riderID}, nil, &orders)
	return orders, err
}

// RiderDeliveries returns archive records of rider
func (c *Client) RiderDeliveries(ctx context.Context, riderID string) ([]models.RiderDelivery, error) {
	var deliveries []models.RiderDelivery
	err := c.do(ctx, http.MethodGet, []string{"rider", "finished-orders", riderID}, nil, &deliveries)
	return deliveries, err
}

type setStatusRequest struct {
	OrderID   string `json:"orderId"`
	StatusKey string `json:"statusKey"`
	Value     string `json:"value"`
}

// SetStatus sets order status field, admin only
func (c *Client) SetStatus(ctx context.Context, orderID, statusKey, value string) (*models.Order, error) {
	order := models.Order{}
	req := setStatusRequest{OrderID: orderID, StatusKey: statusKey, Value: value}
	if err := c.do(ctx, http.MethodPost, []string{"admin", "order-status"}, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

type assignRiderRequest struct {
	OrderID string `json:"orderId"`
	RiderID string `json:"riderId"`
}

// AssignRider assigns rider to order, admin only
func (c *Client) AssignRider(ctx context.Context, orderID, riderID string) (*models.Order, error) {
	order := models.Order{}
	req := assignRiderRequest{OrderID: orderID, RiderID: riderID}
	if err := c.do(ctx, http.MethodPost, []string{"admin", "assign-rider"}, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

type orderIDRequest struct {
	OrderID string `json:"orderId"`
}

// MarkFinished archives delivered order
func (c *Client) MarkFinished(ctx context.Context, orderID string) (*models.FinishedOrder, error) {
	order := models.FinishedOrder{}
	if err := c.do(ctx, http.MethodPost, []string{"user", "mark-finished"}, orderIDRequest{OrderID: orderID}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
