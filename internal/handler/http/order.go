package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rookgm/gofood/internal/models"
	"go.uber.org/zap"
)

type OrderService interface {
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]models.Order, error)
	ListRiderOrders(ctx context.Context, riderID string) ([]models.Order, error)
	ListAllOrders(ctx context.Context) ([]models.Order, error)
	GetFinishedOrder(ctx context.Context, id string) (*models.FinishedOrder, error)
	ListUserFinishedOrders(ctx context.Context, userID string) ([]models.FinishedOrder, error)
	ListAllFinishedOrders(ctx context.Context) ([]models.FinishedOrder, error)
	ListRiderDeliveries(ctx context.Context, riderID string) ([]models.RiderDelivery, error)
	DeleteFinishedOrder(ctx context.Context, id string) error
	SetStatus(ctx context.Context, orderID, field, value string) (*models.Order, error)
	AssignRider(ctx context.Context, orderID, riderID string) (*models.Order, error)
	MarkFinished(ctx context.Context, orderID string) (*models.FinishedOrder, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc    OrderService
	logger *zap.Logger
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, logger: logger}
}

type orderItemRequest struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

type createOrderRequest struct {
	UserName string             `json:"userName"`
	Items    []orderItemRequest `json:"items"`
	Contact  string             `json:"contact"`
	Location *models.Location   `json:"location"`
	Address  string             `json:"address"`
}

// canAccess reports whether payload owner may see data of user or rider
func canAccess(payload *models.TokenPayload, userID, riderID string) bool {
	switch payload.Role {
	case models.RoleAdmin:
		return true
	case models.RoleRider:
		return riderID != "" && payload.UserID == riderID
	default:
		return userID != "" && payload.UserID == userID
	}
}

// CreateOrder places order of authenticated user
// 201 — заказ создан;
// 400 — неверный формат запроса;
// 401 — пользователь не аутентифицирован;
// 404 — позиция меню не найдена;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createOrderRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		items := make([]models.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, models.OrderItem{MenuItemID: item.MenuItemID, Quantity: item.Quantity})
		}

		order, err := oh.svc.CreateOrder(r.Context(), &models.Order{
			UserID:   payload.UserID,
			UserName: req.UserName,
			Items:    items,
			Contact:  req.Contact,
			Location: req.Location,
			Address:  req.Address,
		})
		if err != nil {
			handleError(w, oh.logger, err)
			return
		}

		writeJSON(w, http.StatusCreated, order)
	}
}

// GetOrder returns live order
// 200 — успешная обработка запроса;
// 401 — пользователь не аутентифицирован;
// 403 — заказ принадлежит другому пользователю;
// 404 — заказ не найден;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		order, err := oh.svc.GetOrder(r.Context(), chi.URLParam(r, "orderId"))
		if err != nil {
			handleError(w, oh.logger, err)
			return
		}

		if !canAccess(payload, order.UserID, order.RiderID) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		writeJSON(w, http.StatusOK, order)
	}
}

// GetFinishedOrder returns archived order
// 200 — успешная обработка запроса;
// 401 — пользователь не аутентифицирован;
// 403 — заказ принадлежит другому пользователю;
// 404 — заказ не найден;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) GetFinishedOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		order, err := oh.svc.GetFinishedOrder(r.Context(), chi.URLParam(r, "orderId"))
		if err != nil {
			handleError(w, oh.logger, err)
			return
		}

		if !canAccess(payload, order.UserID, order.RiderID) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		writeJSON(w, http.StatusOK, order)
	}
}

// ListUserOrders returns live orders of user
// 200 — успешная обработка запроса;
// 401 — пользователь не аутентифицирован;
// 403 — запрошены заказы другого пользователя;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) ListUserOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := oh.authorizeUser(w, r)
		if !ok {
			return
		}

		orders, err := oh.svc.ListUserOrders(r.Context(), userID)
		if err != nil {
			handleError(w, oh.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, orders)
	}
}

// ListUserFinishedOrders returns archived orders of user
// 200 — успешная обработка запроса;
// 401 — пользователь не аутентифицирован;
// 403 — запрошены заказы другого пользователя;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) ListUserFinishedOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := oh.authorizeUser(w, r)
		if !ok {
			return
		}

		orders, err := oh.svc.ListUserFinishedOrders(r.Context(), userID)
		if err != nil {
			handleError(w, oh.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, orders)
	}
}

// authorizeUser returns userId path parameter if caller may read that user's data
func (oh *OrderHandler) authorizeUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	payload, ok := getAuthPayload(r.Context(), authPayloadKey)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}

	userID := chi.URLParam(r, "userId")
	if !canAccess(payload, userID, "") {
		writeError(w, http.StatusForbidden, "forbidden")
		return "", false
	}

	return userID, true
}

type orderIDRequest struct {
	OrderID string `json:"orderId"`
}

// MarkFinished archives delivered order. Customers may finish their own orders,
// riders the orders assigned to them.
// 200 — заказ перенесен в архив;
// 400 — неверный формат запроса;
// 401 — пользователь не аутентифицирован;
// 403 — заказ принадлежит другому пользователю;
// 404 — заказ не найден;
// 409 — заказ еще не подтвержден;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) MarkFinished() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req orderIDRequest
		if err := decodeJSON(r, &req); err != nil || req.OrderID == "" {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		order, err := oh.svc.GetOrder(r.Context(), req.OrderID)
		if err != nil {
			handleError(w, oh.logger, err)
			return
		}

		if !canAccess(payload, order.UserID, order.RiderID) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		finished, err := oh.svc.MarkFinished(r.Context(), req.OrderID)
		if err != nil {
			handleError(w, oh.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, finished)
	}
}
