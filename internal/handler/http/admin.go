package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListAllOrders returns every live order
// 200 — успешная обработка запроса;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) ListAllOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := oh.svc.ListAllOrders(r.Context())
		if err != nil {
			handleError(w, oh.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, orders)
	}
}

// ListAllFinishedOrders returns every archived order
// 200 — успешная обработка запроса;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) ListAllFinishedOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := oh.svc.ListAllFinishedOrders(r.Context())
		if err != nil {
			handleError(w, oh.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, orders)
	}
}

// ListAllRiderDeliveries returns archive records of every rider
func (oh *OrderHandler) ListAllRiderDeliveries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deliveries, err := oh.svc.ListRiderDeliveries(r.Context(), "")
		if err != nil {
			handleError(w, oh.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, deliveries)
	}
}

type setStatusRequest struct {
	OrderID   string `json:"orderId"`
	StatusKey string `json:"statusKey"`
	Value     string `json:"value"`
}

// SetStatus sets order status field
// 200 — статус обновлен;
// 400 — неверный формат запроса или недопустимое поле статуса;
// 404 — заказ не найден;
// 409 — недопустимый переход статуса;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) SetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setStatusRequest
		if err := decodeJSON(r, &req); err != nil || req.OrderID == "" {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		order, err := oh.svc.SetStatus(r.Context(), req.OrderID, req.StatusKey, req.Value)
		if err != nil {
			handleError(w, oh.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, order)
	}
}

type assignRiderRequest struct {
	OrderID string `json:"orderId"`
	RiderID string `json:"riderId"`
}

// AssignRider assigns rider to order
// 200 — курьер назначен;
// 400 — неверный формат запроса;
// 404 — заказ не найден;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) AssignRider() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assignRiderRequest
		if err := decodeJSON(r, &req); err != nil || req.OrderID == "" {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		order, err := oh.svc.AssignRider(r.Context(), req.OrderID, req.RiderID)
		if err != nil {
			handleError(w, oh.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, order)
	}
}

// DeleteFinishedOrder removes archived order
// 204 — заказ удален;
// 404 — заказ не найден;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) DeleteFinishedOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := oh.svc.DeleteFinishedOrder(r.Context(), chi.URLParam(r, "orderId")); err != nil {
			handleError(w, oh.logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
