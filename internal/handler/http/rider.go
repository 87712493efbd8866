package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// authorizeRider returns riderId path parameter if caller is that rider or admin
func (oh *OrderHandler) authorizeRider(w http.ResponseWriter, r *http.Request) (string, bool) {
	payload, ok := getAuthPayload(r.Context(), authPayloadKey)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}

	riderID := chi.URLParam(r, "riderId")
	if !canAccess(payload, "", riderID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return "", false
	}

	return riderID, true
}

// ListRiderOrders returns live orders assigned to rider
// 200 — успешная обработка запроса;
// 401 — пользователь не аутентифицирован;
// 403 — запрошены заказы другого курьера;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) ListRiderOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		riderID, ok := oh.authorizeRider(w, r)
		if !ok {
			return
		}

		orders, err := oh.svc.ListRiderOrders(r.Context(), riderID)
		if err != nil {
			handleError(w, oh.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, orders)
	}
}

// ListRiderDeliveries returns rider archive records
// 200 — успешная обработка запроса;
// 401 — пользователь не аутентифицирован;
// 403 — запрошены заказы другого курьера;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) ListRiderDeliveries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		riderID, ok := oh.authorizeRider(w, r)
		if !ok {
			return
		}

		deliveries, err := oh.svc.ListRiderDeliveries(r.Context(), riderID)
		if err != nil {
			handleError(w, oh.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, deliveries)
	}
}
