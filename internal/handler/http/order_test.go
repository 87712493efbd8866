package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/rookgm/gofood/internal/handler/http/mocks"
	"github.com/rookgm/gofood/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOrderHandler_CreateOrder(t *testing.T) {
	tests := []struct {
		name           string
		token          *models.TokenPayload
		body           string
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
	}{
		{
			name:  "valid_request_return_201",
			token: &models.TokenPayload{UserID: "u1", Role: models.RoleUser},
			body:  `{"userName":"ama","items":[{"menuItemId":"m1","quantity":2}],"address":"Osu"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ any, o *models.Order) (*models.Order, error) {
						assert.Equal(t, "u1", o.UserID)
						assert.Equal(t, []models.OrderItem{{MenuItemID: "m1", Quantity: 2}}, o.Items)
						o.ID = "o1"
						return o, nil
					}).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:  "bad_json_return_400",
			token: &models.TokenPayload{UserID: "u1", Role: models.RoleUser},
			body:  `{"items":`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:  "empty_order_return_400",
			token: &models.TokenPayload{UserID: "u1", Role: models.RoleUser},
			body:  `{"userName":"ama","items":[],"address":"Osu"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(nil, models.ErrEmptyOrder).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "unauthorized_request_return_401",
			body: `{"userName":"ama","items":[{"menuItemId":"m1","quantity":2}],"address":"Osu"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:  "unknown_menu_item_return_404",
			token: &models.TokenPayload{UserID: "u1", Role: models.RoleUser},
			body:  `{"userName":"ama","items":[{"menuItemId":"nope","quantity":1}],"address":"Osu"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: nope", models.ErrMenuItemNotFound)).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:  "internal_error_return_500",
			token: &models.TokenPayload{UserID: "u1", Role: models.RoleUser},
			body:  `{"userName":"ama","items":[{"menuItemId":"m1","quantity":1}],"address":"Osu"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(nil, errors.New("db is down")).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/order", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal("cannot create request", zap.Error(err))
			}

			w := httptest.NewRecorder()
			handler := NewOrderHandler(tt.setup(t), zap.NewNop())
			h := handler.CreateOrder()
			h(w, withRequestContext(req, tt.token, nil))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}

func TestOrderHandler_GetOrder(t *testing.T) {
	order := &models.Order{
		ID:           "o1",
		UserID:       "u1",
		RiderID:      "r1",
		Items:        []models.OrderItem{{MenuItemID: "m1", Quantity: 2, Name: "Jollof", Price: 85}},
		StatusFields: models.StatusFields{Pending: models.DefaultPendingMessage, Confirmed: "Confirmed"},
		Version:      2,
		CreatedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name           string
		token          *models.TokenPayload
		orderID        string
		getErr         error
		wantStatusCode int
		wantBody       *models.Order
	}{
		{
			name:           "owner_return_200",
			token:          &models.TokenPayload{UserID: "u1", Role: models.RoleUser},
			orderID:        "o1",
			wantStatusCode: http.StatusOK,
			wantBody:       order,
		},
		{
			name:           "admin_return_200",
			token:          &models.TokenPayload{UserID: "a1", Role: models.RoleAdmin},
			orderID:        "o1",
			wantStatusCode: http.StatusOK,
			wantBody:       order,
		},
		{
			name:           "assigned_rider_return_200",
			token:          &models.TokenPayload{UserID: "r1", Role: models.RoleRider},
			orderID:        "o1",
			wantStatusCode: http.StatusOK,
			wantBody:       order,
		},
		{
			name:           "other_user_return_403",
			token:          &models.TokenPayload{UserID: "u2", Role: models.RoleUser},
			orderID:        "o1",
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "other_rider_return_403",
			token:          &models.TokenPayload{UserID: "r2", Role: models.RoleRider},
			orderID:        "o1",
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "unknown_order_return_404",
			token:          &models.TokenPayload{UserID: "u1", Role: models.RoleUser},
			orderID:        "nope",
			getErr:         models.ErrOrderNotFound,
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svcMock := mocks.NewMockOrderService(ctrl)
			if tt.getErr != nil {
				svcMock.EXPECT().GetOrder(gomock.Any(), tt.orderID).Return(nil, tt.getErr)
			} else {
				svcMock.EXPECT().GetOrder(gomock.Any(), tt.orderID).Return(order, nil)
			}

			req := httptest.NewRequest(http.MethodGet, "/orders/"+tt.orderID, nil)
			w := httptest.NewRecorder()

			handler := NewOrderHandler(svcMock, zap.NewNop())
			h := handler.GetOrder()
			h(w, withRequestContext(req, tt.token, map[string]string{"orderId": tt.orderID}))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			resBody, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			if tt.wantBody != nil {
				var got models.Order
				require.NoError(t, json.Unmarshal(resBody, &got))

				if diff := cmp.Diff(*tt.wantBody, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestOrderHandler_SetStatus(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		svcErr         error
		callSvc        bool
		wantStatusCode int
	}{
		{
			name:           "valid_request_return_200",
			body:           `{"orderId":"o1","statusKey":"confirmed","value":"Confirmed"}`,
			callSvc:        true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_order_id_return_400",
			body:           `{"statusKey":"confirmed","value":"Confirmed"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "field_not_allowed_return_400",
			body:           `{"orderId":"o1","statusKey":"riderId","value":"x"}`,
			svcErr:         fmt.Errorf("%w: riderId", models.ErrInvalidStatusField),
			callSvc:        true,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "unknown_order_return_404",
			body:           `{"orderId":"nope","statusKey":"confirmed","value":"Confirmed"}`,
			svcErr:         models.ErrOrderNotFound,
			callSvc:        true,
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "skipped_state_return_409",
			body:           `{"orderId":"o1","statusKey":"packing","value":"Packing"}`,
			svcErr:         fmt.Errorf("%w: pending -> packing", models.ErrInvalidTransition),
			callSvc:        true,
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svcMock := mocks.NewMockOrderService(ctrl)
			if tt.callSvc {
				var order *models.Order
				if tt.svcErr == nil {
					order = &models.Order{ID: "o1"}
				}
				svcMock.EXPECT().SetStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(order, tt.svcErr).Times(1)
			}

			req := httptest.NewRequest(http.MethodPost, "/admin/order-status", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler := NewOrderHandler(svcMock, zap.NewNop())
			h := handler.SetStatus()
			h(w, withRequestContext(req, &models.TokenPayload{UserID: "a1", Role: models.RoleAdmin}, nil))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantStatusCode != http.StatusOK {
				var got errorResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
				assert.NotEmpty(t, got.Error)
			}
		})
	}
}

func TestOrderHandler_MarkFinished(t *testing.T) {
	live := &models.Order{ID: "o1", UserID: "u1", RiderID: "r1"}

	tests := []struct {
		name           string
		token          *models.TokenPayload
		finishErr      error
		callFinish     bool
		wantStatusCode int
	}{
		{
			name:           "owner_return_200",
			token:          &models.TokenPayload{UserID: "u1", Role: models.RoleUser},
			callFinish:     true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "assigned_rider_return_200",
			token:          &models.TokenPayload{UserID: "r1", Role: models.RoleRider},
			callFinish:     true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "other_user_return_403",
			token:          &models.TokenPayload{UserID: "u2", Role: models.RoleUser},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "unconfirmed_return_409",
			token:          &models.TokenPayload{UserID: "u1", Role: models.RoleUser},
			finishErr:      models.ErrInvalidTransition,
			callFinish:     true,
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svcMock := mocks.NewMockOrderService(ctrl)
			svcMock.EXPECT().GetOrder(gomock.Any(), "o1").Return(live, nil)
			if tt.callFinish {
				var finished *models.FinishedOrder
				if tt.finishErr == nil {
					finished = &models.FinishedOrder{ID: "o1", UserID: "u1", RiderID: "r1"}
				}
				svcMock.EXPECT().MarkFinished(gomock.Any(), "o1").Return(finished, tt.finishErr).Times(1)
			}

			req := httptest.NewRequest(http.MethodPost, "/user/mark-finished", strings.NewReader(`{"orderId":"o1"}`))
			w := httptest.NewRecorder()

			handler := NewOrderHandler(svcMock, zap.NewNop())
			h := handler.MarkFinished()
			h(w, withRequestContext(req, tt.token, nil))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}

func TestOrderHandler_ListUserOrders(t *testing.T) {
	tests := []struct {
		name           string
		token          *models.TokenPayload
		userID         string
		wantStatusCode int
	}{
		{
			name:           "own_orders_return_200",
			token:          &models.TokenPayload{UserID: "u1", Role: models.RoleUser},
			userID:         "u1",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "admin_return_200",
			token:          &models.TokenPayload{UserID: "a1", Role: models.RoleAdmin},
			userID:         "u1",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "other_user_return_403",
			token:          &models.TokenPayload{UserID: "u2", Role: models.RoleUser},
			userID:         "u1",
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "unauthorized_request_return_401",
			userID:         "u1",
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svcMock := mocks.NewMockOrderService(ctrl)
			if tt.wantStatusCode == http.StatusOK {
				svcMock.EXPECT().ListUserOrders(gomock.Any(), tt.userID).Return([]models.Order{}, nil).Times(1)
			}

			req := httptest.NewRequest(http.MethodGet, "/user-orders/"+tt.userID, nil)
			w := httptest.NewRecorder()

			handler := NewOrderHandler(svcMock, zap.NewNop())
			h := handler.ListUserOrders()
			h(w, withRequestContext(req, tt.token, map[string]string{"userId": tt.userID}))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantStatusCode == http.StatusOK {
				body, err := io.ReadAll(res.Body)
				require.NoError(t, err)
				assert.JSONEq(t, `[]`, string(body))
			}
		})
	}
}

func TestOrderHandler_ListRiderOrders(t *testing.T) {
	tests := []struct {
		name           string
		token          *models.TokenPayload
		riderID        string
		wantStatusCode int
	}{
		{
			name:           "own_orders_return_200",
			token:          &models.TokenPayload{UserID: "r1", Role: models.RoleRider},
			riderID:        "r1",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "other_rider_return_403",
			token:          &models.TokenPayload{UserID: "r2", Role: models.RoleRider},
			riderID:        "r1",
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "customer_return_403",
			token:          &models.TokenPayload{UserID: "r1", Role: models.RoleUser},
			riderID:        "r1",
			wantStatusCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svcMock := mocks.NewMockOrderService(ctrl)
			if tt.wantStatusCode == http.StatusOK {
				svcMock.EXPECT().ListRiderOrders(gomock.Any(), tt.riderID).
					Return([]models.Order{{ID: "o1", RiderID: tt.riderID}}, nil).Times(1)
			}

			req := httptest.NewRequest(http.MethodGet, "/rider/current-orders/"+tt.riderID, nil)
			w := httptest.NewRecorder()

			handler := NewOrderHandler(svcMock, zap.NewNop())
			h := handler.ListRiderOrders()
			h(w, withRequestContext(req, tt.token, map[string]string{"riderId": tt.riderID}))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}
