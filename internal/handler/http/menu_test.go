package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/rookgm/gofood/internal/handler/http/mocks"
	"github.com/rookgm/gofood/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMenuHandler_Menu(t *testing.T) {
	items := []models.MenuItem{
		{ID: "m1", Name: "Jollof", Price: 85, Category: "rice", Available: true},
		{ID: "m2", Name: "Kelewele", Price: 20.5, Category: "sides", Available: true},
	}

	ctrl := gomock.NewController(t)
	svcMock := mocks.NewMockMenuService(ctrl)
	svcMock.EXPECT().Menu(gomock.Any()).Return(items, nil)

	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	w := httptest.NewRecorder()

	handler := NewMenuHandler(svcMock, zap.NewNop())
	h := handler.Menu()
	h(w, req)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var got []models.MenuItem
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	if diff := cmp.Diff(items, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMenuHandler_SeedMenu(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(m *mocks.MockMenuService)
		wantStatusCode int
		wantBody       string
	}{
		{
			name: "seeded_return_200",
			setup: func(m *mocks.MockMenuService) {
				m.EXPECT().SeedMenu(gomock.Any()).Return(76, nil)
			},
			wantStatusCode: http.StatusOK,
			wantBody:       `{"created":76}`,
		},
		{
			name: "storage_error_return_500",
			setup: func(m *mocks.MockMenuService) {
				m.EXPECT().SeedMenu(gomock.Any()).Return(3, errors.New("connection reset"))
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svcMock := mocks.NewMockMenuService(ctrl)
			test.setup(svcMock)

			req := httptest.NewRequest(http.MethodPost, "/admin/seed-menu", nil)
			w := httptest.NewRecorder()

			handler := NewMenuHandler(svcMock, zap.NewNop())
			h := handler.SeedMenu()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, test.wantStatusCode, res.StatusCode)
			if test.wantBody != "" {
				assert.JSONEq(t, test.wantBody, w.Body.String())
			}
		})
	}
}

func TestMenuHandler_UpdatePrice(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(m *mocks.MockMenuService)
		wantStatusCode int
	}{
		{
			name: "valid_request_return_200",
			body: `{"id":"m1","price":90}`,
			setup: func(m *mocks.MockMenuService) {
				m.EXPECT().UpdatePrice(gomock.Any(), "m1", 90.0).Return(&models.MenuItem{ID: "m1", Price: 90}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_price_return_400",
			body:           `{"id":"m1"}`,
			setup:          func(m *mocks.MockMenuService) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "negative_price_return_400",
			body: `{"id":"m1","price":-1}`,
			setup: func(m *mocks.MockMenuService) {
				m.EXPECT().UpdatePrice(gomock.Any(), "m1", -1.0).Return(nil, models.ErrInvalidPrice)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "unknown_item_return_404",
			body: `{"id":"nope","price":10}`,
			setup: func(m *mocks.MockMenuService) {
				m.EXPECT().UpdatePrice(gomock.Any(), "nope", 10.0).Return(nil, models.ErrMenuItemNotFound)
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svcMock := mocks.NewMockMenuService(ctrl)
			tt.setup(svcMock)

			req := httptest.NewRequest(http.MethodPost, "/admin/update-price", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler := NewMenuHandler(svcMock, zap.NewNop())
			h := handler.UpdatePrice()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}
