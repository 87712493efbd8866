package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rookgm/gofood/internal/models"
	"go.uber.org/zap"
)

type MenuService interface {
	// Menu returns available menu items
	Menu(ctx context.Context) ([]models.MenuItem, error)
	// AllItems returns every menu item
	AllItems(ctx context.Context) ([]models.MenuItem, error)
	// CreateItem stores new menu item
	CreateItem(ctx context.Context, name string, price float64, category, image string) (*models.MenuItem, error)
	// UpdateItem changes menu item fields
	UpdateItem(ctx context.Context, id string, upd models.MenuItemUpdate) (*models.MenuItem, error)
	// UpdatePrice changes menu item price
	UpdatePrice(ctx context.Context, id string, price float64) (*models.MenuItem, error)
	// DeleteItem removes menu item
	DeleteItem(ctx context.Context, id string) error
	// SeedMenu adds missing items of default catalog
	SeedMenu(ctx context.Context) (int, error)
}

// MenuHandler represents HTTP handler for menu-related requests
type MenuHandler struct {
	svc    MenuService
	logger *zap.Logger
}

// NewMenuHandler creates new MenuHandler instance
func NewMenuHandler(svc MenuService, logger *zap.Logger) *MenuHandler {
	return &MenuHandler{svc: svc, logger: logger}
}

// Menu returns available menu items
// 200 — успешная обработка запроса;
// 500 — внутренняя ошибка сервера.
func (mh *MenuHandler) Menu() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := mh.svc.Menu(r.Context())
		if err != nil {
			handleError(w, mh.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, items)
	}
}

type seedMenuResponse struct {
	Created int `json:"created"`
}

// SeedMenu fills menu with default catalog, items with existing names are skipped
// 200 — каталог загружен;
// 500 — внутренняя ошибка сервера.
func (mh *MenuHandler) SeedMenu() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		created, err := mh.svc.SeedMenu(r.Context())
		if err != nil {
			handleError(w, mh.logger, err)
			return
		}

		mh.logger.Info("Menu seeded", zap.Int("created", created))
		writeJSON(w, http.StatusOK, seedMenuResponse{Created: created})
	}
}

// AllItems returns all menu items for admins
func (mh *MenuHandler) AllItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := mh.svc.AllItems(r.Context())
		if err != nil {
			handleError(w, mh.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, items)
	}
}

type createMenuItemRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageBase64 string  `json:"imageBase64"`
}

// CreateItem creates menu item
// 201 — позиция создана;
// 400 — неверный формат запроса;
// 500 — внутренняя ошибка сервера.
func (mh *MenuHandler) CreateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMenuItemRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		item, err := mh.svc.CreateItem(r.Context(), req.Name, req.Price, req.Category, req.ImageBase64)
		if err != nil {
			handleError(w, mh.logger, err)
			return
		}

		writeJSON(w, http.StatusCreated, item)
	}
}

type updateMenuItemRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Available   *bool    `json:"available"`
	ImageBase64 *string  `json:"imageBase64"`
}

// UpdateItem updates menu item fields present in request
// 200 — позиция обновлена;
// 400 — неверный формат запроса;
// 404 — позиция не найдена;
// 500 — внутренняя ошибка сервера.
func (mh *MenuHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateMenuItemRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		upd := models.MenuItemUpdate{
			Name:      req.Name,
			Price:     req.Price,
			Category:  req.Category,
			Available: req.Available,
			Image:     req.ImageBase64,
		}

		item, err := mh.svc.UpdateItem(r.Context(), chi.URLParam(r, "id"), upd)
		if err != nil {
			handleError(w, mh.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}

type updatePriceRequest struct {
	ID    string   `json:"id"`
	Price *float64 `json:"price"`
}

// UpdatePrice changes menu item price
// 200 — цена обновлена;
// 400 — неверный формат запроса;
// 404 — позиция не найдена;
// 500 — внутренняя ошибка сервера.
func (mh *MenuHandler) UpdatePrice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updatePriceRequest
		if err := decodeJSON(r, &req); err != nil || req.ID == "" || req.Price == nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		item, err := mh.svc.UpdatePrice(r.Context(), req.ID, *req.Price)
		if err != nil {
			handleError(w, mh.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}

// DeleteItem removes menu item
// 204 — позиция удалена;
// 404 — позиция не найдена;
// 500 — внутренняя ошибка сервера.
func (mh *MenuHandler) DeleteItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := mh.svc.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
			handleError(w, mh.logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
