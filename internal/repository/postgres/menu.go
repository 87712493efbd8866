package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rookgm/gofood/internal/models"
)

const (
	menuColumns = `id, name, price, category, available, image, created_at, updated_at`

	insertMenuItemQuery = `
						INSERT INTO menu_items (` + menuColumns + `)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	selectMenuItemQuery = `SELECT ` + menuColumns + ` FROM menu_items WHERE id = $1`

	selectMenuItemsQuery = `
						SELECT ` + menuColumns + ` FROM menu_items
						WHERE available OR NOT $1
						ORDER BY category, name
`
	updateMenuItemQuery = `
						UPDATE menu_items SET
							name = COALESCE($2, name),
							price = COALESCE($3, price),
							category = COALESCE($4, category),
							available = COALESCE($5, available),
							image = COALESCE($6, image),
							updated_at = $7
						WHERE id = $1
						RETURNING ` + menuColumns + `
`
	deleteMenuItemQuery = `DELETE FROM menu_items WHERE id = $1`
)

// MenuRepository implements MenuRepository interface
type MenuRepository struct {
	db *DB
}

// NewMenuRepository creates new MenuRepository instance
func NewMenuRepository(db *DB) *MenuRepository {
	return &MenuRepository{db: db}
}

func scanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	item := models.MenuItem{}
	err := row.Scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.Available, &item.Image, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}
	return &item, nil
}

// CreateMenuItem inserts new menu item
func (mr *MenuRepository) CreateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	_, err := mr.db.Exec(ctx, insertMenuItemQuery,
		item.ID, item.Name, item.Price, item.Category, item.Available, item.Image, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		if mr.db.ErrorCode(err) == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return item, nil
}

// GetMenuItem returns menu item by id
func (mr *MenuRepository) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	return scanMenuItem(mr.db.QueryRow(ctx, selectMenuItemQuery, id))
}

// ListMenuItems returns menu items
func (mr *MenuRepository) ListMenuItems(ctx context.Context, onlyAvailable bool) ([]models.MenuItem, error) {
	rows, err := mr.db.Query(ctx, selectMenuItemsQuery, onlyAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.MenuItem{}

	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// UpdateMenuItem applies non-nil fields of update
func (mr *MenuRepository) UpdateMenuItem(ctx context.Context, id string, upd models.MenuItemUpdate, updatedAt time.Time) (*models.MenuItem, error) {
	row := mr.db.QueryRow(ctx, updateMenuItemQuery, id, upd.Name, upd.Price, upd.Category, upd.Available, upd.Image, updatedAt)
	return scanMenuItem(row)
}

// DeleteMenuItem removes menu item
func (mr *MenuRepository) DeleteMenuItem(ctx context.Context, id string) error {
	cmd, err := mr.db.Exec(ctx, deleteMenuItemQuery, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
