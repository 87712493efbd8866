package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rookgm/gofood/internal/models"
)

const (
	insertUserQuery = `
						INSERT INTO users (id, name, email, password_hash, phone, role, created_at)
						VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
`
	selectUserColumns = `id, name, COALESCE(email, ''), password_hash, phone, role, created_at`

	selectUserByIDQuery   = `SELECT ` + selectUserColumns + ` FROM users WHERE id = $1`
	selectUserByNameQuery = `SELECT ` + selectUserColumns + ` FROM users WHERE name = $1`
	selectUsersByRole     = `SELECT ` + selectUserColumns + ` FROM users WHERE role = $1 ORDER BY name`
)

// UserRepository implements UserRepository interface
type UserRepository struct {
	db *DB
}

// NewUserRepository creates new UserRepository instance
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts new user
func (ur *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	_, err := ur.db.Exec(ctx, insertUserQuery,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Phone, user.Role, user.CreatedAt)
	if err != nil {
		if ur.db.ErrorCode(err) == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return user, nil
}

// GetUserByID returns user by id
func (ur *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return ur.getUser(ctx, selectUserByIDQuery, id)
}

// GetUserByName returns user by name
func (ur *UserRepository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	return ur.getUser(ctx, selectUserByNameQuery, name)
}

func (ur *UserRepository) getUser(ctx context.Context, query, arg string) (*models.User, error) {
	user := models.User{}
	err := ur.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Phone, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}

// ListUsersByRole returns users having role
func (ur *UserRepository) ListUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	rows, err := ur.db.Query(ctx, selectUsersByRole, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}

	for rows.Next() {
		user := models.User{}
		err = rows.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Phone, &user.Role, &user.CreatedAt)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
