package handler

import (
	"context"
	"net/http"

	"github.com/rookgm/gofood/internal/models"
	"go.uber.org/zap"
)

type UserService interface {
	// SignUp registers a customer account
	SignUp(ctx context.Context, name, email, password, phone string) (*models.User, error)
	// CreateUser creates an account with any role
	CreateUser(ctx context.Context, name, password, role, phone string) (*models.User, error)
	// Login checks credentials and returns token and user
	Login(ctx context.Context, name, password string) (string, *models.User, error)
	// ListRiders returns all riders
	ListRiders(ctx context.Context) ([]models.User, error)
}

// UserHandler represents HTTP handler for user-related requests
type UserHandler struct {
	svc    UserService
	logger *zap.Logger
}

// NewUserHandler creates new UserHandler instance
func NewUserHandler(svc UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// SignUp registers customer
// 201 — пользователь успешно зарегистрирован;
// 400 — неверный формат запроса;
// 409 — имя или почта уже заняты;
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) SignUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signUpRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		user, err := uh.svc.SignUp(r.Context(), req.Name, req.Email, req.Password, req.Phone)
		if err != nil {
			handleError(w, uh.logger, err)
			return
		}

		writeJSON(w, http.StatusCreated, user)
	}
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login authenticates user, the token is returned in body and cookie
// 200 — пользователь успешно аутентифицирован;
// 400 — неверный формат запроса;
// 401 — неверная пара логин/пароль;
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		token, user, err := uh.svc.Login(r.Context(), req.Name, req.Password)
		if err != nil {
			handleError(w, uh.logger, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     AuthCookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
	}
}

type createUserRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

// CreateUser creates user with given role
// 201 — пользователь создан;
// 400 — неверный формат запроса или роль;
// 409 — имя уже занято;
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) CreateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request")
			return
		}

		user, err := uh.svc.CreateUser(r.Context(), req.Name, req.Password, req.Role, req.Phone)
		if err != nil {
			handleError(w, uh.logger, err)
			return
		}

		writeJSON(w, http.StatusCreated, user)
	}
}

// ListRiders returns riders
// 200 — успешная обработка запроса;
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) ListRiders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		riders, err := uh.svc.ListRiders(r.Context())
		if err != nil {
			handleError(w, uh.logger, err)
			return
		}

		writeJSON(w, http.StatusOK, riders)
	}
}
