package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/jabatayo/task-management-api/internal/model"
	"github.com/jabatayo/task-management-api/internal/service"
	"github.com/jabatayo/task-management-api/pkg/respond"
)

type AuthHandler struct {
	service *service.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(srv *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	user, token, err := h.service.Register(r.Context(), req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, map[string]any{
		"user":  user.Resource(),
		"token": token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	user, token, err := h.service.Login(r.Context(), req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, map[string]any{
		"user":  user.Resource(),
		"token": token,
	})
}

// Logout: токены stateless, серверного хранилища нет — клиент просто
// выбрасывает токен
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, map[string]any{
		"message": "Logged out successfully.",
	})
}

// Me возвращает текущего пользователя с ролями
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFrom(r.Context())

	user, err := h.service.CurrentUser(r.Context(), ident.ID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, user.Resource())
}
