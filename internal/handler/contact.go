package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/jabatayo/task-management-api/internal/model"
	"github.com/jabatayo/task-management-api/internal/service"
	"github.com/jabatayo/task-management-api/pkg/respond"
)

type ContactHandler struct {
	service *service.ContactService
	logger  *zap.Logger
}

func NewContactHandler(srv *service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	var userID *int64
	if ident, ok := IdentityFrom(r.Context()); ok {
		userID = &ident.ID
	}

	if _, err := h.service.Submit(r.Context(), req, userID); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, map[string]any{
		"message": "Thank you for contacting us! We will get back to you soon.",
	})
}

// About отдает статическую справку о приложении
func (h *ContactHandler) About(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, map[string]any{
		"name":        "Task Management System",
		"version":     "1.0.0",
		"description": "A task management platform with role-based access control, dashboard analytics and team assignment.",
		"features": []string{
			"Task Creation and Management",
			"Role-based Access Control",
			"Priority and Status Tracking",
			"Due Date Management",
			"Search and Filtering",
			"Dashboard Analytics",
			"User Authentication",
			"Contact Support System",
		},
	})
}
