package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jabatayo/task-management-api/internal/service"
	"github.com/jabatayo/task-management-api/pkg/respond"
)

type DashboardHandler struct {
	service *service.DashboardService
	logger  *zap.Logger
	now     func() time.Time
}

func NewDashboardHandler(srv *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: srv,
		logger:  logger,
		now:     time.Now,
	}
}

// Index пересчитывает снапшот от текущего состояния хранилища на каждый
// запрос, никакого кеширования агрегатов
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFrom(r.Context())

	snapshot, err := h.service.Snapshot(r.Context(), ident, h.now())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, snapshot)
}
