package handler

import (
	"github.com/EvertondSilva/nexus-app/internal/service"
	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	svc *service.StatusService
}

func NewStatusHandler(svc *service.StatusService) *StatusHandler {
	return &StatusHandler{svc: svc}
}

// List returns active statuses in board order.
// GET /api/v1/statuses
func (h *StatusHandler) List(c *gin.Context) {
	statuses, err := h.svc.ListStatuses(c.Request.Context())
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, gin.H{"items": statuses})
}

// Create appends a new kanban column (rank = max + 1).
// POST /api/v1/statuses
func (h *StatusHandler) Create(c *gin.Context) {
	var req service.CreateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name is required")
		return
	}

	status, err := h.svc.CreateStatus(c.Request.Context(), &req)
	if err != nil {
		FailFromError(c, err)
		return
	}
	Created(c, status)
}
