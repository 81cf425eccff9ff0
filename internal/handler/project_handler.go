package handler

import (
	"github.com/EvertondSilva/nexus-app/internal/model/entity"
	"github.com/EvertondSilva/nexus-app/internal/service"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// List returns active (not completed, not rejected) projects.
// GET /api/v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.svc.ListActive(c.Request.Context(), GetUserID(c))
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, gin.H{"items": projects})
}

// ListCompleted returns completed projects, latest completion first.
// GET /api/v1/projects/completed
func (h *ProjectHandler) ListCompleted(c *gin.Context) {
	projects, err := h.svc.ListCompleted(c.Request.Context(), GetUserID(c))
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, gin.H{"items": projects})
}

// ListRejected returns rejected projects, latest decision first.
// GET /api/v1/projects/rejected
func (h *ProjectHandler) ListRejected(c *gin.Context) {
	projects, err := h.svc.ListRejected(c.Request.Context(), GetUserID(c))
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, gin.H{"items": projects})
}

// Board returns active projects grouped per status column.
// GET /api/v1/board
func (h *ProjectHandler) Board(c *gin.Context) {
	columns, err := h.svc.Board(c.Request.Context(), GetUserID(c))
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, gin.H{"columns": columns})
}

// Get returns one project with status and materials.
// GET /api/v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.svc.GetProject(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, project)
}

// Create creates a project with an optional initial bill of materials.
// POST /api/v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name, client, delivery_due, payment_due and status_id are required")
		return
	}

	project, err := h.svc.CreateProject(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		FailFromError(c, err)
		return
	}
	Created(c, project)
}

// Update rewrites a project's descriptive fields and status.
// PUT /api/v1/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name, client, delivery_due, payment_due and status_id are required")
		return
	}

	project, err := h.svc.UpdateProject(c.Request.Context(), GetUserID(c), c.Param("id"), &req)
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, project)
}

// Delete removes a project and its materials.
// DELETE /api/v1/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteProject(c.Request.Context(), GetUserID(c), c.Param("id")); err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, gin.H{"message": "project deleted"})
}

type moveRequest struct {
	StatusID string `json:"status_id" binding:"required"`
}

// Move drags a project to another column.
// PUT /api/v1/projects/:id/status
func (h *ProjectHandler) Move(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "status_id is required")
		return
	}

	project, err := h.svc.MoveToStatus(c.Request.Context(), GetUserID(c), c.Param("id"), req.StatusID)
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, project)
}

// Complete marks a project completed.
// POST /api/v1/projects/:id/complete
func (h *ProjectHandler) Complete(c *gin.Context) {
	project, err := h.svc.MarkCompleted(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, project)
}

// Reopen clears a project's completion.
// POST /api/v1/projects/:id/reopen
func (h *ProjectHandler) Reopen(c *gin.Context) {
	project, err := h.svc.Reopen(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, project)
}

// Approve approves a project.
// POST /api/v1/projects/:id/approve
func (h *ProjectHandler) Approve(c *gin.Context) {
	project, err := h.svc.Approve(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, project)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Reject rejects a project. The reason is optional; a default is
// recorded when omitted.
// POST /api/v1/projects/:id/reject
func (h *ProjectHandler) Reject(c *gin.Context) {
	var req rejectRequest
	_ = c.ShouldBindJSON(&req)

	project, err := h.svc.Reject(c.Request.Context(), GetUserID(c), c.Param("id"), req.Reason)
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, project)
}

// ResetApproval returns a project's approval to pending.
// POST /api/v1/projects/:id/approval/reset
func (h *ProjectHandler) ResetApproval(c *gin.Context) {
	project, err := h.svc.ResetApproval(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, project)
}

// ListMaterials returns a project's bill of materials.
// GET /api/v1/projects/:id/materials
func (h *ProjectHandler) ListMaterials(c *gin.Context) {
	project, err := h.svc.GetProject(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		FailFromError(c, err)
		return
	}
	materials := project.Materials
	if materials == nil {
		materials = []entity.ProjectMaterial{}
	}
	Success(c, gin.H{"items": materials})
}

// AddMaterial appends one bill-of-quantities line.
// POST /api/v1/projects/:id/materials
func (h *ProjectHandler) AddMaterial(c *gin.Context) {
	var req service.MaterialInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "product_id and quantity are required")
		return
	}

	material, err := h.svc.AddMaterial(c.Request.Context(), GetUserID(c), c.Param("id"), &req)
	if err != nil {
		FailFromError(c, err)
		return
	}
	Created(c, material)
}

// RemoveMaterial deletes one bill-of-quantities line.
// DELETE /api/v1/projects/:id/materials/:materialId
func (h *ProjectHandler) RemoveMaterial(c *gin.Context) {
	err := h.svc.RemoveMaterial(c.Request.Context(), GetUserID(c), c.Param("id"), c.Param("materialId"))
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, gin.H{"message": "material removed"})
}
