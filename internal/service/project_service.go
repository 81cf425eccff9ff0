package service

import (
	"context"
	"fmt"
	"time"

	"github.com/EvertondSilva/nexus-app/internal/model/entity"
	"github.com/EvertondSilva/nexus-app/internal/repository"
)

// ProjectService orchestrates project CRUD, the kanban board and the
// completion/approval lifecycle.
type ProjectService struct {
	projectRepo  *repository.ProjectRepository
	statusRepo   *repository.StatusRepository
	productRepo  *repository.ProductRepository
	scopeToOwner bool
}

func NewProjectService(
	projectRepo *repository.ProjectRepository,
	statusRepo *repository.StatusRepository,
	productRepo *repository.ProductRepository,
	scopeToOwner bool,
) *ProjectService {
	return &ProjectService{
		projectRepo:  projectRepo,
		statusRepo:   statusRepo,
		productRepo:  productRepo,
		scopeToOwner: scopeToOwner,
	}
}

// scope returns the owner filter for a query: the actor when ownership
// scoping is on, otherwise empty (shared board).
func (s *ProjectService) scope(actorID string) string {
	if s.scopeToOwner {
		return actorID
	}
	return ""
}

type MaterialInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Notes     string `json:"notes"`
}

type CreateProjectRequest struct {
	Name        string          `json:"name" binding:"required"`
	Client      string          `json:"client" binding:"required"`
	DeliveryDue string          `json:"delivery_due" binding:"required"`
	PaymentDue  string          `json:"payment_due" binding:"required"`
	StatusID    string          `json:"status_id" binding:"required"`
	Notes       string          `json:"notes"`
	Materials   []MaterialInput `json:"materials"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Client      string `json:"client" binding:"required"`
	DeliveryDue string `json:"delivery_due" binding:"required"`
	PaymentDue  string `json:"payment_due" binding:"required"`
	StatusID    string `json:"status_id" binding:"required"`
	Notes       string `json:"notes"`
}

// ListActive returns board projects: not completed, not rejected,
// newest first.
func (s *ProjectService) ListActive(ctx context.Context, actorID string) ([]entity.Project, error) {
	completed := false
	return s.projectRepo.List(ctx, repository.ProjectFilter{
		OwnerID:   s.scope(actorID),
		Completed: &completed,
		Approvals: []string{entity.ApprovalPending, entity.ApprovalApproved},
	})
}

func (s *ProjectService) ListCompleted(ctx context.Context, actorID string) ([]entity.Project, error) {
	return s.projectRepo.ListCompleted(ctx, s.scope(actorID))
}

func (s *ProjectService) ListRejected(ctx context.Context, actorID string) ([]entity.Project, error) {
	return s.projectRepo.ListRejected(ctx, s.scope(actorID))
}

func (s *ProjectService) GetProject(ctx context.Context, actorID, id string) (*entity.Project, error) {
	return s.projectRepo.FindByID(ctx, id, s.scope(actorID))
}

// BoardColumn is one kanban column with its active projects.
type BoardColumn struct {
	Status   entity.ProjectStatus `json:"status"`
	Projects []entity.Project     `json:"projects"`
}

// Board groups active projects under each active status, in rank order.
// Columns with no projects are included with an empty list.
func (s *ProjectService) Board(ctx context.Context, actorID string) ([]BoardColumn, error) {
	statuses, err := s.statusRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	projects, err := s.ListActive(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	byStatus := make(map[string][]entity.Project, len(statuses))
	for _, p := range projects {
		byStatus[p.StatusID] = append(byStatus[p.StatusID], p)
	}

	columns := make([]BoardColumn, 0, len(statuses))
	for _, status := range statuses {
		col := BoardColumn{Status: status, Projects: byStatus[status.ID]}
		if col.Projects == nil {
			col.Projects = []entity.Project{}
		}
		columns = append(columns, col)
	}
	return columns, nil
}

// CreateProject validates references and persists the project with its
// initial bill of materials.
func (s *ProjectService) CreateProject(ctx context.Context, actorID string, req *CreateProjectRequest) (*entity.Project, error) {
	deliveryDue, err := parseDate(req.DeliveryDue)
	if err != nil {
		return nil, err
	}
	paymentDue, err := parseDate(req.PaymentDue)
	if err != nil {
		return nil, err
	}

	if _, err := s.statusRepo.FindByID(ctx, req.StatusID); err != nil {
		return nil, fmt.Errorf("resolve status: %w", err)
	}

	project := &entity.Project{
		ID:          generateID(),
		Name:        req.Name,
		Client:      req.Client,
		DeliveryDue: deliveryDue,
		PaymentDue:  paymentDue,
		StatusID:    req.StatusID,
		OwnerID:     actorID,
		Notes:       req.Notes,
		Approval:    entity.ApprovalPending,
	}

	seen := make(map[string]bool, len(req.Materials))
	for _, m := range req.Materials {
		if m.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if seen[m.ProductID] {
			return nil, ErrDuplicateMaterial
		}
		seen[m.ProductID] = true
		if _, err := s.productRepo.FindByID(ctx, m.ProductID); err != nil {
			return nil, fmt.Errorf("resolve product: %w", err)
		}
		project.Materials = append(project.Materials, entity.ProjectMaterial{
			ID:        generateID(),
			ProjectID: project.ID,
			ProductID: m.ProductID,
			Quantity:  m.Quantity,
			Notes:     m.Notes,
		})
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return s.projectRepo.FindByID(ctx, project.ID, "")
}

// UpdateProject rewrites the descriptive fields and status of an
// existing project. Materials are managed through AddMaterial and
// RemoveMaterial.
func (s *ProjectService) UpdateProject(ctx context.Context, actorID, id string, req *UpdateProjectRequest) (*entity.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id, s.scope(actorID))
	if err != nil {
		return nil, err
	}

	deliveryDue, err := parseDate(req.DeliveryDue)
	if err != nil {
		return nil, err
	}
	paymentDue, err := parseDate(req.PaymentDue)
	if err != nil {
		return nil, err
	}
	if _, err := s.statusRepo.FindByID(ctx, req.StatusID); err != nil {
		return nil, fmt.Errorf("resolve status: %w", err)
	}

	project.Name = req.Name
	project.Client = req.Client
	project.DeliveryDue = deliveryDue
	project.PaymentDue = paymentDue
	project.StatusID = req.StatusID
	project.Notes = req.Notes

	if err := s.save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, actorID, id string) error {
	if _, err := s.projectRepo.FindByID(ctx, id, s.scope(actorID)); err != nil {
		return err
	}
	return s.projectRepo.Delete(ctx, id)
}

// MoveToStatus drags a project to another kanban column.
func (s *ProjectService) MoveToStatus(ctx context.Context, actorID, id, statusID string) (*entity.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id, s.scope(actorID))
	if err != nil {
		return nil, err
	}
	if _, err := s.statusRepo.FindByID(ctx, statusID); err != nil {
		return nil, fmt.Errorf("resolve status: %w", err)
	}

	project.StatusID = statusID
	if err := s.save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// ============================================================
// Lifecycle transitions
// ============================================================

// MarkCompleted sets the completion axis and persists immediately.
func (s *ProjectService) MarkCompleted(ctx context.Context, actorID, id string) (*entity.Project, error) {
	return s.transition(ctx, actorID, id, func(p *entity.Project) {
		p.MarkCompleted(time.Now())
	})
}

// Reopen clears the completion axis.
func (s *ProjectService) Reopen(ctx context.Context, actorID, id string) (*entity.Project, error) {
	return s.transition(ctx, actorID, id, func(p *entity.Project) {
		p.Reopen()
	})
}

// Approve moves the approval axis to approved.
func (s *ProjectService) Approve(ctx context.Context, actorID, id string) (*entity.Project, error) {
	return s.transition(ctx, actorID, id, func(p *entity.Project) {
		p.Approve(time.Now())
	})
}

// Reject moves the approval axis to rejected with the given reason.
func (s *ProjectService) Reject(ctx context.Context, actorID, id, reason string) (*entity.Project, error) {
	return s.transition(ctx, actorID, id, func(p *entity.Project) {
		p.Reject(reason, time.Now())
	})
}

// ResetApproval returns the approval axis to pending.
func (s *ProjectService) ResetApproval(ctx context.Context, actorID, id string) (*entity.Project, error) {
	return s.transition(ctx, actorID, id, func(p *entity.Project) {
		p.ResetApproval()
	})
}

func (s *ProjectService) transition(ctx context.Context, actorID, id string, apply func(*entity.Project)) (*entity.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id, s.scope(actorID))
	if err != nil {
		return nil, err
	}
	apply(project)
	if err := s.save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// save persists a loaded project without re-saving preloaded
// associations.
func (s *ProjectService) save(ctx context.Context, project *entity.Project) error {
	project.Status = nil
	project.Owner = nil
	project.Materials = nil
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// ============================================================
// Materials
// ============================================================

// AddMaterial appends one bill-of-quantities line. The (project,
// product) pair must be unique; duplicates fail rather than merge.
func (s *ProjectService) AddMaterial(ctx context.Context, actorID, projectID string, req *MaterialInput) (*entity.ProjectMaterial, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.projectRepo.FindByID(ctx, projectID, s.scope(actorID)); err != nil {
		return nil, err
	}
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, fmt.Errorf("resolve product: %w", err)
	}

	exists, err := s.projectRepo.MaterialExists(ctx, projectID, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("check material: %w", err)
	}
	if exists {
		return nil, ErrDuplicateMaterial
	}

	material := &entity.ProjectMaterial{
		ID:        generateID(),
		ProjectID: projectID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Notes:     req.Notes,
	}
	if err := s.projectRepo.AddMaterial(ctx, material); err != nil {
		return nil, fmt.Errorf("add material: %w", err)
	}
	return s.projectRepo.FindMaterial(ctx, projectID, material.ID)
}

func (s *ProjectService) RemoveMaterial(ctx context.Context, actorID, projectID, materialID string) error {
	if _, err := s.projectRepo.FindByID(ctx, projectID, s.scope(actorID)); err != nil {
		return err
	}
	if _, err := s.projectRepo.FindMaterial(ctx, projectID, materialID); err != nil {
		return err
	}
	return s.projectRepo.DeleteMaterial(ctx, projectID, materialID)
}
