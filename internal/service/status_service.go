package service

import (
	"context"
	"fmt"

	"github.com/EvertondSilva/nexus-app/internal/model/entity"
	"github.com/EvertondSilva/nexus-app/internal/repository"
)

// StatusService manages kanban columns.
type StatusService struct {
	statusRepo *repository.StatusRepository
}

func NewStatusService(statusRepo *repository.StatusRepository) *StatusService {
	return &StatusService{statusRepo: statusRepo}
}

type CreateStatusRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

func (s *StatusService) ListStatuses(ctx context.Context) ([]entity.ProjectStatus, error) {
	return s.statusRepo.ListActive(ctx)
}

// CreateStatus appends a new column. The rank is always one past the
// current maximum so the new column lands at the right edge of the
// board.
func (s *StatusService) CreateStatus(ctx context.Context, req *CreateStatusRequest) (*entity.ProjectStatus, error) {
	exists, err := s.statusRepo.NameExists(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("check status name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateStatusName
	}

	maxRank, err := s.statusRepo.MaxRank(ctx)
	if err != nil {
		return nil, fmt.Errorf("max rank: %w", err)
	}

	color := req.Color
	if color == "" {
		color = "#6c757d"
	}

	status := &entity.ProjectStatus{
		ID:     generateID(),
		Name:   req.Name,
		Color:  color,
		Rank:   maxRank + 1,
		Active: true,
	}
	if err := s.statusRepo.Create(ctx, status); err != nil {
		return nil, fmt.Errorf("create status: %w", err)
	}
	return status, nil
}
