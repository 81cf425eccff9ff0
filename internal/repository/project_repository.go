package repository

import (
	"context"
	"errors"
	"time"

	"github.com/EvertondSilva/nexus-app/internal/model/entity"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// ProjectFilter narrows project queries. Zero values mean "no filter".
// CreatedFrom/CreatedTo are calendar dates, inclusive on both ends.
type ProjectFilter struct {
	OwnerID     string
	StatusID    string
	Completed   *bool
	Approvals   []string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

func (r *ProjectRepository) applyFilter(query *gorm.DB, filter ProjectFilter) *gorm.DB {
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.StatusID != "" {
		query = query.Where("status_id = ?", filter.StatusID)
	}
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if len(filter.Approvals) > 0 {
		query = query.Where("approval IN ?", filter.Approvals)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		// Inclusive date bound: anything before the following midnight.
		query = query.Where("created_at < ?", filter.CreatedTo.AddDate(0, 0, 1))
	}
	return query
}

// FindByID loads a project with its status and materials. A non-empty
// ownerID restricts the lookup to that owner; foreign projects read as
// not found.
func (r *ProjectRepository) FindByID(ctx context.Context, id, ownerID string) (*entity.Project, error) {
	var project entity.Project
	query := r.db.WithContext(ctx).
		Preload("Status").
		Preload("Owner").
		Preload("Materials.Product").
		Where("id = ?", id)
	if ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}
	err := query.First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// List returns projects matching filter, newest first.
func (r *ProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]entity.Project, error) {
	var projects []entity.Project
	query := r.applyFilter(r.db.WithContext(ctx).Model(&entity.Project{}), filter)
	err := query.
		Preload("Status").
		Preload("Materials.Product").
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// ListCompleted returns completed projects, most recently completed
// first.
func (r *ProjectRepository) ListCompleted(ctx context.Context, ownerID string) ([]entity.Project, error) {
	var projects []entity.Project
	query := r.db.WithContext(ctx).
		Preload("Status").
		Where("completed = ?", true)
	if ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}
	err := query.Order("completed_at DESC").Find(&projects).Error
	return projects, err
}

// ListRejected returns rejected projects, most recent decision first.
func (r *ProjectRepository) ListRejected(ctx context.Context, ownerID string) ([]entity.Project, error) {
	var projects []entity.Project
	query := r.db.WithContext(ctx).
		Preload("Status").
		Where("approval = ?", entity.ApprovalRejected)
	if ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}
	err := query.Order("approved_at DESC").Find(&projects).Error
	return projects, err
}

// Create persists a project together with its initial materials.
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete removes a project and the materials it owns.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.ProjectMaterial{}, "project_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Project{}, "id = ?", id).Error
	})
}

// MaterialExists reports whether the project already lists the product.
func (r *ProjectRepository) MaterialExists(ctx context.Context, projectID, productID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ProjectMaterial{}).
		Where("project_id = ? AND product_id = ?", projectID, productID).
		Count(&count).Error
	return count > 0, err
}

func (r *ProjectRepository) AddMaterial(ctx context.Context, material *entity.ProjectMaterial) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *ProjectRepository) FindMaterial(ctx context.Context, projectID, materialID string) (*entity.ProjectMaterial, error) {
	var material entity.ProjectMaterial
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ? AND project_id = ?", materialID, projectID).
		First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

func (r *ProjectRepository) DeleteMaterial(ctx context.Context, projectID, materialID string) error {
	return r.db.WithContext(ctx).
		Delete(&entity.ProjectMaterial{}, "id = ? AND project_id = ?", materialID, projectID).Error
}
