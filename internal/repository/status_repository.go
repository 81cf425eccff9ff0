package repository

import (
	"context"
	"errors"

	"github.com/EvertondSilva/nexus-app/internal/model/entity"
	"gorm.io/gorm"
)

type StatusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

func (r *StatusRepository) FindByID(ctx context.Context, id string) (*entity.ProjectStatus, error) {
	var status entity.ProjectStatus
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &status, nil
}

// ListActive returns active statuses in board order: rank ascending,
// creation order breaking ties.
func (r *StatusRepository) ListActive(ctx context.Context) ([]entity.ProjectStatus, error) {
	var statuses []entity.ProjectStatus
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("rank ASC, created_at ASC").
		Find(&statuses).Error
	return statuses, err
}

func (r *StatusRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ProjectStatus{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

// MaxRank returns the highest rank across all statuses, or 0 when none
// exist.
func (r *StatusRepository) MaxRank(ctx context.Context) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&entity.ProjectStatus{}).
		Select("MAX(rank)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *StatusRepository) Create(ctx context.Context, status *entity.ProjectStatus) error {
	return r.db.WithContext(ctx).Create(status).Error
}
