package repository

import (
	"context"
	"errors"

	"github.com/EvertondSilva/nexus-app/internal/model/entity"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// ListActive returns active products ordered by name, optionally
// filtered to one category.
func (r *ProductRepository) ListActive(ctx context.Context, categoryID string) ([]entity.Product, error) {
	var products []entity.Product
	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("active = ?", true)
	if categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	err := query.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}
