package service

import (
	"context"
	"fmt"

	"github.com/EvertondSilva/nexus-app/internal/model/entity"
	"github.com/EvertondSilva/nexus-app/internal/repository"
)

// ProductService manages products and their categories.
type ProductService struct {
	productRepo  *repository.ProductRepository
	categoryRepo *repository.CategoryRepository
}

func NewProductService(productRepo *repository.ProductRepository, categoryRepo *repository.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	CategoryID  *string `json:"category_id"`
	Stock       int     `json:"stock"`
	MinStock    *int    `json:"min_stock"`
	Unit        string  `json:"unit"`
	Notes       string  `json:"notes"`
}

type UpdateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	CategoryID  *string `json:"category_id"`
	Stock       int     `json:"stock"`
	MinStock    *int    `json:"min_stock"`
	Unit        string  `json:"unit"`
	Notes       string  `json:"notes"`
	Active      *bool   `json:"active"`
}

func (s *ProductService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.categoryRepo.ListActive(ctx)
}

func (s *ProductService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*entity.Category, error) {
	color := req.Color
	if color == "" {
		color = "#007bff"
	}
	category := &entity.Category{
		ID:     generateID(),
		Name:   req.Name,
		Color:  color,
		Active: true,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

type UpdateCategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

func (s *ProductService) UpdateCategory(ctx context.Context, id string, req *UpdateCategoryRequest) (*entity.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	if req.Color != "" {
		category.Color = req.Color
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category and, through the store, every
// product that references it.
func (s *ProductService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}

// ListProducts returns active products, optionally restricted to a
// category and, with lowStock, to products under their minimum level.
func (s *ProductService) ListProducts(ctx context.Context, categoryID string, lowStock bool) ([]entity.Product, error) {
	products, err := s.productRepo.ListActive(ctx, categoryID)
	if err != nil || !lowStock {
		return products, err
	}

	filtered := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if p.BelowMinStock() {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*entity.Product, error) {
	if req.CategoryID != nil && *req.CategoryID != "" {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, fmt.Errorf("resolve category: %w", err)
		}
	} else {
		req.CategoryID = nil
	}

	minStock := 5
	if req.MinStock != nil {
		minStock = *req.MinStock
	}
	unit := req.Unit
	if unit == "" {
		unit = "un"
	}

	product := &entity.Product{
		ID:          generateID(),
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Stock:       req.Stock,
		MinStock:    minStock,
		Unit:        unit,
		Notes:       req.Notes,
		Active:      true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *UpdateProductRequest) (*entity.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil && *req.CategoryID != "" {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, fmt.Errorf("resolve category: %w", err)
		}
		product.CategoryID = req.CategoryID
	} else {
		product.CategoryID = nil
	}

	product.Name = req.Name
	product.Code = req.Code
	product.Description = req.Description
	product.Stock = req.Stock
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if req.Unit != "" {
		product.Unit = req.Unit
	}
	product.Notes = req.Notes
	if req.Active != nil {
		product.Active = *req.Active
	}
	product.Category = nil

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}
