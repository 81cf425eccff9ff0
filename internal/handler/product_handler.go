package handler

import (
	"github.com/EvertondSilva/nexus-app/internal/service"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	svc *service.ProductService
}

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// ListCategories returns active categories ordered by name.
// GET /api/v1/categories
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, gin.H{"items": categories})
}

// CreateCategory creates a category.
// POST /api/v1/categories
func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req service.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name is required")
		return
	}

	category, err := h.svc.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		FailFromError(c, err)
		return
	}
	Created(c, category)
}

// UpdateCategory renames or recolors a category.
// PUT /api/v1/categories/:id
func (h *ProductHandler) UpdateCategory(c *gin.Context) {
	var req service.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name is required")
		return
	}

	category, err := h.svc.UpdateCategory(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, category)
}

// DeleteCategory removes a category and its dependent products.
// DELETE /api/v1/categories/:id
func (h *ProductHandler) DeleteCategory(c *gin.Context) {
	if err := h.svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, gin.H{"message": "category deleted"})
}

// List returns active products, optionally filtered by category or
// restricted to those running low on stock.
// GET /api/v1/products?category_id=...&low_stock=true
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.svc.ListProducts(c.Request.Context(), c.Query("category_id"), c.Query("low_stock") == "true")
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, gin.H{"items": products})
}

// Get returns one product.
// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.svc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, product)
}

// Create creates a product.
// POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name is required")
		return
	}

	product, err := h.svc.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		FailFromError(c, err)
		return
	}
	Created(c, product)
}

// Update rewrites a product.
// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name is required")
		return
	}

	product, err := h.svc.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, product)
}

// Delete removes a product.
// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		FailFromError(c, err)
		return
	}
	Success(c, gin.H{"message": "product deleted"})
}
