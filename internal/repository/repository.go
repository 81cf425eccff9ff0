package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories bundles all repositories sharing one gorm handle.
type Repositories struct {
	User     *UserRepository
	Category *CategoryRepository
	Product  *ProductRepository
	Status   *StatusRepository
	Project  *ProjectRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Category: NewCategoryRepository(db),
		Product:  NewProductRepository(db),
		Status:   NewStatusRepository(db),
		Project:  NewProjectRepository(db),
	}
}
