package service

import (
	"errors"
	"strings"
	"time"

	"github.com/EvertondSilva/nexus-app/internal/config"
	"github.com/EvertondSilva/nexus-app/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Validation errors surfaced to the API layer.
var (
	ErrUsernameTaken       = errors.New("username already exists")
	ErrPasswordTooShort    = errors.New("password must be at least 4 characters")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrDuplicateStatusName = errors.New("a status with this name already exists")
	ErrDuplicateMaterial   = errors.New("product is already listed on this project")
	ErrInvalidQuantity     = errors.New("quantity must be a positive integer")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
)

// Services bundles all application services.
type Services struct {
	Auth    *AuthService
	Product *ProductService
	Status  *StatusService
	Project *ProjectService
	Metrics *MetricsService
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	return &Services{
		Auth:    NewAuthService(repos.User, rdb, cfg),
		Product: NewProductService(repos.Product, repos.Category),
		Status:  NewStatusService(repos.Status),
		Project: NewProjectService(repos.Project, repos.Status, repos.Product, cfg.App.ScopeToOwner),
		Metrics: NewMetricsService(repos.Project, repos.Status, rdb, cfg.App),
	}
}

func generateID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// parseDate parses a YYYY-MM-DD request field.
func parseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
