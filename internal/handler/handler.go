package handler

import (
	"errors"

	"github.com/EvertondSilva/nexus-app/internal/config"
	"github.com/EvertondSilva/nexus-app/internal/repository"
	"github.com/EvertondSilva/nexus-app/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers.
type Handlers struct {
	Auth    *AuthHandler
	Product *ProductHandler
	Status  *StatusHandler
	Project *ProjectHandler
	Metrics *MetricsHandler
}

func NewHandlers(svc *service.Services, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:    NewAuthHandler(svc.Auth),
		Product: NewProductHandler(svc.Product),
		Status:  NewStatusHandler(svc.Status),
		Project: NewProjectHandler(svc.Project),
		Metrics: NewMetricsHandler(svc.Metrics),
	}
}

// Response is the common envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// FailFromError maps service errors to the envelope: missing records to
// 404, validation sentinels to 400, everything else to 500.
func FailFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrDuplicateStatusName),
		errors.Is(err, service.ErrDuplicateMaterial),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrPasswordTooShort):
		BadRequest(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetUserID returns the authenticated user's id from the context.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}
