package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/EvertondSilva/nexus-app/internal/config"
	"github.com/EvertondSilva/nexus-app/internal/repository"
	"github.com/EvertondSilva/nexus-app/internal/service"
	"github.com/EvertondSilva/nexus-app/internal/testutil"
	"github.com/gin-gonic/gin"
)

func setupAuthTest(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)

	cfg := &config.Config{}
	cfg.JWT.Secret = testutil.JWTSecret
	cfg.JWT.AccessTokenExpire = 2 * time.Hour
	cfg.JWT.RefreshTokenExpire = 168 * time.Hour
	cfg.JWT.Issuer = "nexus-app"

	repos := repository.NewRepositories(db)
	authHandler := NewAuthHandler(service.NewAuthService(repos.User, nil, cfg))

	router := testutil.SetupRouter()
	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/auth/me", authHandler.GetCurrentUser)

	return router
}

func TestRegisterAndLogin(t *testing.T) {
	router := setupAuthTest(t)

	w := testutil.DoRequest(router, "POST", "/api/v1/auth/register",
		map[string]string{"username": "maria", "password": "secret", "name": "Maria"}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	user := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if user["username"] != "maria" {
		t.Errorf("Expected username maria, got %v", user["username"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Error("Expected password hash to stay out of responses")
	}

	w = testutil.DoRequest(router, "POST", "/api/v1/auth/login",
		map[string]string{"username": "maria", "password": "secret"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	tokens := data["tokens"].(map[string]interface{})
	if tokens["access_token"] == nil || tokens["access_token"] == "" {
		t.Error("Expected an access token")
	}
	if tokens["refresh_token"] == nil || tokens["refresh_token"] == "" {
		t.Error("Expected a refresh token")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	router := setupAuthTest(t)

	w := testutil.DoRequest(router, "POST", "/api/v1/auth/register",
		map[string]string{"username": "joe", "password": "ab"}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	router := setupAuthTest(t)

	testutil.DoRequest(router, "POST", "/api/v1/auth/register",
		map[string]string{"username": "dup", "password": "secret"}, "")
	w := testutil.DoRequest(router, "POST", "/api/v1/auth/register",
		map[string]string{"username": "dup", "password": "secret"}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 on duplicate username, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	router := setupAuthTest(t)

	testutil.DoRequest(router, "POST", "/api/v1/auth/register",
		map[string]string{"username": "ana", "password": "secret"}, "")
	w := testutil.DoRequest(router, "POST", "/api/v1/auth/login",
		map[string]string{"username": "ana", "password": "wrong"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d: %s", w.Code, w.Body.String())
	}

	// Unknown usernames fail the same way
	w = testutil.DoRequest(router, "POST", "/api/v1/auth/login",
		map[string]string{"username": "ghost", "password": "secret"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for unknown user, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetCurrentUser(t *testing.T) {
	router := setupAuthTest(t)

	w := testutil.DoRequest(router, "POST", "/api/v1/auth/register",
		map[string]string{"username": "carl", "password": "secret", "name": "Carl"}, "")
	user := testutil.ParseResponse(w)["data"].(map[string]interface{})
	token := testutil.GenerateTestToken(user["id"].(string), "Carl")

	w = testutil.DoRequest(router, "GET", "/api/v1/auth/me", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["username"] != "carl" {
		t.Errorf("Expected username carl, got %v", data["username"])
	}
}
