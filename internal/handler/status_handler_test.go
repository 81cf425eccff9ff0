package handler

import (
	"net/http"
	"testing"

	"github.com/EvertondSilva/nexus-app/internal/repository"
	"github.com/EvertondSilva/nexus-app/internal/service"
	"github.com/EvertondSilva/nexus-app/internal/testutil"
	"github.com/gin-gonic/gin"
)

func setupStatusTest(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)

	testutil.SeedTestUser(t, db, "test-user-001", "testuser", "Test User")

	repos := repository.NewRepositories(db)
	statusHandler := NewStatusHandler(service.NewStatusService(repos.Status))

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/statuses", statusHandler.List)
	api.POST("/statuses", statusHandler.Create)

	return router
}

func createStatus(t *testing.T, router *gin.Engine, token, name string) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(router, "POST", "/api/v1/statuses",
		map[string]string{"name": name}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return testutil.ParseResponse(w)["data"].(map[string]interface{})
}

func TestStatusCreateAssignsNextRank(t *testing.T) {
	router := setupStatusTest(t)
	token := testutil.DefaultTestToken()

	first := createStatus(t, router, token, "Backlog")
	second := createStatus(t, router, token, "In progress")
	third := createStatus(t, router, token, "Done")

	if first["rank"].(float64) != 1 {
		t.Errorf("Expected first rank 1, got %v", first["rank"])
	}
	if second["rank"].(float64) != 2 {
		t.Errorf("Expected second rank 2, got %v", second["rank"])
	}
	if third["rank"].(float64) != 3 {
		t.Errorf("Expected third rank 3, got %v", third["rank"])
	}
	if first["color"] != "#6c757d" {
		t.Errorf("Expected default color, got %v", first["color"])
	}
}

func TestStatusCreateRejectsDuplicateName(t *testing.T) {
	router := setupStatusTest(t)
	token := testutil.DefaultTestToken()

	createStatus(t, router, token, "Review")

	w := testutil.DoRequest(router, "POST", "/api/v1/statuses",
		map[string]string{"name": "Review"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 on duplicate name, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStatusListInRankOrder(t *testing.T) {
	router := setupStatusTest(t)
	token := testutil.DefaultTestToken()

	createStatus(t, router, token, "Backlog")
	createStatus(t, router, token, "Doing")
	createStatus(t, router, token, "Done")

	w := testutil.DoRequest(router, "GET", "/api/v1/statuses", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	items := testutil.ParseResponse(w)["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 3 {
		t.Fatalf("Expected 3 statuses, got %d", len(items))
	}
	names := []string{"Backlog", "Doing", "Done"}
	for i, want := range names {
		got := items[i].(map[string]interface{})["name"]
		if got != want {
			t.Errorf("Expected %q at position %d, got %v", want, i, got)
		}
	}
}
