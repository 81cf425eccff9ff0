package handler

import (
	"net/http"
	"testing"

	"github.com/EvertondSilva/nexus-app/internal/repository"
	"github.com/EvertondSilva/nexus-app/internal/service"
	"github.com/EvertondSilva/nexus-app/internal/testutil"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupProjectTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	testutil.SeedTestUser(t, db, "test-user-001", "testuser", "Test User")
	testutil.SeedTestStatus(t, db, "st-backlog", "Backlog", 1)
	testutil.SeedTestStatus(t, db, "st-doing", "In progress", 2)
	testutil.SeedTestProduct(t, db, "prod-screw", "Screw M4", 100)
	testutil.SeedTestProduct(t, db, "prod-plate", "Steel plate", 20)

	repos := repository.NewRepositories(db)
	projectSvc := service.NewProjectService(repos.Project, repos.Status, repos.Product, false)
	projectHandler := NewProjectHandler(projectSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")

	projects := api.Group("/projects")
	projects.GET("", projectHandler.List)
	projects.POST("", projectHandler.Create)
	projects.GET("/completed", projectHandler.ListCompleted)
	projects.GET("/rejected", projectHandler.ListRejected)
	projects.GET("/:id", projectHandler.Get)
	projects.PUT("/:id", projectHandler.Update)
	projects.DELETE("/:id", projectHandler.Delete)
	projects.PUT("/:id/status", projectHandler.Move)
	projects.POST("/:id/complete", projectHandler.Complete)
	projects.POST("/:id/reopen", projectHandler.Reopen)
	projects.POST("/:id/approve", projectHandler.Approve)
	projects.POST("/:id/reject", projectHandler.Reject)
	projects.POST("/:id/approval/reset", projectHandler.ResetApproval)
	projects.GET("/:id/materials", projectHandler.ListMaterials)
	projects.POST("/:id/materials", projectHandler.AddMaterial)
	projects.DELETE("/:id/materials/:materialId", projectHandler.RemoveMaterial)

	api.GET("/board", projectHandler.Board)

	return router, db
}

func createProject(t *testing.T, router *gin.Engine, token, name string, materials []map[string]interface{}) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{
		"name":         name,
		"client":       "Acme Corp",
		"delivery_due": "2024-06-20",
		"payment_due":  "2024-07-01",
		"status_id":    "st-backlog",
	}
	if materials != nil {
		body["materials"] = materials
	}

	w := testutil.DoRequest(router, "POST", "/api/v1/projects", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	return resp["data"].(map[string]interface{})
}

func TestProjectCreateAndGet(t *testing.T) {
	router, _ := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	project := createProject(t, router, token, "Workbench", []map[string]interface{}{
		{"product_id": "prod-screw", "quantity": 40},
	})

	if project["name"] != "Workbench" {
		t.Errorf("Expected name 'Workbench', got %v", project["name"])
	}
	if project["approval"] != "pending" {
		t.Errorf("Expected pending approval on creation, got %v", project["approval"])
	}
	if project["completed"] != false {
		t.Errorf("Expected not completed on creation, got %v", project["completed"])
	}
	if project["owner_id"] != "test-user-001" {
		t.Errorf("Expected owner from token, got %v", project["owner_id"])
	}

	materials := project["materials"].([]interface{})
	if len(materials) != 1 {
		t.Fatalf("Expected 1 material, got %d", len(materials))
	}

	id := project["id"].(string)
	w := testutil.DoRequest(router, "GET", "/api/v1/projects/"+id, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["status"].(map[string]interface{})["name"] != "Backlog" {
		t.Errorf("Expected preloaded status, got %v", data["status"])
	}
}

func TestProjectCreateRejectsBadDate(t *testing.T) {
	router, _ := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	body := map[string]interface{}{
		"name":         "Bad dates",
		"client":       "Acme Corp",
		"delivery_due": "20/06/2024",
		"payment_due":  "2024-07-01",
		"status_id":    "st-backlog",
	}
	w := testutil.DoRequest(router, "POST", "/api/v1/projects", body, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProjectCreateRejectsDuplicateMaterial(t *testing.T) {
	router, _ := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	body := map[string]interface{}{
		"name":         "Dup materials",
		"client":       "Acme Corp",
		"delivery_due": "2024-06-20",
		"payment_due":  "2024-07-01",
		"status_id":    "st-backlog",
		"materials": []map[string]interface{}{
			{"product_id": "prod-screw", "quantity": 10},
			{"product_id": "prod-screw", "quantity": 5},
		},
	}
	w := testutil.DoRequest(router, "POST", "/api/v1/projects", body, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProjectListExcludesCompletedAndRejected(t *testing.T) {
	router, _ := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	active := createProject(t, router, token, "Active one", nil)
	done := createProject(t, router, token, "Done one", nil)
	bad := createProject(t, router, token, "Rejected one", nil)

	testutil.DoRequest(router, "POST", "/api/v1/projects/"+done["id"].(string)+"/complete", nil, token)
	testutil.DoRequest(router, "POST", "/api/v1/projects/"+bad["id"].(string)+"/reject", nil, token)

	w := testutil.DoRequest(router, "GET", "/api/v1/projects", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	items := resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("Expected 1 active project, got %d", len(items))
	}
	if items[0].(map[string]interface{})["id"] != active["id"] {
		t.Errorf("Expected the active project in the list")
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/projects/completed", nil, token)
	resp = testutil.ParseResponse(w)
	items = resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Errorf("Expected 1 completed project, got %d", len(items))
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/projects/rejected", nil, token)
	resp = testutil.ParseResponse(w)
	items = resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Errorf("Expected 1 rejected project, got %d", len(items))
	}
}

func TestProjectLifecycle(t *testing.T) {
	router, _ := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	project := createProject(t, router, token, "Lifecycle", nil)
	id := project["id"].(string)

	// Complete
	w := testutil.DoRequest(router, "POST", "/api/v1/projects/"+id+"/complete", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on complete, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["completed"] != true || data["completed_at"] == nil {
		t.Errorf("Expected completed with timestamp, got %v / %v", data["completed"], data["completed_at"])
	}

	// Reopen
	w = testutil.DoRequest(router, "POST", "/api/v1/projects/"+id+"/reopen", nil, token)
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["completed"] != false || data["completed_at"] != nil {
		t.Errorf("Expected reopened project, got %v / %v", data["completed"], data["completed_at"])
	}

	// Approve
	w = testutil.DoRequest(router, "POST", "/api/v1/projects/"+id+"/approve", nil, token)
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["approval"] != "approved" || data["approved_at"] == nil {
		t.Errorf("Expected approved with timestamp, got %v / %v", data["approval"], data["approved_at"])
	}

	// Reject with explicit reason overwrites the approval
	w = testutil.DoRequest(router, "POST", "/api/v1/projects/"+id+"/reject",
		map[string]string{"reason": "client cancelled"}, token)
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["approval"] != "rejected" {
		t.Errorf("Expected rejected, got %v", data["approval"])
	}
	if data["rejection_reason"] != "client cancelled" {
		t.Errorf("Expected explicit reason, got %v", data["rejection_reason"])
	}

	// Reset approval
	w = testutil.DoRequest(router, "POST", "/api/v1/projects/"+id+"/approval/reset", nil, token)
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["approval"] != "pending" || data["approved_at"] != nil || data["rejection_reason"] != nil {
		t.Errorf("Expected clean pending state, got %+v", data)
	}
}

func TestProjectRejectDefaultsReason(t *testing.T) {
	router, _ := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	project := createProject(t, router, token, "No reason", nil)
	id := project["id"].(string)

	w := testutil.DoRequest(router, "POST", "/api/v1/projects/"+id+"/reject", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["rejection_reason"] != "Project rejected" {
		t.Errorf("Expected default reason, got %v", data["rejection_reason"])
	}
}

func TestProjectMove(t *testing.T) {
	router, _ := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	project := createProject(t, router, token, "Movable", nil)
	id := project["id"].(string)

	w := testutil.DoRequest(router, "PUT", "/api/v1/projects/"+id+"/status",
		map[string]string{"status_id": "st-doing"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status_id"] != "st-doing" {
		t.Errorf("Expected status st-doing, got %v", data["status_id"])
	}

	// Unknown status is a 404 on the referenced record
	w = testutil.DoRequest(router, "PUT", "/api/v1/projects/"+id+"/status",
		map[string]string{"status_id": "st-nope"}, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown status, got %d", w.Code)
	}
}

func TestProjectDeleteCascadesMaterials(t *testing.T) {
	router, db := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	project := createProject(t, router, token, "Doomed", []map[string]interface{}{
		{"product_id": "prod-screw", "quantity": 10},
		{"product_id": "prod-plate", "quantity": 2},
	})
	id := project["id"].(string)

	w := testutil.DoRequest(router, "DELETE", "/api/v1/projects/"+id, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/projects/"+id, nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", w.Code)
	}

	var count int64
	db.Table("project_materials").Where("project_id = ?", id).Count(&count)
	if count != 0 {
		t.Errorf("Expected materials deleted with project, found %d", count)
	}
}

func TestProjectMaterials(t *testing.T) {
	router, _ := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	project := createProject(t, router, token, "BOM", nil)
	id := project["id"].(string)

	// Add
	w := testutil.DoRequest(router, "POST", "/api/v1/projects/"+id+"/materials",
		map[string]interface{}{"product_id": "prod-screw", "quantity": 8}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	material := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if material["product"].(map[string]interface{})["name"] != "Screw M4" {
		t.Errorf("Expected preloaded product, got %v", material["product"])
	}

	// Duplicate product fails, never merges
	w = testutil.DoRequest(router, "POST", "/api/v1/projects/"+id+"/materials",
		map[string]interface{}{"product_id": "prod-screw", "quantity": 3}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on duplicate material, got %d", w.Code)
	}

	// Non-positive quantity fails
	w = testutil.DoRequest(router, "POST", "/api/v1/projects/"+id+"/materials",
		map[string]interface{}{"product_id": "prod-plate", "quantity": -1}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on negative quantity, got %d", w.Code)
	}

	// Remove
	materialID := material["id"].(string)
	w = testutil.DoRequest(router, "DELETE", "/api/v1/projects/"+id+"/materials/"+materialID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// An empty bill of materials is an empty array, never null
	w = testutil.DoRequest(router, "GET", "/api/v1/projects/"+id+"/materials", nil, token)
	items := testutil.ParseResponse(w)["data"].(map[string]interface{})["items"]
	list, ok := items.([]interface{})
	if !ok {
		t.Fatalf("Expected a materials array, got %T", items)
	}
	if len(list) != 0 {
		t.Errorf("Expected no materials left, got %d", len(list))
	}
}

func TestBoardGroupsByStatus(t *testing.T) {
	router, _ := setupProjectTest(t)
	token := testutil.DefaultTestToken()

	first := createProject(t, router, token, "Col one", nil)
	createProject(t, router, token, "Col one too", nil)
	testutil.DoRequest(router, "PUT", "/api/v1/projects/"+first["id"].(string)+"/status",
		map[string]string{"status_id": "st-doing"}, token)

	w := testutil.DoRequest(router, "GET", "/api/v1/board", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	columns := testutil.ParseResponse(w)["data"].(map[string]interface{})["columns"].([]interface{})
	if len(columns) != 2 {
		t.Fatalf("Expected 2 columns, got %d", len(columns))
	}

	backlog := columns[0].(map[string]interface{})
	doing := columns[1].(map[string]interface{})
	if backlog["status"].(map[string]interface{})["name"] != "Backlog" {
		t.Errorf("Expected columns in rank order, got %v first", backlog["status"])
	}
	if len(backlog["projects"].([]interface{})) != 1 {
		t.Errorf("Expected 1 project in Backlog, got %d", len(backlog["projects"].([]interface{})))
	}
	if len(doing["projects"].([]interface{})) != 1 {
		t.Errorf("Expected 1 project in progress, got %d", len(doing["projects"].([]interface{})))
	}
}

func TestProjectOwnershipScoping(t *testing.T) {
	db := testutil.SetupTestDB(t)

	testutil.SeedTestUser(t, db, "owner-a", "alice", "Alice")
	testutil.SeedTestUser(t, db, "owner-b", "bob", "Bob")
	testutil.SeedTestStatus(t, db, "st-backlog", "Backlog", 1)

	repos := repository.NewRepositories(db)
	projectSvc := service.NewProjectService(repos.Project, repos.Status, repos.Product, true)
	projectHandler := NewProjectHandler(projectSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/projects", projectHandler.List)
	api.POST("/projects", projectHandler.Create)
	api.GET("/projects/:id", projectHandler.Get)
	api.POST("/projects/:id/approve", projectHandler.Approve)

	alice := testutil.GenerateTestToken("owner-a", "Alice")
	bob := testutil.GenerateTestToken("owner-b", "Bob")

	project := createProject(t, router, alice, "Alice's project", nil)
	id := project["id"].(string)

	// The owner sees it
	w := testutil.DoRequest(router, "GET", "/api/v1/projects/"+id, nil, alice)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for owner, got %d: %s", w.Code, w.Body.String())
	}

	// Everyone else gets a 404, for reads and transitions alike
	w = testutil.DoRequest(router, "GET", "/api/v1/projects/"+id, nil, bob)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for non-owner read, got %d", w.Code)
	}
	w = testutil.DoRequest(router, "POST", "/api/v1/projects/"+id+"/approve", nil, bob)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for non-owner transition, got %d", w.Code)
	}

	// And the list is filtered per owner
	w = testutil.DoRequest(router, "GET", "/api/v1/projects", nil, bob)
	items := testutil.ParseResponse(w)["data"].(map[string]interface{})["items"]
	if list, ok := items.([]interface{}); ok && len(list) != 0 {
		t.Errorf("Expected empty list for non-owner, got %d items", len(list))
	}
}

func TestProjectRequiresAuth(t *testing.T) {
	router, _ := setupProjectTest(t)

	w := testutil.DoRequest(router, "GET", "/api/v1/projects", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}
}
