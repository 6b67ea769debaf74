package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hebeos_todo/internal/config"
	"hebeos_todo/internal/db"
	"hebeos_todo/internal/domain"
	httpapi "hebeos_todo/internal/http"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
)

func setupAPI(t *testing.T, accessCode string) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := miniredis.RunT(t)
	manager, err := db.NewManager("redis://"+s.Addr(), true)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	t.Cleanup(func() { manager.Close() })

	cfg := &config.Config{
		AccessCode:    accessCode,
		APIRateWindow: time.Minute,
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, manager, cfg, "test")
	return r, s
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthOpenAccess(t *testing.T) {
	r, _ := setupAPI(t, "")

	w := doJSON(t, r, http.MethodPost, "/auth", `{"password":""}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["success"] != true {
		t.Errorf("body = %v, want success true", resp)
	}
}

func TestAuthMismatch(t *testing.T) {
	r, _ := setupAPI(t, "hunter2")

	w := doJSON(t, r, http.MethodPost, "/auth", `{"password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/auth", `{"password":"hunter2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestCreateAndList(t *testing.T) {
	r, _ := setupAPI(t, "")

	w := doJSON(t, r, http.MethodPost, "/todos",
		`{"title":"A","content":"B","deadline":"2025-01-01T00:00:00Z","completed":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}

	var created domain.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("create returned empty id")
	}
	if created.CreatedAt != created.ID {
		t.Errorf("created_at = %q, want %q", created.CreatedAt, created.ID)
	}

	w = doJSON(t, r, http.MethodGet, "/todos", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}

	var todos []domain.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &todos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(todos) != 1 || todos[0] != created {
		t.Errorf("list = %+v, want [%+v]", todos, created)
	}
}

func TestCreateValidation(t *testing.T) {
	r, _ := setupAPI(t, "")

	// title is required at creation
	w := doJSON(t, r, http.MethodPost, "/todos", `{"content":"B","deadline":"d"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUpdateMergeOverHTTP(t *testing.T) {
	r, _ := setupAPI(t, "")

	w := doJSON(t, r, http.MethodPost, "/todos",
		`{"title":"A","content":"B","deadline":"2025-01-01T00:00:00Z"}`)
	var created domain.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}

	w = doJSON(t, r, http.MethodPut, "/todos", `{"id":"`+created.ID+`","completed":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", w.Code, w.Body.String())
	}

	var updated domain.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if !updated.Completed {
		t.Error("completed not set")
	}
	if updated.Title != "A" || updated.CreatedAt != created.CreatedAt {
		t.Errorf("merge clobbered fields: %+v", updated)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	r, _ := setupAPI(t, "")

	w := doJSON(t, r, http.MethodPut, "/todos", `{"id":"12345","completed":true}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestUpdateMissingID(t *testing.T) {
	r, _ := setupAPI(t, "")

	w := doJSON(t, r, http.MethodPut, "/todos", `{"completed":true}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestDeleteFlow(t *testing.T) {
	r, _ := setupAPI(t, "")

	// deleting an unknown id succeeds
	w := doJSON(t, r, http.MethodDelete, "/todos", `{"id":"nope"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("delete of absent id: status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/todos", `{"title":"A","content":"B","deadline":"d"}`)
	var created domain.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}

	w = doJSON(t, r, http.MethodDelete, "/todos", `{"id":"`+created.ID+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/todos", "")
	var todos []domain.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &todos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("deleted todo still listed: %+v", todos)
	}
}

func TestCorruptRecordDoesNotBreakList(t *testing.T) {
	r, s := setupAPI(t, "")

	doJSON(t, r, http.MethodPost, "/todos", `{"title":"good","content":"x","deadline":"d"}`)
	s.Set("hebeos:notes:9999999", "{broken")

	w := doJSON(t, r, http.MethodGet, "/todos", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}

	var todos []domain.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &todos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(todos) != 1 {
		t.Errorf("list = %+v, want the one valid todo", todos)
	}
}

func TestLegacyAPIPrefix(t *testing.T) {
	r, _ := setupAPI(t, "")

	w := doJSON(t, r, http.MethodGet, "/api/todos", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
