package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rmoretto/taskboard/internal/handler"
	"github.com/rmoretto/taskboard/internal/repository/sqlite"
	"github.com/rmoretto/taskboard/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	auth := service.NewAuthService(db, "test-secret-key-for-unit-tests", 4)
	users := service.NewUserService(db)
	projects := service.NewProjectService(db)
	tasks := service.NewTaskService(db)
	reports := service.NewReportService(db)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, users, projects, tasks, reports)

	srv := httptest.NewServer(handler.SecurityHeaders(mux))
	t.Cleanup(srv.Close)
	return srv
}

// doJSON issues a request with an optional bearer token and JSON body, and
// decodes the JSON response into out when out is non-nil.
func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body, out any) int {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, srv.URL+path, reqBody)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response of %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

// registerAndLogin creates an account and returns its user ID and token.
func registerAndLogin(t *testing.T, srv *httptest.Server, email, role string) (int64, string) {
	t.Helper()

	var user struct {
		ID int64 `json:"id"`
	}
	status := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Test User", "email": email, "password": "password123", "role": role,
	}, &user)
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}

	var login struct {
		Token string `json:"token"`
	}
	status = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": "password123",
	}, &login)
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", status)
	}
	return user.ID, login.Token
}

func TestAPI_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	status := doJSON(t, srv, http.MethodGet, "/api/projects", "", nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	status = doJSON(t, srv, http.MethodGet, "/api/projects", "bogus-token", nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", status)
	}
}

func TestAPI_TaskLifecycle(t *testing.T) {
	srv := newTestServer(t)
	userID, token := registerAndLogin(t, srv, "lifecycle@example.com", "")

	// Create a project.
	var project struct {
		ID int64 `json:"id"`
	}
	status := doJSON(t, srv, http.MethodPost, "/api/projects", token, map[string]string{
		"name": "API Project",
	}, &project)
	if status != http.StatusCreated {
		t.Fatalf("create project: expected 201, got %d", status)
	}

	// Create a task under it.
	var task struct {
		ID       int64  `json:"id"`
		Status   string `json:"status"`
		Priority string `json:"priority"`
	}
	status = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", project.ID), token, map[string]any{
		"responsibleUserId": userID,
		"title":             "Ship it",
		"status":            "Pending",
		"priority":          "High",
	}, &task)
	if status != http.StatusCreated {
		t.Fatalf("create task: expected 201, got %d", status)
	}
	if task.Status != "pending" || task.Priority != "high" {
		t.Fatalf("expected normalized enums, got %+v", task)
	}

	// Update the status, restating the priority.
	status = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), token, map[string]any{
		"title":    "Ship it",
		"status":   "completed",
		"priority": "high",
	}, nil)
	if status != http.StatusNoContent {
		t.Fatalf("update task: expected 204, got %d", status)
	}

	// The change shows up in the history, attributed to the caller.
	var history []struct {
		UserID      int64  `json:"userId"`
		Description string `json:"description"`
	}
	status = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/tasks/%d/history", task.ID), token, nil, &history)
	if status != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", status)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	if history[0].Description != "Status changed from 'pending' to 'completed'" {
		t.Fatalf("unexpected history entry %q", history[0].Description)
	}
	if history[0].UserID != userID {
		t.Fatalf("expected entry attributed to user %d, got %d", userID, history[0].UserID)
	}

	// With no pending tasks left, the project can go.
	status = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/projects/%d", project.ID), token, nil, nil)
	if status != http.StatusNoContent {
		t.Fatalf("delete project: expected 204, got %d", status)
	}
}

func TestAPI_PriorityChangeRejected(t *testing.T) {
	srv := newTestServer(t)
	userID, token := registerAndLogin(t, srv, "priority@example.com", "")

	var project struct {
		ID int64 `json:"id"`
	}
	doJSON(t, srv, http.MethodPost, "/api/projects", token, map[string]string{"name": "P"}, &project)

	var task struct {
		ID int64 `json:"id"`
	}
	doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", project.ID), token, map[string]any{
		"responsibleUserId": userID,
		"title":             "Stuck priority",
		"status":            "pending",
		"priority":          "low",
	}, &task)

	var errBody struct {
		Error string `json:"error"`
	}
	status := doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), token, map[string]any{
		"title":    "Stuck priority",
		"status":   "pending",
		"priority": "high",
	}, &errBody)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for priority change, got %d", status)
	}
	if errBody.Error == "" {
		t.Fatal("expected an error message")
	}
}

func TestAPI_ProjectDeleteBlockedByPendingTask(t *testing.T) {
	srv := newTestServer(t)
	userID, token := registerAndLogin(t, srv, "blocked@example.com", "")

	var project struct {
		ID int64 `json:"id"`
	}
	doJSON(t, srv, http.MethodPost, "/api/projects", token, map[string]string{"name": "Busy"}, &project)
	doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", project.ID), token, map[string]any{
		"responsibleUserId": userID,
		"title":             "Unfinished",
		"status":            "pending",
		"priority":          "low",
	}, nil)

	status := doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/projects/%d", project.ID), token, nil, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 while tasks are pending, got %d", status)
	}
}

func TestAPI_Comments(t *testing.T) {
	srv := newTestServer(t)
	userID, token := registerAndLogin(t, srv, "comments@example.com", "")

	var project struct {
		ID int64 `json:"id"`
	}
	doJSON(t, srv, http.MethodPost, "/api/projects", token, map[string]string{"name": "P"}, &project)

	var task struct {
		ID int64 `json:"id"`
	}
	doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", project.ID), token, map[string]any{
		"responsibleUserId": userID,
		"title":             "Discussable",
		"status":            "pending",
		"priority":          "low",
	}, &task)

	status := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/tasks/%d/comments", task.ID), token, map[string]string{
		"comment": "needs review",
	}, nil)
	if status != http.StatusCreated {
		t.Fatalf("add comment: expected 201, got %d", status)
	}

	var history []struct {
		Description string `json:"description"`
	}
	doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/tasks/%d/history", task.ID), token, nil, &history)
	if len(history) != 1 || history[0].Description != "Comment added: needs review" {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestAPI_Reports(t *testing.T) {
	srv := newTestServer(t)
	_, memberToken := registerAndLogin(t, srv, "member@example.com", "")
	managerID, managerToken := registerAndLogin(t, srv, "manager@example.com", "manager")

	status := doJSON(t, srv, http.MethodGet, "/api/reports/completed-per-day", memberToken, nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for member, got %d", status)
	}

	var project struct {
		ID int64 `json:"id"`
	}
	doJSON(t, srv, http.MethodPost, "/api/projects", managerToken, map[string]string{"name": "Managed"}, &project)
	doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", project.ID), managerToken, map[string]any{
		"responsibleUserId": managerID,
		"title":             "Done",
		"status":            "completed",
		"priority":          "low",
	}, nil)

	var report struct {
		CompletedPerDay float64 `json:"completedPerDay"`
	}
	status = doJSON(t, srv, http.MethodGet, "/api/reports/completed-per-day", managerToken, nil, &report)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for manager, got %d", status)
	}
	if report.CompletedPerDay <= 0 {
		t.Fatalf("expected a positive average, got %f", report.CompletedPerDay)
	}
}

func TestAPI_PasswordChangeAndRecovery(t *testing.T) {
	srv := newTestServer(t)
	_, token := registerAndLogin(t, srv, "passwords@example.com", "")

	status := doJSON(t, srv, http.MethodPost, "/api/auth/change-password", token, map[string]string{
		"currentPassword": "password123",
		"newPassword":     "password456",
	}, nil)
	if status != http.StatusNoContent {
		t.Fatalf("change password: expected 204, got %d", status)
	}

	var recovery struct {
		RecoveryToken string `json:"recoveryToken"`
	}
	status = doJSON(t, srv, http.MethodPost, "/api/auth/recover", "", map[string]string{
		"email": "passwords@example.com",
	}, &recovery)
	if status != http.StatusOK {
		t.Fatalf("recover: expected 200, got %d", status)
	}

	status = doJSON(t, srv, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token":       recovery.RecoveryToken,
		"newPassword": "password789",
	}, nil)
	if status != http.StatusNoContent {
		t.Fatalf("reset password: expected 204, got %d", status)
	}

	var login struct {
		Token string `json:"token"`
	}
	status = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "passwords@example.com", "password": "password789",
	}, &login)
	if status != http.StatusOK || login.Token == "" {
		t.Fatalf("login after reset: expected 200 with token, got %d", status)
	}
}

func TestAPI_SecurityHeaders(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff header, got %q", got)
	}
	if got := resp.Header.Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("expected DENY frame options, got %q", got)
	}
}

func TestAPI_UsersMe(t *testing.T) {
	srv := newTestServer(t)
	userID, token := registerAndLogin(t, srv, "me@example.com", "")

	var me struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	status := doJSON(t, srv, http.MethodGet, "/api/users/me", token, nil, &me)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if me.ID != userID || me.Email != "me@example.com" {
		t.Fatalf("unexpected user %+v", me)
	}
}
