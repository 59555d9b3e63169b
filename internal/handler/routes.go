package handler

import (
	"net/http"

	"github.com/rmoretto/taskboard/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	users *service.UserService,
	projects *service.ProjectService,
	tasks *service.TaskService,
	reports *service.ReportService,
) {
	authHandler := NewAuthHandler(auth)
	userHandler := NewUserHandler(users)
	projectHandler := NewProjectHandler(projects)
	taskHandler := NewTaskHandler(tasks)
	reportHandler := NewReportHandler(reports)

	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/recover", authHandler.HandleRecover)
	mux.HandleFunc("POST /api/auth/reset-password", authHandler.HandleResetPassword)
	mux.Handle("POST /api/auth/change-password", protected(authHandler.HandleChangePassword))

	mux.Handle("GET /api/users/me", protected(userHandler.HandleMe))
	mux.Handle("GET /api/users/{id}", protected(userHandler.HandleGet))
	mux.Handle("PUT /api/users/{id}", protected(userHandler.HandleUpdate))
	mux.Handle("DELETE /api/users/{id}", protected(userHandler.HandleDelete))

	mux.Handle("GET /api/projects", protected(projectHandler.HandleList))
	mux.Handle("POST /api/projects", protected(projectHandler.HandleCreate))
	mux.Handle("GET /api/projects/{id}", protected(projectHandler.HandleGet))
	mux.Handle("PUT /api/projects/{id}", protected(projectHandler.HandleUpdate))
	mux.Handle("DELETE /api/projects/{id}", protected(projectHandler.HandleDelete))

	mux.Handle("GET /api/projects/{projectId}/tasks", protected(taskHandler.HandleListByProject))
	mux.Handle("POST /api/projects/{projectId}/tasks", protected(taskHandler.HandleCreate))
	mux.Handle("GET /api/tasks/{id}", protected(taskHandler.HandleGet))
	mux.Handle("PUT /api/tasks/{id}", protected(taskHandler.HandleUpdate))
	mux.Handle("DELETE /api/tasks/{id}", protected(taskHandler.HandleDelete))
	mux.Handle("GET /api/tasks/{id}/history", protected(taskHandler.HandleHistory))
	mux.Handle("POST /api/tasks/{id}/comments", protected(taskHandler.HandleAddComment))

	mux.Handle("GET /api/reports/completed-per-day", protected(reportHandler.HandleCompletedPerDay))
}
