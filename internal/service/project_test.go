package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rmoretto/taskboard/internal/domain"
	"github.com/rmoretto/taskboard/internal/repository/sqlite"
	"github.com/rmoretto/taskboard/internal/service"
)

func newTestProjectService(t *testing.T) (*service.ProjectService, *sqlite.DB, int64) {
	t.Helper()
	db := newTestDB(t)
	userID := seedUserForTest(t, db, "projects@example.com")
	return service.NewProjectService(db), db, userID
}

func TestProjectService_Create_Success(t *testing.T) {
	svc, _, userID := newTestProjectService(t)
	ctx := context.Background()

	project, err := svc.Create(ctx, userID, "Launch", "Q3 launch work")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if project.ID == 0 {
		t.Fatal("expected project ID to be set")
	}

	projects, err := svc.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "Launch" {
		t.Fatalf("unexpected project list %+v", projects)
	}
}

func TestProjectService_Create_EmptyName(t *testing.T) {
	svc, _, userID := newTestProjectService(t)

	_, err := svc.Create(context.Background(), userID, "  ", "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProjectService_Create_MissingOwner(t *testing.T) {
	svc, _, _ := newTestProjectService(t)

	_, err := svc.Create(context.Background(), 9999, "Orphan", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing owner, got %v", err)
	}
}

func TestProjectService_Update(t *testing.T) {
	svc, _, userID := newTestProjectService(t)
	ctx := context.Background()

	project, err := svc.Create(ctx, userID, "Before", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Update(ctx, project.ID, "After", "renamed"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := svc.GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "After" || got.Description != "renamed" {
		t.Fatalf("unexpected project after update: %+v", got)
	}
}

func TestProjectService_Delete_RejectsPendingTasks(t *testing.T) {
	svc, db, userID := newTestProjectService(t)
	ctx := context.Background()

	project, err := svc.Create(ctx, userID, "Busy", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tasks := service.NewTaskService(db)
	task, err := tasks.Create(ctx, project.ID, service.TaskInput{
		ResponsibleUserID: userID,
		Title:             "Unfinished",
		Status:            "pending",
		Priority:          "low",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	err = svc.Delete(ctx, project.ID)
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation while tasks are pending, got %v", err)
	}

	// Completing the task unblocks the delete.
	err = tasks.Update(ctx, task.ID, userID, service.TaskUpdate{
		Title:    task.Title,
		Status:   "completed",
		Priority: "low",
	})
	if err != nil {
		t.Fatalf("complete task: %v", err)
	}

	if err := svc.Delete(ctx, project.ID); err != nil {
		t.Fatalf("Delete after completion: %v", err)
	}

	// The project takes its tasks and their history with it.
	if n := countRows(t, db, "tasks"); n != 0 {
		t.Fatalf("expected tasks cascade, got %d rows", n)
	}
	if n := countRows(t, db, "task_history"); n != 0 {
		t.Fatalf("expected history cascade, got %d rows", n)
	}
}

func TestProjectService_Delete_NotFound(t *testing.T) {
	svc, _, _ := newTestProjectService(t)

	err := svc.Delete(context.Background(), 9999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProjectService_Delete_InProgressTasksAllowed(t *testing.T) {
	svc, db, userID := newTestProjectService(t)
	ctx := context.Background()

	project, err := svc.Create(ctx, userID, "Rolling", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Only pending tasks block deletion.
	tasks := service.NewTaskService(db)
	_, err = tasks.Create(ctx, project.ID, service.TaskInput{
		ResponsibleUserID: userID,
		Title:             "Underway",
		Status:            "in-progress",
		Priority:          "medium",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := svc.Delete(ctx, project.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
