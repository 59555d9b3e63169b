package service_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rmoretto/taskboard/internal/domain"
	"github.com/rmoretto/taskboard/internal/repository/sqlite"
	"github.com/rmoretto/taskboard/internal/service"
)

func seedManagerForTest(t *testing.T, db *sqlite.DB, email string) int64 {
	t.Helper()
	ctx := context.Background()
	uow, err := db.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	u := &domain.User{Name: "Manager", Email: email, PasswordHash: "hash", Role: domain.RoleManager}
	if err := uow.Users().Add(ctx, u); err != nil {
		t.Fatalf("seed manager: %v", err)
	}
	if err := uow.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return u.ID
}

func TestReportService_CompletedPerDay_RequiresManager(t *testing.T) {
	db := newTestDB(t)
	memberID := seedUserForTest(t, db, "member@example.com")
	svc := service.NewReportService(db)

	_, err := svc.CompletedPerDay(context.Background(), memberID)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for member, got %v", err)
	}
}

func TestReportService_CompletedPerDay_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewReportService(db)

	_, err := svc.CompletedPerDay(context.Background(), 9999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReportService_CompletedPerDay_Average(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	managerID := seedManagerForTest(t, db, "manager@example.com")
	projectID := seedProjectForTest(t, db, managerID)

	tasks := service.NewTaskService(db)
	for i := 0; i < 3; i++ {
		_, err := tasks.Create(ctx, projectID, service.TaskInput{
			ResponsibleUserID: managerID,
			Title:             "Done",
			Status:            "completed",
			Priority:          "low",
		})
		if err != nil {
			t.Fatalf("create task: %v", err)
		}
	}
	// Pending tasks do not count.
	_, err := tasks.Create(ctx, projectID, service.TaskInput{
		ResponsibleUserID: managerID,
		Title:             "Not done",
		Status:            "pending",
		Priority:          "low",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	svc := service.NewReportService(db)
	average, err := svc.CompletedPerDay(ctx, managerID)
	if err != nil {
		t.Fatalf("CompletedPerDay: %v", err)
	}

	want := 3.0 / 30.0
	if math.Abs(average-want) > 1e-9 {
		t.Fatalf("expected average %f, got %f", want, average)
	}
}
