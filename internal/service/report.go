package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rmoretto/taskboard/internal/domain"
)

const reportWindowDays = 30

// ReportService computes aggregate task metrics. Reports are restricted to
// managers.
type ReportService struct {
	store domain.Store
}

// NewReportService creates a new ReportService.
func NewReportService(store domain.Store) *ReportService {
	return &ReportService{store: store}
}

// CompletedPerDay returns the average number of tasks completed per day over
// the last 30 days. The acting user must exist and hold the manager role.
func (s *ReportService) CompletedPerDay(ctx context.Context, actingUserID int64) (float64, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.Users().GetByID(ctx, actingUserID)
	if err != nil {
		return 0, fmt.Errorf("get user: %w", err)
	}
	if user.Role != domain.RoleManager {
		return 0, fmt.Errorf("%w: reports are restricted to managers", domain.ErrUnauthorized)
	}

	since := time.Now().UTC().AddDate(0, 0, -reportWindowDays)
	count, err := uow.Tasks().CountCompletedSince(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("count completed tasks: %w", err)
	}

	return float64(count) / reportWindowDays, nil
}
