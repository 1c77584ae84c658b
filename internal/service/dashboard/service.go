package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	users      user.UserRepository
	timesheets timesheet.TimesheetRepository
	requests   leave.LeaveRequestRepository
	now        func() time.Time
}

func NewDashboardService(users user.UserRepository, timesheets timesheet.TimesheetRepository, requests leave.LeaveRequestRepository) dashboard.DashboardService {
	return &DashboardServiceImpl{
		users:      users,
		timesheets: timesheets,
		requests:   requests,
		now:        time.Now,
	}
}

// TeamWeek loads the team's timesheets and leave requests in parallel.
func (s *DashboardServiceImpl) TeamWeek(ctx context.Context, actor user.Principal, weekStart string) (dashboard.TeamWeekResponse, error) {
	week := dashboard.CurrentWeek(s.now())
	if weekStart != "" {
		parsed, err := timesheet.ParseWeekStart(weekStart)
		if err != nil {
			return dashboard.TeamWeekResponse{}, err
		}
		week = parsed
	}

	members, err := user.Team(ctx, s.users, actor)
	if err != nil {
		return dashboard.TeamWeekResponse{}, err
	}
	ids := user.IDs(members)

	var (
		sheets   []timesheet.Timesheet
		requests []leave.LeaveRequest
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result, err := s.timesheets.List(gCtx, timesheet.Filter{UserIDs: ids, WeekStart: &week})
		if err != nil {
			return fmt.Errorf("failed to list team timesheets: %w", err)
		}
		sheets = result
		return nil
	})

	g.Go(func() error {
		result, err := s.requests.List(gCtx, leave.Filter{EmployeeIDs: ids})
		if err != nil {
			return fmt.Errorf("failed to list team leave requests: %w", err)
		}
		requests = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.TeamWeekResponse{}, err
	}

	return dashboard.ToResponse(dashboard.Summarize(members, sheets, requests, week)), nil
}
