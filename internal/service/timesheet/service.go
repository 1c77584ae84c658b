package timesheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
)

type TimesheetServiceImpl struct {
	timesheets timesheet.TimesheetRepository
	users      user.UserRepository
	notifier   notification.Notifier
	now        func() time.Time
}

func NewTimesheetService(timesheets timesheet.TimesheetRepository, users user.UserRepository, notifier notification.Notifier) timesheet.TimesheetService {
	return &TimesheetServiceImpl{
		timesheets: timesheets,
		users:      users,
		notifier:   notifier,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// GetWeek implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) GetWeek(ctx context.Context, actor user.Principal, weekStart string) (timesheet.TimesheetResponse, error) {
	week, err := timesheet.ParseWeekStart(weekStart)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	t, err := s.timesheets.GetByUserWeek(ctx, actor.ID(), week)
	if errors.Is(err, timesheet.ErrTimesheetNotFound) {
		return timesheet.EmptyWeek(actor.ID(), week), nil
	}
	if err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("failed to get timesheet: %w", err)
	}
	return timesheet.ToResponse(t), nil
}

// SaveWeek implements timesheet.TimesheetService. Rows are normalized before
// the write and the status read happens inside the repository's atomic upsert.
func (s *TimesheetServiceImpl) SaveWeek(ctx context.Context, actor user.Principal, req timesheet.SaveWeekRequest) (timesheet.SaveWeekResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.SaveWeekResponse{}, err
	}
	week, err := timesheet.ParseWeekStart(req.WeekStart)
	if err != nil {
		return timesheet.SaveWeekResponse{}, err
	}
	rows, err := timesheet.NormalizeRows(req.Rows)
	if err != nil {
		return timesheet.SaveWeekResponse{}, err
	}

	saved, outcome, err := s.timesheets.UpsertWeek(ctx, timesheet.WeekWrite{
		UserID:    actor.ID(),
		WeekStart: week,
		Rows:      rows,
		Submit:    req.Submit,
		At:        s.now(),
	})
	if err != nil {
		return timesheet.SaveWeekResponse{}, err
	}

	if req.Submit {
		s.notifySubmitted(ctx, saved)
	}

	return timesheet.SaveWeekResponse{Outcome: string(outcome), Timesheet: timesheet.ToResponse(saved)}, nil
}

// ListMine implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) ListMine(ctx context.Context, actor user.Principal) ([]timesheet.TimesheetResponse, error) {
	sheets, err := s.timesheets.List(ctx, timesheet.Filter{UserIDs: []string{actor.ID()}})
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}
	out := make([]timesheet.TimesheetResponse, 0, len(sheets))
	for _, t := range sheets {
		out = append(out, timesheet.ToResponse(t))
	}
	return out, nil
}

// ListTeam implements timesheet.TimesheetService. Managers see their current
// direct reports; admins see everyone.
func (s *TimesheetServiceImpl) ListTeam(ctx context.Context, actor user.Principal, req timesheet.ListTeamRequest) ([]timesheet.TeamTimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	members, err := s.scope(ctx, actor)
	if err != nil {
		return nil, err
	}

	filter := timesheet.Filter{}
	if _, ok := actor.(user.Manager); ok {
		filter.UserIDs = make([]string, 0, len(members))
		for id := range members {
			filter.UserIDs = append(filter.UserIDs, id)
		}
	}
	if req.WeekStart != "" {
		week, err := timesheet.ParseWeekStart(req.WeekStart)
		if err != nil {
			return nil, err
		}
		filter.WeekStart = &week
	}
	if req.Status != "" {
		status := timesheet.Status(req.Status)
		filter.Status = &status
	}

	sheets, err := s.timesheets.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list team timesheets: %w", err)
	}

	out := make([]timesheet.TeamTimesheetResponse, 0, len(sheets))
	for _, t := range sheets {
		owner, ok := members[t.UserID]
		if !ok {
			owner = user.User{ID: t.UserID}
		}
		out = append(out, timesheet.TeamTimesheetResponse{
			Employee:          user.BriefOf(owner),
			TimesheetResponse: timesheet.ToResponse(t),
		})
	}
	return out, nil
}

// scope returns the users whose records actor may review, keyed by ID.
func (s *TimesheetServiceImpl) scope(ctx context.Context, actor user.Principal) (map[string]user.User, error) {
	team, err := user.Team(ctx, s.users, actor)
	if err != nil {
		if errors.Is(err, user.ErrManagerAccessRequired) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to list team: %w", err)
	}
	members := make(map[string]user.User, len(team))
	for _, u := range team {
		members[u.ID] = u
	}
	return members, nil
}

// Review implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Review(ctx context.Context, actor user.Principal, id string, decision timesheet.Decision, req timesheet.ReviewRequest) (timesheet.TimesheetResponse, error) {
	if !decision.IsValid() {
		return timesheet.TimesheetResponse{}, timesheet.ErrInvalidStatusTransition
	}
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if _, ok := actor.(user.Employee); ok {
		return timesheet.TimesheetResponse{}, user.ErrForbidden
	}

	current, err := s.timesheets.GetByID(ctx, id)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	owner, err := s.users.GetByID(ctx, current.UserID)
	if err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("failed to get timesheet owner: %w", err)
	}

	switch a := actor.(type) {
	case user.Admin:
	case user.Manager:
		if !owner.ReportsTo(a.ID()) {
			return timesheet.TimesheetResponse{}, timesheet.ErrNotTeamMember
		}
	default:
		return timesheet.TimesheetResponse{}, user.ErrForbidden
	}

	if !decision.CanApply(current.Status) {
		return timesheet.ToResponse(current), timesheet.ErrInvalidStatusTransition
	}

	reviewed, applied, err := s.timesheets.ApplyReview(ctx, timesheet.Review{
		TimesheetID: id,
		Decision:    decision,
		ReviewerID:  actor.ID(),
		Comments:    req.Comments,
		At:          s.now(),
	}, decision.AllowedFrom())
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if !applied {
		return timesheet.ToResponse(reviewed), timesheet.ErrInvalidStatusTransition
	}

	slog.Info("Timesheet reviewed", "timesheet_id", id, "status", reviewed.Status, "by", actor.ID())
	s.notifier.Send(ctx, notification.TimesheetReviewed(owner.Name, owner.Email, reviewed.WeekStart, string(reviewed.Status), reviewed.Comments))

	return timesheet.ToResponse(reviewed), nil
}

func (s *TimesheetServiceImpl) notifySubmitted(ctx context.Context, t timesheet.Timesheet) {
	owner, err := s.users.GetByID(ctx, t.UserID)
	if err != nil {
		slog.Warn("Failed to load timesheet owner for notification", "user_id", t.UserID, "error", err)
		return
	}
	if owner.ManagerID == nil {
		return
	}
	mgr, err := s.users.GetByID(ctx, *owner.ManagerID)
	if err != nil {
		slog.Warn("Failed to load manager for notification", "manager_id", *owner.ManagerID, "error", err)
		return
	}
	s.notifier.Send(ctx, notification.TimesheetSubmitted(mgr.Name, mgr.Email, owner.Name, t.WeekStart, t.TotalHours()))
}
