package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	requests leave.LeaveRequestRepository
	users    user.UserRepository
	notifier notification.Notifier
	now      func() time.Time
}

func NewLeaveService(requests leave.LeaveRequestRepository, users user.UserRepository, notifier notification.Notifier) leave.LeaveService {
	return &LeaveServiceImpl{
		requests: requests,
		users:    users,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListTypes implements leave.LeaveService.
func (s *LeaveServiceImpl) ListTypes(ctx context.Context) []leave.TypeResponse {
	return leave.Types()
}

// Create implements leave.LeaveService. The requester's current manager is
// recorded with the request.
func (s *LeaveServiceImpl) Create(ctx context.Context, actor user.Principal, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	leaveType, err := leave.ParseType(req.Type)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	from, _ := validator.IsValidDate(req.From)
	to, _ := validator.IsValidDate(req.To)
	days, err := leave.DaysBetween(from, to)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	requester, err := s.users.GetByID(ctx, actor.ID())
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get requester: %w", err)
	}

	created, err := s.requests.Create(ctx, leave.LeaveRequest{
		EmployeeID: requester.ID,
		ManagerID:  requester.ManagerID,
		Type:       leaveType,
		StartDate:  from,
		EndDate:    to,
		Days:       days,
		Reason:     req.Reason,
		Status:     leave.StatusPending,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	if requester.ManagerID != nil {
		mgr, err := s.users.GetByID(ctx, *requester.ManagerID)
		if err != nil {
			slog.Warn("Failed to load manager for notification", "manager_id", *requester.ManagerID, "error", err)
		} else {
			s.notifier.Send(ctx, notification.LeaveRequested(mgr.Name, mgr.Email, requester.Name, string(created.Type), created.StartDate, created.EndDate, created.Days, created.Reason))
		}
	}

	return leave.ToResponse(created), nil
}

// Cancel implements leave.LeaveService. Only the requester may cancel and only
// while the request is pending.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, actor user.Principal, id string) (leave.LeaveRequestResponse, error) {
	current, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if current.EmployeeID != actor.ID() {
		return leave.LeaveRequestResponse{}, leave.ErrUnauthorizedAccess
	}
	if current.Status != leave.StatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	cancelled, applied, err := s.requests.ApplyTransition(ctx, leave.Transition{
		RequestID: id,
		From:      leave.StatusPending,
		To:        leave.StatusCancelled,
		At:        s.now(),
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !applied {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	return leave.ToResponse(cancelled), nil
}

// Decide implements leave.LeaveService. A manager may decide requests stored
// against them or filed by a current direct report. The decider becomes the
// request's manager.
func (s *LeaveServiceImpl) Decide(ctx context.Context, actor user.Principal, id string, decision leave.Decision, req leave.DecideRequest) (leave.LeaveRequestResponse, error) {
	if decision != leave.DecisionApprove && decision != leave.DecisionReject {
		return leave.LeaveRequestResponse{}, validator.ValidationErrors{{Field: "decision", Message: "decision must be approve or reject"}}
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if _, ok := actor.(user.Employee); ok {
		return leave.LeaveRequestResponse{}, user.ErrForbidden
	}

	current, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	employee, err := s.users.GetByID(ctx, current.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if m, ok := actor.(user.Manager); ok {
		storedManager := current.ManagerID != nil && *current.ManagerID == m.ID()
		if !storedManager && !employee.ReportsTo(m.ID()) {
			return leave.LeaveRequestResponse{}, leave.ErrUnauthorizedAccess
		}
	}

	if current.Status != leave.StatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	reviewerID := actor.ID()
	decided, applied, err := s.requests.ApplyTransition(ctx, leave.Transition{
		RequestID:   id,
		From:        leave.StatusPending,
		To:          decision.Target(),
		ManagerID:   &reviewerID,
		ManagerNote: req.Note,
		At:          s.now(),
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !applied {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	slog.Info("Leave request decided", "leave_request_id", id, "status", decided.Status, "by", reviewerID)
	s.notifier.Send(ctx, notification.LeaveDecided(employee.Name, employee.Email, string(decided.Type), decided.StartDate, decided.EndDate, string(decided.Status), decided.ManagerNote))

	return leave.ToResponse(decided), nil
}

// Summary implements leave.LeaveService.
func (s *LeaveServiceImpl) Summary(ctx context.Context, actor user.Principal, year int) (leave.SummaryResponse, error) {
	now := s.now()
	if year == 0 {
		year = now.Year()
	}
	if year < 1970 || year > 9999 {
		return leave.SummaryResponse{}, validator.ValidationErrors{{Field: "year", Message: "year must be between 1970 and 9999"}}
	}

	requests, err := s.requests.List(ctx, leave.Filter{EmployeeIDs: []string{actor.ID()}})
	if err != nil {
		return leave.SummaryResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return leave.ToSummaryResponse(leave.Summarize(requests, year, now)), nil
}

// TeamQueue implements leave.LeaveService.
func (s *LeaveServiceImpl) TeamQueue(ctx context.Context, actor user.Principal) ([]leave.TeamLeaveResponse, error) {
	var (
		requests []leave.LeaveRequest
		known    = map[string]user.User{}
		err      error
	)

	switch a := actor.(type) {
	case user.Admin:
		all, err := s.users.List(ctx, user.Filter{})
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		for _, u := range all {
			known[u.ID] = u
		}
		requests, err = s.requests.List(ctx, leave.Filter{})
		if err != nil {
			return nil, fmt.Errorf("failed to list leave requests: %w", err)
		}
	case user.Manager:
		id := a.ID()
		reports, err := s.users.List(ctx, user.Filter{ManagerID: &id})
		if err != nil {
			return nil, fmt.Errorf("failed to list team: %w", err)
		}
		reportIDs := make([]string, 0, len(reports))
		for _, u := range reports {
			known[u.ID] = u
			reportIDs = append(reportIDs, u.ID)
		}
		requests, err = s.requests.ListForManager(ctx, id, reportIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to list leave requests: %w", err)
		}
	default:
		return nil, user.ErrManagerAccessRequired
	}

	out := make([]leave.TeamLeaveResponse, 0, len(requests))
	for _, r := range requests {
		employee, ok := known[r.EmployeeID]
		if !ok {
			employee, err = s.users.GetByID(ctx, r.EmployeeID)
			if errors.Is(err, user.ErrUserNotFound) {
				employee = user.User{ID: r.EmployeeID}
			} else if err != nil {
				return nil, fmt.Errorf("failed to get employee: %w", err)
			}
			known[r.EmployeeID] = employee
		}
		out = append(out, leave.TeamLeaveResponse{
			Employee:             user.BriefOf(employee),
			LeaveRequestResponse: leave.ToResponse(r),
		})
	}
	return out, nil
}
