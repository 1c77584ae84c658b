package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `id, employee_id, manager_id, leave_type, start_date, end_date, days, reason, status, manager_note, decided_at, created_at, updated_at`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID,
		&lr.EmployeeID,
		&lr.ManagerID,
		&lr.Type,
		&lr.StartDate,
		&lr.EndDate,
		&lr.Days,
		&lr.Reason,
		&lr.Status,
		&lr.ManagerNote,
		&lr.DecidedAt,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	lr.StartDate = lr.StartDate.UTC()
	lr.EndDate = lr.EndDate.UTC()
	return lr, nil
}

func collectLeaveRequests(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	defer rows.Close()
	requests := []leave.LeaveRequest{}
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("generate leave request id: %w", err)
	}

	query := `
		INSERT INTO leave_requests (id, employee_id, manager_id, leave_type, start_date, end_date, days, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING ` + leaveRequestColumns

	return scanLeaveRequest(q.QueryRow(ctx, query,
		id.String(),
		req.EmployeeID,
		req.ManagerID,
		string(req.Type),
		req.StartDate,
		req.EndDate,
		req.Days,
		req.Reason,
		string(req.Status),
		req.CreatedAt,
	))
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	id, ok := parseID(id)
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`
	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return lr, err
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.Filter) ([]leave.LeaveRequest, error) {
	if filter.EmployeeIDs != nil && len(filter.EmployeeIDs) == 0 {
		return []leave.LeaveRequest{}, nil
	}
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	if filter.EmployeeIDs != nil {
		args = append(args, filter.EmployeeIDs)
		conditions = append(conditions, fmt.Sprintf("employee_id = ANY($%d::uuid[])", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectLeaveRequests(rows)
}

// ListForManager implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListForManager(ctx context.Context, managerID string, reportIDs []string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if reportIDs == nil {
		reportIDs = []string{}
	}
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE manager_id = $1 OR employee_id = ANY($2::uuid[])
		ORDER BY created_at DESC, id DESC
	`
	rows, err := q.Query(ctx, query, managerID, reportIDs)
	if err != nil {
		return nil, err
	}
	return collectLeaveRequests(rows)
}

// ApplyTransition implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ApplyTransition(ctx context.Context, t leave.Transition) (leave.LeaveRequest, bool, error) {
	id, ok := parseID(t.RequestID)
	if !ok {
		return leave.LeaveRequest{}, false, leave.ErrLeaveRequestNotFound
	}
	t.RequestID = id
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2,
			manager_id = COALESCE($3::uuid, manager_id),
			manager_note = $4,
			decided_at = $5,
			updated_at = $5
		WHERE id = $1 AND status = $6
		RETURNING ` + leaveRequestColumns

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query,
		t.RequestID,
		string(t.To),
		t.ManagerID,
		t.ManagerNote,
		t.At,
		string(t.From),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		current, getErr := r.GetByID(ctx, t.RequestID)
		if getErr != nil {
			return leave.LeaveRequest{}, false, getErr
		}
		return current, false, nil
	}
	if err != nil {
		return leave.LeaveRequest{}, false, err
	}
	return lr, true, nil
}
