package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const timesheetColumns = `id, user_id, week_start, entries, status, submitted_at, reviewed_at, reviewed_by, comments, created_at, updated_at`

type timesheetRepositoryImpl struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepositoryImpl{db: db}
}

func scanTimesheet(row pgx.Row, extra ...interface{}) (timesheet.Timesheet, error) {
	var t timesheet.Timesheet
	var entries []byte
	dest := []interface{}{
		&t.ID,
		&t.UserID,
		&t.WeekStart,
		&entries,
		&t.Status,
		&t.SubmittedAt,
		&t.ReviewedAt,
		&t.ReviewedBy,
		&t.Comments,
		&t.CreatedAt,
		&t.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return timesheet.Timesheet{}, err
	}
	if err := json.Unmarshal(entries, &t.Rows); err != nil {
		return timesheet.Timesheet{}, fmt.Errorf("decode timesheet rows: %w", err)
	}
	t.WeekStart = t.WeekStart.UTC()
	return t, nil
}

// UpsertWeek implements timesheet.TimesheetRepository. The conflict branch
// only fires for unlocked records, so a locked week yields no row.
func (r *timesheetRepositoryImpl) UpsertWeek(ctx context.Context, w timesheet.WeekWrite) (timesheet.Timesheet, timesheet.UpsertOutcome, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return timesheet.Timesheet{}, "", fmt.Errorf("generate timesheet id: %w", err)
	}
	entries, err := json.Marshal(w.Rows)
	if err != nil {
		return timesheet.Timesheet{}, "", fmt.Errorf("encode timesheet rows: %w", err)
	}

	query := `
		INSERT INTO timesheets (id, user_id, week_start, entries, status, submitted_at, created_at, updated_at)
		VALUES (
			$1, $2, $3, $4,
			CASE WHEN $5::boolean THEN 'submitted' ELSE 'draft' END,
			CASE WHEN $5::boolean THEN $6::timestamptz END,
			$6, $6
		)
		ON CONFLICT (user_id, week_start) DO UPDATE SET
			entries      = EXCLUDED.entries,
			status       = CASE WHEN $5::boolean THEN 'submitted' ELSE timesheets.status END,
			submitted_at = CASE WHEN $5::boolean THEN $6::timestamptz ELSE timesheets.submitted_at END,
			updated_at   = $6
		WHERE timesheets.status NOT IN ('approved', 'rejected')
		RETURNING ` + timesheetColumns + `, (xmax = 0) AS inserted`

	var inserted bool
	t, err := scanTimesheet(q.QueryRow(ctx, query, id.String(), w.UserID, w.WeekStart, entries, w.Submit, w.At), &inserted)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return timesheet.Timesheet{}, "", timesheet.ErrTimesheetLocked
	case isUniqueViolation(err):
		return timesheet.Timesheet{}, "", timesheet.ErrConcurrentUpdate
	case err != nil:
		return timesheet.Timesheet{}, "", err
	}

	if inserted {
		return t, timesheet.OutcomeCreated, nil
	}
	return t, timesheet.OutcomeUpdated, nil
}

// GetByUserWeek implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) GetByUserWeek(ctx context.Context, userID string, weekStart time.Time) (timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + timesheetColumns + ` FROM timesheets WHERE user_id = $1 AND week_start = $2`
	t, err := scanTimesheet(q.QueryRow(ctx, query, userID, weekStart))
	if errors.Is(err, pgx.ErrNoRows) {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	return t, err
}

// GetByID implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) GetByID(ctx context.Context, id string) (timesheet.Timesheet, error) {
	id, ok := parseID(id)
	if !ok {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + timesheetColumns + ` FROM timesheets WHERE id = $1`
	t, err := scanTimesheet(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	return t, err
}

// List implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) List(ctx context.Context, filter timesheet.Filter) ([]timesheet.Timesheet, error) {
	if filter.UserIDs != nil && len(filter.UserIDs) == 0 {
		return []timesheet.Timesheet{}, nil
	}
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	if filter.UserIDs != nil {
		args = append(args, filter.UserIDs)
		conditions = append(conditions, fmt.Sprintf("user_id = ANY($%d::uuid[])", len(args)))
	}
	if filter.WeekStart != nil {
		args = append(args, *filter.WeekStart)
		conditions = append(conditions, fmt.Sprintf("week_start = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + timesheetColumns + ` FROM timesheets`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY week_start DESC, user_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []timesheet.Timesheet{}
	for rows.Next() {
		t, err := scanTimesheet(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// ApplyReview implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) ApplyReview(ctx context.Context, review timesheet.Review, allowedFrom []timesheet.Status) (timesheet.Timesheet, bool, error) {
	id, ok := parseID(review.TimesheetID)
	if !ok {
		return timesheet.Timesheet{}, false, timesheet.ErrTimesheetNotFound
	}
	review.TimesheetID = id
	q := GetQuerier(ctx, r.db)

	from := make([]string, 0, len(allowedFrom))
	for _, s := range allowedFrom {
		from = append(from, string(s))
	}

	query := `
		UPDATE timesheets
		SET status = $2, reviewed_at = $3, reviewed_by = $4, comments = $5, updated_at = $3
		WHERE id = $1 AND status = ANY($6::text[])
		RETURNING ` + timesheetColumns

	t, err := scanTimesheet(q.QueryRow(ctx, query,
		review.TimesheetID,
		string(review.Decision.Target()),
		review.At,
		review.ReviewerID,
		review.Comments,
		from,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		current, getErr := r.GetByID(ctx, review.TimesheetID)
		if getErr != nil {
			return timesheet.Timesheet{}, false, getErr
		}
		return current, false, nil
	}
	if err != nil {
		return timesheet.Timesheet{}, false, err
	}
	return t, true, nil
}
