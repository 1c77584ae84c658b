package timesheet

import (
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
)

type SaveWeekRequest struct {
	WeekStart string     `json:"week_start" validate:"required,datetime=2006-01-02"`
	Rows      []RowInput `json:"rows" validate:"dive"`
	Submit    bool       `json:"submit"`
}

func (r *SaveWeekRequest) Validate() error {
	errs := validator.Struct(r)
	if len(r.Rows) > MaxRows {
		errs.Add("rows", "rows must not contain more than 5 items")
	}
	return errs.Err()
}

type ReviewRequest struct {
	Comments *string `json:"comments,omitempty" validate:"omitempty,max=2000"`
}

func (r *ReviewRequest) Validate() error {
	return validator.Struct(r).Err()
}

type ListTeamRequest struct {
	WeekStart string `json:"week_start" validate:"omitempty,datetime=2006-01-02"`
	Status    string `json:"status" validate:"omitempty,oneof=draft submitted approved rejected"`
}

func (r *ListTeamRequest) Validate() error {
	return validator.Struct(r).Err()
}

type RowResponse struct {
	Client   string `json:"client"`
	Project  string `json:"project"`
	Task     string `json:"task"`
	Activity string `json:"activity"`
	Hours    []int  `json:"hours"`
	Total    int    `json:"total"`
}

type TimesheetResponse struct {
	ID          string        `json:"id,omitempty"`
	UserID      string        `json:"user_id"`
	WeekStart   string        `json:"week_start"`
	Rows        []RowResponse `json:"rows"`
	Status      string        `json:"status"`
	TotalHours  int           `json:"total_hours"`
	SubmittedAt *string       `json:"submitted_at,omitempty"`
	ReviewedAt  *string       `json:"reviewed_at,omitempty"`
	ReviewedBy  *string       `json:"reviewed_by,omitempty"`
	Comments    *string       `json:"comments,omitempty"`
	CreatedAt   *string       `json:"created_at,omitempty"`
	UpdatedAt   *string       `json:"updated_at,omitempty"`
}

type SaveWeekResponse struct {
	Outcome   string            `json:"outcome"`
	Timesheet TimesheetResponse `json:"timesheet"`
}

type TeamTimesheetResponse struct {
	Employee user.Brief `json:"employee"`
	TimesheetResponse
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func ToResponse(t Timesheet) TimesheetResponse {
	rows := make([]RowResponse, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, RowResponse{
			Client:   r.Client,
			Project:  r.Project,
			Task:     r.Task,
			Activity: r.Activity,
			Hours:    r.Hours,
			Total:    r.Total(),
		})
	}
	return TimesheetResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		WeekStart:   FormatDate(t.WeekStart),
		Rows:        rows,
		Status:      string(t.Status),
		TotalHours:  t.TotalHours(),
		SubmittedAt: formatTime(t.SubmittedAt),
		ReviewedAt:  formatTime(t.ReviewedAt),
		ReviewedBy:  t.ReviewedBy,
		Comments:    t.Comments,
		CreatedAt:   formatTime(&t.CreatedAt),
		UpdatedAt:   formatTime(&t.UpdatedAt),
	}
}

// EmptyWeek is returned for a week the user has not saved yet.
func EmptyWeek(userID string, weekStart time.Time) TimesheetResponse {
	return TimesheetResponse{
		UserID:    userID,
		WeekStart: FormatDate(weekStart),
		Rows:      []RowResponse{},
		Status:    string(StatusNew),
	}
}
