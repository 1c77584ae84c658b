package leave

import (
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	Type   string `json:"type" validate:"required"`
	From   string `json:"from" validate:"required,datetime=2006-01-02"`
	To     string `json:"to" validate:"required,datetime=2006-01-02"`
	Reason string `json:"reason" validate:"max=1000"`
}

func (r *CreateLeaveRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Type != "" {
		if _, err := ParseType(r.Type); err != nil {
			errs.Add("type", "type must be one of: Casual, Sick, Paid Time Off, Comp Off")
		}
	}
	from, okFrom := validator.IsValidDate(r.From)
	to, okTo := validator.IsValidDate(r.To)
	if okFrom && okTo && to.Before(from) {
		errs.Add("to", "to must not be before from")
	}
	return errs.Err()
}

type DecideRequest struct {
	Note *string `json:"note,omitempty" validate:"omitempty,max=2000"`
}

func (r *DecideRequest) Validate() error {
	return validator.Struct(r).Err()
}

type TypeResponse struct {
	Type      string `json:"type"`
	Allowance int    `json:"allowance"`
}

type LeaveRequestResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	ManagerID   *string `json:"manager_id,omitempty"`
	Type        string  `json:"type"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	Days        int     `json:"days"`
	Reason      string  `json:"reason"`
	Status      string  `json:"status"`
	ManagerNote *string `json:"manager_note,omitempty"`
	DecidedAt   *string `json:"decided_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type TeamLeaveResponse struct {
	Employee user.Brief `json:"employee"`
	LeaveRequestResponse
}

type BalanceResponse struct {
	Type      string `json:"type"`
	Allowance int    `json:"allowance"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
}

type StatsResponse struct {
	Pending      int `json:"pending"`
	ApprovedDays int `json:"approved_days"`
	Upcoming     int `json:"upcoming"`
}

type SummaryResponse struct {
	Year      int                    `json:"year"`
	Balances  []BalanceResponse      `json:"balances"`
	Breakdown map[string]int         `json:"breakdown"`
	Stats     StatsResponse          `json:"stats"`
	Requests  []LeaveRequestResponse `json:"requests"`
}

func Types() []TypeResponse {
	out := make([]TypeResponse, 0, len(Catalog))
	for _, p := range Catalog {
		out = append(out, TypeResponse{Type: string(p.Type), Allowance: p.Allowance})
	}
	return out
}

func ToResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		ManagerID:   r.ManagerID,
		Type:        string(r.Type),
		From:        r.StartDate.UTC().Format(validator.DateLayout),
		To:          r.EndDate.UTC().Format(validator.DateLayout),
		Days:        r.Days,
		Reason:      r.Reason,
		Status:      string(r.Status),
		ManagerNote: r.ManagerNote,
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if r.DecidedAt != nil {
		decided := r.DecidedAt.UTC().Format(time.RFC3339)
		resp.DecidedAt = &decided
	}
	return resp
}

func ToResponses(requests []LeaveRequest) []LeaveRequestResponse {
	out := make([]LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, ToResponse(r))
	}
	return out
}

func ToSummaryResponse(s Summary) SummaryResponse {
	resp := SummaryResponse{
		Year:      s.Year,
		Balances:  make([]BalanceResponse, 0, len(s.Balances)),
		Breakdown: make(map[string]int, len(s.Breakdown)),
		Stats: StatsResponse{
			Pending:      s.PendingCount,
			ApprovedDays: s.ApprovedDays,
			Upcoming:     s.UpcomingCount,
		},
		Requests: ToResponses(s.Requests),
	}
	for _, b := range s.Balances {
		resp.Balances = append(resp.Balances, BalanceResponse{
			Type:      string(b.Type),
			Allowance: b.Allowance,
			Used:      b.Used,
			Remaining: b.Remaining,
		})
	}
	for st, n := range s.Breakdown {
		resp.Breakdown[string(st)] = n
	}
	return resp
}
