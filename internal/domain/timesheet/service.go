package timesheet

import (
	"context"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
)

type TimesheetService interface {
	GetWeek(ctx context.Context, actor user.Principal, weekStart string) (TimesheetResponse, error)
	SaveWeek(ctx context.Context, actor user.Principal, req SaveWeekRequest) (SaveWeekResponse, error)
	ListMine(ctx context.Context, actor user.Principal) ([]TimesheetResponse, error)
	ListTeam(ctx context.Context, actor user.Principal, req ListTeamRequest) ([]TeamTimesheetResponse, error)
	// Review applies a decision. When the status guard rejects it, the unchanged
	// record is returned together with ErrInvalidStatusTransition.
	Review(ctx context.Context, actor user.Principal, id string, decision Decision, req ReviewRequest) (TimesheetResponse, error)
}
