package leave

import (
	"context"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
)

type LeaveService interface {
	ListTypes(ctx context.Context) []TypeResponse
	Create(ctx context.Context, actor user.Principal, req CreateLeaveRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, actor user.Principal, id string) (LeaveRequestResponse, error)
	Decide(ctx context.Context, actor user.Principal, id string, decision Decision, req DecideRequest) (LeaveRequestResponse, error)
	// Summary reports the actor's balances for year; zero means the current year.
	Summary(ctx context.Context, actor user.Principal, year int) (SummaryResponse, error)
	TeamQueue(ctx context.Context, actor user.Principal) ([]TeamLeaveResponse, error)
}
