package leave

import "context"

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter Filter) ([]LeaveRequest, error)
	// ListForManager returns requests stored against managerID or filed by any
	// of reportIDs, newest first, without duplicates.
	ListForManager(ctx context.Context, managerID string, reportIDs []string) ([]LeaveRequest, error)
	// ApplyTransition writes only if the stored status equals t.From and
	// returns the record as stored afterwards.
	ApplyTransition(ctx context.Context, t Transition) (LeaveRequest, bool, error)
}
