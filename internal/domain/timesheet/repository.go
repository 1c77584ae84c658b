package timesheet

import (
	"context"
	"time"
)

type TimesheetRepository interface {
	// UpsertWeek writes the owner's rows for a week in one atomic store
	// operation, computing the next status from the stored one. It fails with
	// ErrTimesheetLocked when the stored record is approved or rejected.
	UpsertWeek(ctx context.Context, w WeekWrite) (Timesheet, UpsertOutcome, error)
	GetByUserWeek(ctx context.Context, userID string, weekStart time.Time) (Timesheet, error)
	GetByID(ctx context.Context, id string) (Timesheet, error)
	List(ctx context.Context, filter Filter) ([]Timesheet, error)
	// ApplyReview sets the decision only if the current status is in allowedFrom.
	// It returns the record as stored afterwards and whether the write happened.
	ApplyReview(ctx context.Context, review Review, allowedFrom []Status) (Timesheet, bool, error)
}
