package timesheet

import "errors"

var (
	ErrTimesheetNotFound       = errors.New("timesheet not found")
	ErrTimesheetLocked         = errors.New("timesheet has been reviewed and can no longer be edited")
	ErrInvalidStatusTransition = errors.New("timesheet status does not allow this decision")
	ErrConcurrentUpdate        = errors.New("timesheet was modified concurrently, retry the request")
	ErrNotTeamMember           = errors.New("timesheet owner is not a direct report of the reviewer")
)
