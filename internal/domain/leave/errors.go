package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request is no longer pending")
	ErrUnauthorizedAccess           = errors.New("not allowed to act on this leave request")
	ErrUnknownLeaveType             = errors.New("unknown leave type")
	ErrInvalidDateRange             = errors.New("end date must not be before start date")
)
