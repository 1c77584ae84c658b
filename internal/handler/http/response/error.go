package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrRefreshTokenCookieNotFound), errors.Is(err, auth.ErrRefreshTokenCookieEmpty):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrIncorrectPassword):
		ValidationError(w, map[string]string{"old_password": err.Error()})

	// User domain errors
	case errors.Is(err, user.ErrInvalidSession):
		Unauthorized(w, "Invalid session")
	case errors.Is(err, user.ErrPasswordResetRequired):
		Forbidden(w, "Password change required before continuing")
	case errors.Is(err, user.ErrForbidden),
		errors.Is(err, user.ErrAdminAccessRequired),
		errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrManagerRoleRequired):
		ValidationError(w, map[string]string{"manager_id": err.Error()})
	case errors.Is(err, user.ErrSelfManagement):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrManagerHasReports):
		conflict(w, "MANAGER_HAS_REPORTS", err.Error())

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrTimesheetNotFound):
		NotFound(w, "Timesheet not found")
	case errors.Is(err, timesheet.ErrNotTeamMember):
		Forbidden(w, err.Error())
	case errors.Is(err, timesheet.ErrTimesheetLocked):
		conflict(w, "TIMESHEET_LOCKED", err.Error())
	case errors.Is(err, timesheet.ErrInvalidStatusTransition):
		conflict(w, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, timesheet.ErrConcurrentUpdate):
		conflict(w, "CONCURRENT_UPDATE", err.Error())

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrUnauthorizedAccess):
		Forbidden(w, err.Error())
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		conflict(w, "LEAVE_ALREADY_PROCESSED", "Leave request already processed")
	case errors.Is(err, leave.ErrUnknownLeaveType):
		ValidationError(w, map[string]string{"type": err.Error()})
	case errors.Is(err, leave.ErrInvalidDateRange):
		ValidationError(w, map[string]string{"to": err.Error()})

	// Report errors
	case errors.Is(err, report.ErrNothingToExport):
		NotFound(w, err.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
