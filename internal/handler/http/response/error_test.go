package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "week_start", Message: "bad"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"unknown leave type", leave.ErrUnknownLeaveType, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", user.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"not team member", timesheet.ErrNotTeamMember, http.StatusForbidden, "FORBIDDEN"},
		{"leave unauthorized", leave.ErrUnauthorizedAccess, http.StatusForbidden, "FORBIDDEN"},
		{"timesheet missing", timesheet.ErrTimesheetNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped user missing", fmt.Errorf("load: %w", user.ErrUserNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"nothing to export", report.ErrNothingToExport, http.StatusNotFound, "NOT_FOUND"},
		{"concurrent", timesheet.ErrConcurrentUpdate, http.StatusConflict, "CONCURRENT_UPDATE"},
		{"locked", timesheet.ErrTimesheetLocked, http.StatusConflict, "TIMESHEET_LOCKED"},
		{"transition", timesheet.ErrInvalidStatusTransition, http.StatusConflict, "INVALID_STATUS_TRANSITION"},
		{"processed", leave.ErrLeaveRequestAlreadyProcessed, http.StatusConflict, "LEAVE_ALREADY_PROCESSED"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestConflictWithData(t *testing.T) {
	w := httptest.NewRecorder()
	ConflictWithData(w, "INVALID_STATUS_TRANSITION", "no", map[string]string{"status": "approved"})

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "approved", resp.Data["status"])
}
