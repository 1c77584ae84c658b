package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/response"
)

// principal returns the caller or writes a 401 and reports false.
func principal(w http.ResponseWriter, r *http.Request) (user.Principal, bool) {
	p, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return nil, false
	}
	return p, true
}

// decode reads a JSON body into dst. An empty body leaves dst untouched when
// allowEmpty is set.
func decode(w http.ResponseWriter, r *http.Request, op string, dst interface{}, allowEmpty bool) bool {
	if allowEmpty && (r.Body == nil || r.ContentLength == 0) {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}
