package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TimesheetHandler interface {
	GetWeek(w http.ResponseWriter, r *http.Request)
	SaveWeek(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)

	ListTeam(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &timesheetHandlerImpl{timesheetService: timesheetService}
}

// GetWeek handles GET /timesheets/week?week_start=YYYY-MM-DD
func (h *timesheetHandlerImpl) GetWeek(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	result, err := h.timesheetService.GetWeek(r.Context(), actor, r.URL.Query().Get("week_start"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// SaveWeek handles PUT /timesheets/week. A first save answers 201.
func (h *timesheetHandlerImpl) SaveWeek(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	var req timesheet.SaveWeekRequest
	if !decode(w, r, "SaveWeek", &req, false) {
		return
	}

	result, err := h.timesheetService.SaveWeek(r.Context(), actor, req)
	if err != nil {
		slog.Error("SaveWeek service error", "error", err)
		response.HandleError(w, err)
		return
	}

	message := "Timesheet saved"
	if req.Submit {
		message = "Timesheet submitted"
	}
	if result.Outcome == string(timesheet.OutcomeCreated) {
		response.Created(w, message, result)
		return
	}
	response.SuccessWithMessage(w, message, result)
}

// ListMine handles GET /timesheets
func (h *timesheetHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	result, err := h.timesheetService.ListMine(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ListTeam handles GET /manager/timesheets?week_start=&status=
func (h *timesheetHandlerImpl) ListTeam(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	req := timesheet.ListTeamRequest{
		WeekStart: r.URL.Query().Get("week_start"),
		Status:    r.URL.Query().Get("status"),
	}
	result, err := h.timesheetService.ListTeam(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Approve handles POST /manager/timesheets/{id}/approve
func (h *timesheetHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, timesheet.DecisionApprove)
}

// Reject handles POST /manager/timesheets/{id}/reject
func (h *timesheetHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, timesheet.DecisionReject)
}

func (h *timesheetHandlerImpl) review(w http.ResponseWriter, r *http.Request, decision timesheet.Decision) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	var req timesheet.ReviewRequest
	if !decode(w, r, "ReviewTimesheet", &req, true) {
		return
	}

	result, err := h.timesheetService.Review(r.Context(), actor, chi.URLParam(r, "id"), decision, req)
	if errors.Is(err, timesheet.ErrInvalidStatusTransition) && result.ID != "" {
		response.ConflictWithData(w, "INVALID_STATUS_TRANSITION", err.Error(), result)
		return
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Timesheet "+result.Status, result)
}
