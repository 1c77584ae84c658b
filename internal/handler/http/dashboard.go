package http

import (
	"net/http"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	TeamWeek(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// TeamWeek handles GET /manager/dashboard?week_start=
func (h *dashboardHandlerImpl) TeamWeek(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	result, err := h.dashboardService.TeamWeek(r.Context(), actor, r.URL.Query().Get("week_start"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
