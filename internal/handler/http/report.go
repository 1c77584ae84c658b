package http

import (
	"net/http"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler interface {
	ExportTimesheets(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	exportService report.ExportService
}

func NewReportHandler(exportService report.ExportService) ReportHandler {
	return &reportHandlerImpl{exportService: exportService}
}

// ExportTimesheets handles GET /manager/timesheets/export?week_start=
func (h *reportHandlerImpl) ExportTimesheets(w http.ResponseWriter, r *http.Request) {
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	buf, filename, err := h.exportService.ExportTeamWeek(r.Context(), actor, r.URL.Query().Get("week_start"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, xlsxContentType, filename, buf.Bytes())
}
