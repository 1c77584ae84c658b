package report

import (
	"bytes"
	"context"
	"errors"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
)

var (
	ErrNothingToExport        = errors.New("no timesheets found for the requested week")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)

// ExportService renders team timesheets as spreadsheets.
type ExportService interface {
	// ExportTeamWeek returns an .xlsx workbook and a suggested file name.
	ExportTeamWeek(ctx context.Context, actor user.Principal, weekStart string) (*bytes.Buffer, string, error)
}
