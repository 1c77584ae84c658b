package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Timesheets"

var dayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type ReportServiceImpl struct {
	users      user.UserRepository
	timesheets timesheet.TimesheetRepository
}

func NewReportService(users user.UserRepository, timesheets timesheet.TimesheetRepository) report.ExportService {
	return &ReportServiceImpl{users: users, timesheets: timesheets}
}

// ExportTeamWeek writes one spreadsheet line per timesheet row of the team's
// records for the week. A record without rows still gets a line.
func (s *ReportServiceImpl) ExportTeamWeek(ctx context.Context, actor user.Principal, weekStart string) (*bytes.Buffer, string, error) {
	week, err := timesheet.ParseWeekStart(weekStart)
	if err != nil {
		return nil, "", err
	}

	members, err := user.Team(ctx, s.users, actor)
	if err != nil {
		return nil, "", err
	}
	byID := make(map[string]user.User, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	sheets, err := s.timesheets.List(ctx, timesheet.Filter{UserIDs: user.IDs(members), WeekStart: &week})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list team timesheets: %w", err)
	}
	if len(sheets) == 0 {
		return nil, "", report.ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := append([]string{"Employee", "Email", "Status", "Client", "Project", "Task", "Activity"}, dayNames...)
	headers = append(headers, "Total")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(i, 1), h)
	}
	f.SetCellStyle(sheetName, cell(0, 1), cell(len(headers)-1, 1), headerStyle)
	f.SetColWidth(sheetName, "A", "B", 24)
	f.SetColWidth(sheetName, "C", "G", 16)

	line := 2
	for _, t := range sheets {
		owner := byID[t.UserID]
		rows := t.Rows
		if len(rows) == 0 {
			rows = []timesheet.Row{{Hours: make([]int, timesheet.DaysPerWeek)}}
		}
		for _, r := range rows {
			values := []interface{}{owner.Name, owner.Email, string(t.Status), r.Client, r.Project, r.Task, r.Activity}
			for _, h := range r.Hours {
				values = append(values, h)
			}
			values = append(values, r.Total())
			for i, v := range values {
				f.SetCellValue(sheetName, cell(i, line), v)
			}
			line++
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		slog.Error("Failed to write spreadsheet", "error", err)
		return nil, "", report.ErrReportGenerationFailed
	}

	filename := fmt.Sprintf("timesheets_%s.xlsx", timesheet.FormatDate(week))
	return buf, filename, nil
}

// cell converts zero-based column and one-based row to an A1 reference.
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
