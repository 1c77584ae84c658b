package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
)

type DashboardService interface {
	// TeamWeek summarizes the reviewer's team for one week. An empty weekStart
	// means the Monday of the current week.
	TeamWeek(ctx context.Context, actor user.Principal, weekStart string) (TeamWeekResponse, error)
}

// TeamWeek is the state of a team during one week.
type TeamWeek struct {
	WeekStart    time.Time
	Members      int
	ByStatus     map[timesheet.Status]int
	TotalHours   int
	PendingLeave int
	OnLeave      []user.User
}

// Summarize builds the week view. Members without a record for the week count
// as StatusNew; records and requests outside members are ignored.
func Summarize(members []user.User, sheets []timesheet.Timesheet, requests []leave.LeaveRequest, weekStart time.Time) TeamWeek {
	week := TeamWeek{
		WeekStart: weekStart,
		Members:   len(members),
		ByStatus:  map[timesheet.Status]int{timesheet.StatusNew: 0},
		OnLeave:   []user.User{},
	}
	for _, s := range timesheet.Statuses {
		week.ByStatus[s] = 0
	}

	byID := make(map[string]user.User, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	recorded := make(map[string]bool, len(sheets))
	for _, t := range sheets {
		if _, ok := byID[t.UserID]; !ok || !t.WeekStart.Equal(weekStart) {
			continue
		}
		recorded[t.UserID] = true
		week.ByStatus[t.Status]++
		week.TotalHours += t.TotalHours()
	}
	week.ByStatus[timesheet.StatusNew] = len(members) - len(recorded)

	weekEnd := weekStart.AddDate(0, 0, 7)
	away := make(map[string]bool)
	for _, r := range requests {
		m, ok := byID[r.EmployeeID]
		if !ok {
			continue
		}
		switch r.Status {
		case leave.StatusPending:
			week.PendingLeave++
		case leave.StatusApproved:
			if r.Overlaps(weekStart, weekEnd) && !away[m.ID] {
				away[m.ID] = true
				week.OnLeave = append(week.OnLeave, m)
			}
		}
	}
	return week
}

type TeamWeekResponse struct {
	WeekStart    string         `json:"week_start"`
	Members      int            `json:"members"`
	Timesheets   map[string]int `json:"timesheets"`
	TotalHours   int            `json:"total_hours"`
	PendingLeave int            `json:"pending_leave"`
	OnLeave      []user.Brief   `json:"on_leave"`
}

func ToResponse(w TeamWeek) TeamWeekResponse {
	resp := TeamWeekResponse{
		WeekStart:    timesheet.FormatDate(w.WeekStart),
		Members:      w.Members,
		Timesheets:   make(map[string]int, len(w.ByStatus)),
		TotalHours:   w.TotalHours,
		PendingLeave: w.PendingLeave,
		OnLeave:      make([]user.Brief, 0, len(w.OnLeave)),
	}
	for s, n := range w.ByStatus {
		resp.Timesheets[string(s)] = n
	}
	for _, u := range w.OnLeave {
		resp.OnLeave = append(resp.OnLeave, user.BriefOf(u))
	}
	return resp
}

// CurrentWeek returns the Monday, at UTC midnight, of the week containing now.
func CurrentWeek(now time.Time) time.Time {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
