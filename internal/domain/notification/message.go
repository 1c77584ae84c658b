package notification

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

func AccountCreated(name, email, temporaryPassword string) Message {
	return Message{
		Type:    TypeAccountCreated,
		To:      email,
		Subject: "Your timesheet account is ready",
		Data: map[string]any{
			"Name":              name,
			"Email":             email,
			"TemporaryPassword": temporaryPassword,
		},
	}
}

func PasswordReset(name, email, temporaryPassword string) Message {
	return Message{
		Type:    TypePasswordReset,
		To:      email,
		Subject: "Your password has been reset",
		Data: map[string]any{
			"Name":              name,
			"TemporaryPassword": temporaryPassword,
		},
	}
}

func TimesheetSubmitted(managerName, managerEmail, employeeName string, weekStart time.Time, totalHours int) Message {
	week := weekStart.UTC().Format(dateLayout)
	return Message{
		Type:    TypeTimesheetSubmitted,
		To:      managerEmail,
		Subject: fmt.Sprintf("%s submitted a timesheet for the week of %s", employeeName, week),
		Data: map[string]any{
			"ManagerName":  managerName,
			"EmployeeName": employeeName,
			"WeekStart":    week,
			"TotalHours":   totalHours,
		},
	}
}

func TimesheetReviewed(employeeName, employeeEmail string, weekStart time.Time, status string, comments *string) Message {
	week := weekStart.UTC().Format(dateLayout)
	data := map[string]any{
		"EmployeeName": employeeName,
		"WeekStart":    week,
		"Status":       status,
		"Comments":     "",
	}
	if comments != nil {
		data["Comments"] = *comments
	}
	return Message{
		Type:    TypeTimesheetReviewed,
		To:      employeeEmail,
		Subject: fmt.Sprintf("Your timesheet for the week of %s was %s", week, status),
		Data:    data,
	}
}

func LeaveRequested(managerName, managerEmail, employeeName, leaveType string, from, to time.Time, days int, reason string) Message {
	return Message{
		Type:    TypeLeaveRequested,
		To:      managerEmail,
		Subject: fmt.Sprintf("%s requested %d day(s) of %s leave", employeeName, days, leaveType),
		Data: map[string]any{
			"ManagerName":  managerName,
			"EmployeeName": employeeName,
			"LeaveType":    leaveType,
			"From":         from.UTC().Format(dateLayout),
			"To":           to.UTC().Format(dateLayout),
			"Days":         days,
			"Reason":       reason,
		},
	}
}

func LeaveDecided(employeeName, employeeEmail, leaveType string, from, to time.Time, status string, note *string) Message {
	data := map[string]any{
		"EmployeeName": employeeName,
		"LeaveType":    leaveType,
		"From":         from.UTC().Format(dateLayout),
		"To":           to.UTC().Format(dateLayout),
		"Status":       status,
		"Note":         "",
	}
	if note != nil {
		data["Note"] = *note
	}
	return Message{
		Type:    TypeLeaveDecided,
		To:      employeeEmail,
		Subject: fmt.Sprintf("Your %s leave request was %s", leaveType, status),
		Data:    data,
	}
}
