package notification

import "context"

// Type identifies the event a message reports and selects its email template.
type Type string

const (
	TypeAccountCreated     Type = "account_created"
	TypePasswordReset      Type = "password_reset"
	TypeTimesheetSubmitted Type = "timesheet_submitted"
	TypeTimesheetReviewed  Type = "timesheet_reviewed"
	TypeLeaveRequested     Type = "leave_requested"
	TypeLeaveDecided       Type = "leave_decided"
)

// Template is the embedded email template rendering this type.
func (t Type) Template() string {
	return string(t) + ".html"
}

// Message is one outgoing notification.
type Message struct {
	Type    Type
	To      string
	Subject string
	Data    map[string]any
}

// Notifier delivers messages without blocking the caller. Delivery failures
// are logged by the implementation and never reported back.
type Notifier interface {
	Send(ctx context.Context, msg Message)
}

// Discard drops every message.
type Discard struct{}

func (Discard) Send(context.Context, Message) {}
