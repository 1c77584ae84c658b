package timesheet

import "time"

const (
	// DaysPerWeek is the number of hour slots per row, Monday through Saturday.
	DaysPerWeek    = 6
	MaxRows        = 5
	MaxHoursPerDay = 9
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"

	// StatusNew is reported for a week without a stored record. It is never persisted.
	StatusNew Status = "new"
)

var Statuses = []Status{StatusDraft, StatusSubmitted, StatusApproved, StatusRejected}

// Locked reports whether the owner may no longer edit the record.
func (s Status) Locked() bool {
	return s == StatusApproved || s == StatusRejected
}

// Row is one client/project/task/activity line with an hour count per day.
type Row struct {
	Client   string `json:"client"`
	Project  string `json:"project"`
	Task     string `json:"task"`
	Activity string `json:"activity"`
	Hours    []int  `json:"hours"`
}

func (r Row) Total() int {
	total := 0
	for _, h := range r.Hours {
		total += h
	}
	return total
}

type Timesheet struct {
	ID          string
	UserID      string
	WeekStart   time.Time
	Rows        []Row
	Status      Status
	SubmittedAt *time.Time
	ReviewedAt  *time.Time
	ReviewedBy  *string
	Comments    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t Timesheet) TotalHours() int {
	total := 0
	for _, r := range t.Rows {
		total += r.Total()
	}
	return total
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Target is the status a decision moves a record to.
func (d Decision) Target() Status {
	if d == DecisionApprove {
		return StatusApproved
	}
	return StatusRejected
}

// AllowedFrom lists the statuses a decision may be applied to. A reviewer may
// reverse an earlier decision but never act on a draft.
func (d Decision) AllowedFrom() []Status {
	switch d {
	case DecisionApprove:
		return []Status{StatusSubmitted, StatusRejected}
	case DecisionReject:
		return []Status{StatusSubmitted, StatusApproved}
	default:
		return nil
	}
}

func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// CanApply reports whether the decision is allowed from status s.
func (d Decision) CanApply(s Status) bool {
	for _, from := range d.AllowedFrom() {
		if from == s {
			return true
		}
	}
	return false
}

// NextStatus computes the status written by an owner save. Saving never
// moves a record backwards: a plain save keeps whatever status exists.
func NextStatus(prior *Status, wantsSubmit bool) Status {
	switch {
	case wantsSubmit:
		return StatusSubmitted
	case prior != nil:
		return *prior
	default:
		return StatusDraft
	}
}

type UpsertOutcome string

const (
	OutcomeCreated UpsertOutcome = "created"
	OutcomeUpdated UpsertOutcome = "updated"
)

// WeekWrite is an owner save of one week.
type WeekWrite struct {
	UserID    string
	WeekStart time.Time
	Rows      []Row
	Submit    bool
	At        time.Time
}

// Review is a reviewer decision applied with compare-and-set semantics.
type Review struct {
	TimesheetID string
	Decision    Decision
	ReviewerID  string
	Comments    *string
	At          time.Time
}

// Filter narrows listings. A nil UserIDs means every user; an empty one means none.
type Filter struct {
	UserIDs   []string
	WeekStart *time.Time
	Status    *Status
}
