package leave

import (
	"time"
)

// LeaveType is a category from the fixed leave catalog.
type LeaveType string

const (
	TypeCasual      LeaveType = "Casual"
	TypeSick        LeaveType = "Sick"
	TypePaidTimeOff LeaveType = "Paid Time Off"
	TypeCompOff     LeaveType = "Comp Off"
)

// Policy is the yearly allowance of a leave type.
type Policy struct {
	Type      LeaveType
	Allowance int
}

// Catalog is ordered for display.
var Catalog = []Policy{
	{Type: TypeCasual, Allowance: 12},
	{Type: TypeSick, Allowance: 10},
	{Type: TypePaidTimeOff, Allowance: 15},
	{Type: TypeCompOff, Allowance: 5},
}

func ParseType(s string) (LeaveType, error) {
	for _, p := range Catalog {
		if string(p.Type) == s {
			return p.Type, nil
		}
	}
	return "", ErrUnknownLeaveType
}

type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusCancelled Status = "Cancelled"
)

var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusCancelled}

type LeaveRequest struct {
	ID         string
	EmployeeID string
	// ManagerID is the employee's manager when the request was filed, replaced
	// by whoever decides it.
	ManagerID   *string
	Type        LeaveType
	StartDate   time.Time
	EndDate     time.Time
	Days        int
	Reason      string
	Status      Status
	ManagerNote *string
	DecidedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Overlaps reports whether the request covers any day in [from, to).
func (r LeaveRequest) Overlaps(from, to time.Time) bool {
	return r.StartDate.Before(to) && !r.EndDate.Before(from)
}

// DaysBetween counts the calendar days from..to inclusive.
func DaysBetween(from, to time.Time) (int, error) {
	from = from.UTC().Truncate(24 * time.Hour)
	to = to.UTC().Truncate(24 * time.Hour)
	if to.Before(from) {
		return 0, ErrInvalidDateRange
	}
	return int(to.Sub(from).Hours()/24) + 1, nil
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (d Decision) Target() Status {
	if d == DecisionApprove {
		return StatusApproved
	}
	return StatusRejected
}

// Transition moves a request out of From with compare-and-set semantics.
// A nil ManagerID leaves the stored manager untouched.
type Transition struct {
	RequestID   string
	From        Status
	To          Status
	ManagerID   *string
	ManagerNote *string
	At          time.Time
}

// Filter narrows listings. A nil EmployeeIDs means every employee.
type Filter struct {
	EmployeeIDs []string
	Status      *Status
}
