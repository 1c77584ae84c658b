package leave

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		from, to time.Time
		want     int
		wantErr  error
	}{
		{"single day", date(2025, 3, 10), date(2025, 3, 10), 1, nil},
		{"three days", date(2025, 3, 10), date(2025, 3, 12), 3, nil},
		{"across month", date(2025, 1, 30), date(2025, 2, 2), 4, nil},
		{"leap day", date(2024, 2, 28), date(2024, 3, 1), 3, nil},
		{"reversed", date(2025, 3, 12), date(2025, 3, 10), 0, ErrInvalidDateRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DaysBetween(tt.from, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseType(t *testing.T) {
	for _, p := range Catalog {
		got, err := ParseType(string(p.Type))
		require.NoError(t, err)
		assert.Equal(t, p.Type, got)
	}
	_, err := ParseType("Vacation")
	assert.ErrorIs(t, err, ErrUnknownLeaveType)
	_, err = ParseType("casual")
	assert.ErrorIs(t, err, ErrUnknownLeaveType)
}

func balanceOf(s Summary, lt LeaveType) Balance {
	for _, b := range s.Balances {
		if b.Type == lt {
			return b
		}
	}
	return Balance{}
}

func TestSummarize(t *testing.T) {
	now := date(2025, 6, 1)
	requests := []LeaveRequest{
		{Type: TypeSick, Status: StatusApproved, Days: 3, StartDate: date(2025, 3, 10), EndDate: date(2025, 3, 12)},
		{Type: TypeSick, Status: StatusPending, Days: 2, StartDate: date(2025, 7, 1), EndDate: date(2025, 7, 2)},
		{Type: TypeCasual, Status: StatusApproved, Days: 2, StartDate: date(2025, 8, 4), EndDate: date(2025, 8, 5)},
		{Type: TypeCasual, Status: StatusApproved, Days: 4, StartDate: date(2024, 12, 30), EndDate: date(2025, 1, 2)},
		{Type: TypeCompOff, Status: StatusRejected, Days: 1, StartDate: date(2025, 2, 3), EndDate: date(2025, 2, 3)},
		{Type: TypePaidTimeOff, Status: StatusCancelled, Days: 5, StartDate: date(2025, 9, 1), EndDate: date(2025, 9, 5)},
	}

	s := Summarize(requests, 2025, now)

	sick := balanceOf(s, TypeSick)
	assert.Equal(t, Balance{Type: TypeSick, Allowance: 10, Used: 3, Remaining: 7}, sick)

	casual := balanceOf(s, TypeCasual)
	assert.Equal(t, 2, casual.Used, "request starting in the previous year counts against that year")
	assert.Equal(t, 10, casual.Remaining)

	assert.Equal(t, 0, balanceOf(s, TypeCompOff).Used)
	assert.Equal(t, 0, balanceOf(s, TypePaidTimeOff).Used)

	assert.Equal(t, 1, s.PendingCount)
	assert.Equal(t, 9, s.ApprovedDays)
	assert.Equal(t, 1, s.UpcomingCount)
	assert.Equal(t, map[Status]int{
		StatusPending:   1,
		StatusApproved:  3,
		StatusRejected:  1,
		StatusCancelled: 1,
	}, s.Breakdown)
	assert.Len(t, s.Balances, len(Catalog))
}

func TestSummarizeRemainingNeverNegative(t *testing.T) {
	requests := []LeaveRequest{
		{Type: TypeCompOff, Status: StatusApproved, Days: 4, StartDate: date(2025, 1, 6)},
		{Type: TypeCompOff, Status: StatusApproved, Days: 4, StartDate: date(2025, 2, 3)},
	}
	s := Summarize(requests, 2025, date(2025, 12, 31))
	b := balanceOf(s, TypeCompOff)
	assert.Equal(t, 8, b.Used)
	assert.Equal(t, 0, b.Remaining)
	for _, b := range s.Balances {
		assert.GreaterOrEqual(t, b.Remaining, 0)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 2025, date(2025, 1, 1))
	for _, b := range s.Balances {
		assert.Equal(t, b.Allowance, b.Remaining)
	}
	assert.Equal(t, 0, s.Breakdown[StatusPending])
}

func TestOverlaps(t *testing.T) {
	r := LeaveRequest{StartDate: date(2025, 1, 3), EndDate: date(2025, 1, 7)}
	assert.True(t, r.Overlaps(date(2025, 1, 6), date(2025, 1, 12)))
	assert.True(t, r.Overlaps(date(2024, 12, 30), date(2025, 1, 4)))
	assert.False(t, r.Overlaps(date(2025, 1, 8), date(2025, 1, 14)))
	assert.False(t, r.Overlaps(date(2024, 12, 27), date(2025, 1, 3)))
}

func TestCreateLeaveRequestValidate(t *testing.T) {
	ok := CreateLeaveRequest{Type: "Sick", From: "2025-03-10", To: "2025-03-12", Reason: "flu"}
	assert.NoError(t, ok.Validate())

	tests := []struct {
		name  string
		req   CreateLeaveRequest
		field string
	}{
		{"unknown type", CreateLeaveRequest{Type: "Vacation", From: "2025-03-10", To: "2025-03-12"}, "type"},
		{"missing type", CreateLeaveRequest{From: "2025-03-10", To: "2025-03-12"}, "type"},
		{"bad from", CreateLeaveRequest{Type: "Sick", From: "10/03/2025", To: "2025-03-12"}, "from"},
		{"reversed", CreateLeaveRequest{Type: "Sick", From: "2025-03-12", To: "2025-03-10"}, "to"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
}

func TestToSummaryResponse(t *testing.T) {
	s := Summarize([]LeaveRequest{{ID: "l1", Type: TypeSick, Status: StatusPending, Days: 1, StartDate: date(2025, 5, 5), EndDate: date(2025, 5, 5)}}, 2025, date(2025, 1, 1))
	resp := ToSummaryResponse(s)
	assert.Equal(t, 1, resp.Breakdown["Pending"])
	assert.Equal(t, 1, resp.Stats.Pending)
	require.Len(t, resp.Requests, 1)
	assert.Equal(t, "2025-05-05", resp.Requests[0].From)
	assert.Equal(t, "Casual", resp.Balances[0].Type)
}
