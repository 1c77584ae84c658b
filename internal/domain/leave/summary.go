package leave

import "time"

type Balance struct {
	Type      LeaveType
	Allowance int
	Used      int
	Remaining int
}

type Summary struct {
	Year         int
	Balances     []Balance
	Breakdown    map[Status]int
	PendingCount int
	// ApprovedDays spans every year, unlike Balances.
	ApprovedDays  int
	UpcomingCount int
	Requests      []LeaveRequest
}

// Summarize derives balances and statistics from one employee's requests.
// Used days count approved requests that start inside the calendar year.
func Summarize(requests []LeaveRequest, year int, now time.Time) Summary {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	used := make(map[LeaveType]int, len(Catalog))
	s := Summary{
		Year:      year,
		Breakdown: make(map[Status]int, len(Statuses)),
		Requests:  requests,
	}
	for _, st := range Statuses {
		s.Breakdown[st] = 0
	}

	for _, r := range requests {
		s.Breakdown[r.Status]++
		switch r.Status {
		case StatusPending:
			s.PendingCount++
		case StatusApproved:
			s.ApprovedDays += r.Days
			if !r.StartDate.Before(now) {
				s.UpcomingCount++
			}
			if !r.StartDate.Before(yearStart) && r.StartDate.Before(yearEnd) {
				used[r.Type] += r.Days
			}
		}
	}

	s.Balances = make([]Balance, 0, len(Catalog))
	for _, p := range Catalog {
		remaining := p.Allowance - used[p.Type]
		if remaining < 0 {
			remaining = 0
		}
		s.Balances = append(s.Balances, Balance{
			Type:      p.Type,
			Allowance: p.Allowance,
			Used:      used[p.Type],
			Remaining: remaining,
		})
	}
	return s
}
