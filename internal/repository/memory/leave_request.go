package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/leave"
)

type leaveRecord struct {
	leave.LeaveRequest
	seq int64
}

type leaveRequestRepository struct {
	store *Store
}

func NewLeaveRequestRepository(store *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{store: store}
}

func copyLeave(r leave.LeaveRequest) leave.LeaveRequest {
	r.ManagerID = clonePtr(r.ManagerID)
	r.ManagerNote = clonePtr(r.ManagerNote)
	r.DecidedAt = clonePtr(r.DecidedAt)
	return r
}

// newestFirst collects matching records ordered by creation, newest first.
func (r *leaveRequestRepository) newestFirst(match func(leaveRecord) bool) []leave.LeaveRequest {
	records := []leaveRecord{}
	for _, rec := range r.store.leave {
		if match(rec) {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].seq > records[j].seq
	})
	out := make([]leave.LeaveRequest, 0, len(records))
	for _, rec := range records {
		out = append(out, copyLeave(rec.LeaveRequest))
	}
	return out
}

func (r *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	req = copyLeave(req)
	req.ID = newID()
	req.CreatedAt = req.CreatedAt.UTC()
	req.UpdatedAt = req.CreatedAt
	r.store.leave[req.ID] = leaveRecord{LeaveRequest: req, seq: r.store.next()}
	return copyLeave(req), nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.leave[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return copyLeave(rec.LeaveRequest), nil
}

func (r *leaveRequestRepository) List(ctx context.Context, filter leave.Filter) ([]leave.LeaveRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var allowed map[string]bool
	if filter.EmployeeIDs != nil {
		allowed = make(map[string]bool, len(filter.EmployeeIDs))
		for _, id := range filter.EmployeeIDs {
			allowed[id] = true
		}
	}
	return r.newestFirst(func(rec leaveRecord) bool {
		if allowed != nil && !allowed[rec.EmployeeID] {
			return false
		}
		return filter.Status == nil || rec.Status == *filter.Status
	}), nil
}

func (r *leaveRequestRepository) ListForManager(ctx context.Context, managerID string, reportIDs []string) ([]leave.LeaveRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reports := make(map[string]bool, len(reportIDs))
	for _, id := range reportIDs {
		reports[id] = true
	}
	return r.newestFirst(func(rec leaveRecord) bool {
		return (rec.ManagerID != nil && *rec.ManagerID == managerID) || reports[rec.EmployeeID]
	}), nil
}

func (r *leaveRequestRepository) ApplyTransition(ctx context.Context, t leave.Transition) (leave.LeaveRequest, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.leave[t.RequestID]
	if !ok {
		return leave.LeaveRequest{}, false, leave.ErrLeaveRequestNotFound
	}
	if rec.Status != t.From {
		return copyLeave(rec.LeaveRequest), false, nil
	}

	at := t.At.UTC()
	rec.Status = t.To
	if t.ManagerID != nil {
		rec.ManagerID = clonePtr(t.ManagerID)
	}
	rec.ManagerNote = clonePtr(t.ManagerNote)
	rec.DecidedAt = &at
	rec.UpdatedAt = at
	r.store.leave[rec.ID] = rec
	return copyLeave(rec.LeaveRequest), true, nil
}
