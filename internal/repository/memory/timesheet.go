package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/timesheet"
)

type timesheetRecord struct {
	timesheet.Timesheet
}

type timesheetRepository struct {
	store *Store
}

func NewTimesheetRepository(store *Store) timesheet.TimesheetRepository {
	return &timesheetRepository{store: store}
}

func copyTimesheet(t timesheet.Timesheet) timesheet.Timesheet {
	rows := make([]timesheet.Row, len(t.Rows))
	for i, r := range t.Rows {
		r.Hours = append([]int(nil), r.Hours...)
		rows[i] = r
	}
	t.Rows = rows
	t.SubmittedAt = clonePtr(t.SubmittedAt)
	t.ReviewedAt = clonePtr(t.ReviewedAt)
	t.ReviewedBy = clonePtr(t.ReviewedBy)
	t.Comments = clonePtr(t.Comments)
	return t
}

func (r *timesheetRepository) find(userID string, weekStart time.Time) (timesheetRecord, bool) {
	for _, t := range r.store.timesheets {
		if t.UserID == userID && t.WeekStart.Equal(weekStart) {
			return t, true
		}
	}
	return timesheetRecord{}, false
}

// UpsertWeek reads and writes under one lock, so concurrent first saves
// never produce two records.
func (r *timesheetRepository) UpsertWeek(ctx context.Context, w timesheet.WeekWrite) (timesheet.Timesheet, timesheet.UpsertOutcome, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	at := w.At.UTC()
	existing, found := r.find(w.UserID, w.WeekStart)
	if found && existing.Status.Locked() {
		return timesheet.Timesheet{}, "", timesheet.ErrTimesheetLocked
	}

	var prior *timesheet.Status
	outcome := timesheet.OutcomeCreated
	rec := timesheetRecord{timesheet.Timesheet{
		ID:        newID(),
		UserID:    w.UserID,
		WeekStart: w.WeekStart,
		CreatedAt: at,
	}}
	if found {
		rec = existing
		prior = &existing.Status
		outcome = timesheet.OutcomeUpdated
	}

	rec.Status = timesheet.NextStatus(prior, w.Submit)
	if w.Submit {
		rec.SubmittedAt = &at
	}
	rec.Rows = w.Rows
	if rec.Rows == nil {
		rec.Rows = []timesheet.Row{}
	}
	rec.UpdatedAt = at
	rec.Timesheet = copyTimesheet(rec.Timesheet)
	r.store.timesheets[rec.ID] = rec
	return copyTimesheet(rec.Timesheet), outcome, nil
}

func (r *timesheetRepository) GetByUserWeek(ctx context.Context, userID string, weekStart time.Time) (timesheet.Timesheet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.find(userID, weekStart)
	if !ok {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	return copyTimesheet(t.Timesheet), nil
}

func (r *timesheetRepository) GetByID(ctx context.Context, id string) (timesheet.Timesheet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.timesheets[id]
	if !ok {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	return copyTimesheet(t.Timesheet), nil
}

func (r *timesheetRepository) List(ctx context.Context, filter timesheet.Filter) ([]timesheet.Timesheet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var allowed map[string]bool
	if filter.UserIDs != nil {
		allowed = make(map[string]bool, len(filter.UserIDs))
		for _, id := range filter.UserIDs {
			allowed[id] = true
		}
	}

	result := []timesheet.Timesheet{}
	for _, t := range r.store.timesheets {
		if allowed != nil && !allowed[t.UserID] {
			continue
		}
		if filter.WeekStart != nil && !t.WeekStart.Equal(*filter.WeekStart) {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		result = append(result, copyTimesheet(t.Timesheet))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].WeekStart.Equal(result[j].WeekStart) {
			return result[i].WeekStart.After(result[j].WeekStart)
		}
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}

func (r *timesheetRepository) ApplyReview(ctx context.Context, review timesheet.Review, allowedFrom []timesheet.Status) (timesheet.Timesheet, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.timesheets[review.TimesheetID]
	if !ok {
		return timesheet.Timesheet{}, false, timesheet.ErrTimesheetNotFound
	}
	permitted := false
	for _, s := range allowedFrom {
		if rec.Status == s {
			permitted = true
			break
		}
	}
	if !permitted {
		return copyTimesheet(rec.Timesheet), false, nil
	}

	at := review.At.UTC()
	reviewer := review.ReviewerID
	rec.Status = review.Decision.Target()
	rec.ReviewedAt = &at
	rec.ReviewedBy = &reviewer
	rec.Comments = clonePtr(review.Comments)
	rec.UpdatedAt = at
	r.store.timesheets[rec.ID] = rec
	return copyTimesheet(rec.Timesheet), true, nil
}
