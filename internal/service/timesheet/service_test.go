package timesheet

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification.Message
}

func (r *recordingNotifier) Send(_ context.Context, msg notification.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
}

func (r *recordingNotifier) messages() []notification.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification.Message(nil), r.sent...)
}

type fixture struct {
	svc      *TimesheetServiceImpl
	notifier *recordingNotifier
	admin    user.Admin
	manager  user.Manager
	other    user.Manager
	employee user.Employee
	outsider user.Employee
}

var now = time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	ctx := context.Background()

	create := func(name string, role user.Role, managerID *string) user.User {
		u, err := users.Create(ctx, user.User{Name: name, Email: name + "@example.com", Role: role, ManagerID: managerID})
		require.NoError(t, err)
		return u
	}
	admin := create("admin", user.RoleAdmin, nil)
	mgr := create("mia", user.RoleManager, nil)
	otherMgr := create("max", user.RoleManager, nil)
	emp := create("eve", user.RoleEmployee, &mgr.ID)
	outsider := create("oli", user.RoleEmployee, &otherMgr.ID)

	notifier := &recordingNotifier{}
	svc := NewTimesheetService(memory.NewTimesheetRepository(store), users, notifier).(*TimesheetServiceImpl)
	svc.now = func() time.Time { return now }

	return fixture{
		svc:      svc,
		notifier: notifier,
		admin:    user.Admin{UserID: admin.ID},
		manager:  user.Manager{UserID: mgr.ID},
		other:    user.Manager{UserID: otherMgr.ID},
		employee: user.Employee{UserID: emp.ID},
		outsider: user.Employee{UserID: outsider.ID},
	}
}

func acmeRow(hours ...float64) timesheet.RowInput {
	return timesheet.RowInput{Client: "Acme", Project: "X", Task: "Dev", Activity: "Development", Hours: hours}
}

func (f fixture) submit(t *testing.T, actor user.Principal) timesheet.SaveWeekResponse {
	t.Helper()
	resp, err := f.svc.SaveWeek(context.Background(), actor, timesheet.SaveWeekRequest{
		WeekStart: "2025-06-02",
		Rows:      []timesheet.RowInput{acmeRow(8, 8, 8, 8, 8, 0)},
		Submit:    true,
	})
	require.NoError(t, err)
	return resp
}

func TestSaveWeek_SubmitThenSaveKeepsStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.submit(t, f.employee)
	assert.Equal(t, "created", first.Outcome)
	assert.Equal(t, "submitted", first.Timesheet.Status)
	assert.Equal(t, []int{8, 8, 8, 8, 8, 0}, first.Timesheet.Rows[0].Hours)
	require.NotNil(t, first.Timesheet.SubmittedAt)
	assert.Equal(t, now.Format(time.RFC3339), *first.Timesheet.SubmittedAt)

	second, err := f.svc.SaveWeek(ctx, f.employee, timesheet.SaveWeekRequest{
		WeekStart: "2025-06-02",
		Rows:      []timesheet.RowInput{acmeRow(4, 4, 4, 4, 4, 4)},
	})
	require.NoError(t, err)
	assert.Equal(t, "updated", second.Outcome)
	assert.Equal(t, "submitted", second.Timesheet.Status)
	assert.Equal(t, first.Timesheet.ID, second.Timesheet.ID)
	assert.Equal(t, 24, second.Timesheet.TotalHours)
}

func TestSaveWeek_DraftAndNormalization(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.SaveWeek(context.Background(), f.employee, timesheet.SaveWeekRequest{
		WeekStart: "2025-06-02",
		Rows:      []timesheet.RowInput{{Client: "  Acme ", Hours: []float64{12, -3, 7.9, 2.2}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "draft", resp.Timesheet.Status)
	assert.Nil(t, resp.Timesheet.SubmittedAt)
	require.Len(t, resp.Timesheet.Rows, 1)
	assert.Equal(t, "Acme", resp.Timesheet.Rows[0].Client)
	assert.Equal(t, []int{9, 0, 7, 2, 0, 0}, resp.Timesheet.Rows[0].Hours)
	assert.Empty(t, f.notifier.messages(), "drafts notify nobody")
}

func TestSaveWeek_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   timesheet.SaveWeekRequest
		field string
	}{
		{"missing week", timesheet.SaveWeekRequest{}, "week_start"},
		{"bad week", timesheet.SaveWeekRequest{WeekStart: "2025-13-01"}, "week_start"},
		{"too many rows", timesheet.SaveWeekRequest{WeekStart: "2025-06-02", Rows: make([]timesheet.RowInput, 6)}, "rows"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.SaveWeek(ctx, f.employee, tt.req)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
}

func TestSaveWeek_NotifiesManagerOnSubmit(t *testing.T) {
	f := newFixture(t)
	f.submit(t, f.employee)

	msgs := f.notifier.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, notification.TypeTimesheetSubmitted, msgs[0].Type)
	assert.Equal(t, "mia@example.com", msgs[0].To)
	assert.Equal(t, 40, msgs[0].Data["TotalHours"])
}

func TestGetWeek(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.svc.GetWeek(ctx, f.employee, "2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, "new", empty.Status)
	assert.Empty(t, empty.ID)
	assert.NotNil(t, empty.Rows)
	assert.Empty(t, empty.Rows)

	saved := f.submit(t, f.employee)
	got, err := f.svc.GetWeek(ctx, f.employee, "2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, saved.Timesheet.ID, got.ID)

	other, err := f.svc.GetWeek(ctx, f.outsider, "2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, "new", other.Status, "weeks are per user")

	_, err = f.svc.GetWeek(ctx, f.employee, "June 2")
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestReview_ApproveLocksRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	saved := f.submit(t, f.employee)

	comment := "looks good"
	approved, err := f.svc.Review(ctx, f.manager, saved.Timesheet.ID, timesheet.DecisionApprove, timesheet.ReviewRequest{Comments: &comment})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, f.manager.ID(), *approved.ReviewedBy)
	assert.Equal(t, &comment, approved.Comments)

	_, err = f.svc.SaveWeek(ctx, f.employee, timesheet.SaveWeekRequest{WeekStart: "2025-06-02", Submit: true})
	assert.ErrorIs(t, err, timesheet.ErrTimesheetLocked)

	msgs := f.notifier.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, notification.TypeTimesheetReviewed, msgs[1].Type)
	assert.Equal(t, "eve@example.com", msgs[1].To)
}

func TestReview_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.SaveWeek(ctx, f.employee, timesheet.SaveWeekRequest{WeekStart: "2025-06-02"})
	require.NoError(t, err)

	unchanged, err := f.svc.Review(ctx, f.manager, draft.Timesheet.ID, timesheet.DecisionApprove, timesheet.ReviewRequest{})
	assert.ErrorIs(t, err, timesheet.ErrInvalidStatusTransition)
	assert.Equal(t, "draft", unchanged.Status)
	assert.Nil(t, unchanged.ReviewedBy)

	submitted := f.submit(t, f.employee)
	id := submitted.Timesheet.ID

	rejected, err := f.svc.Review(ctx, f.manager, id, timesheet.DecisionReject, timesheet.ReviewRequest{})
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)

	_, err = f.svc.Review(ctx, f.manager, id, timesheet.DecisionReject, timesheet.ReviewRequest{})
	assert.ErrorIs(t, err, timesheet.ErrInvalidStatusTransition)

	reversed, err := f.svc.Review(ctx, f.manager, id, timesheet.DecisionApprove, timesheet.ReviewRequest{})
	require.NoError(t, err, "a rejection may be reversed")
	assert.Equal(t, "approved", reversed.Status)
}

func TestReview_Scope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	saved := f.submit(t, f.employee)
	id := saved.Timesheet.ID

	_, err := f.svc.Review(ctx, f.other, id, timesheet.DecisionApprove, timesheet.ReviewRequest{})
	assert.ErrorIs(t, err, timesheet.ErrNotTeamMember)

	_, err = f.svc.Review(ctx, f.employee, id, timesheet.DecisionApprove, timesheet.ReviewRequest{})
	assert.ErrorIs(t, err, user.ErrForbidden)

	_, err = f.svc.Review(ctx, f.manager, "missing", timesheet.DecisionApprove, timesheet.ReviewRequest{})
	assert.ErrorIs(t, err, timesheet.ErrTimesheetNotFound)

	approved, err := f.svc.Review(ctx, f.admin, id, timesheet.DecisionApprove, timesheet.ReviewRequest{})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
}

func TestListTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.submit(t, f.employee)
	f.submit(t, f.outsider)

	mine, err := f.svc.ListTeam(ctx, f.manager, timesheet.ListTeamRequest{WeekStart: "2025-06-02"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "eve", mine[0].Employee.Name)

	all, err := f.svc.ListTeam(ctx, f.admin, timesheet.ListTeamRequest{Status: "submitted"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := f.svc.ListTeam(ctx, f.manager, timesheet.ListTeamRequest{Status: "approved"})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.svc.ListTeam(ctx, f.employee, timesheet.ListTeamRequest{})
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)

	_, err = f.svc.ListTeam(ctx, f.manager, timesheet.ListTeamRequest{Status: "new"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestListMine(t *testing.T) {
	f := newFixture(t)
	f.submit(t, f.employee)
	f.submit(t, f.outsider)

	mine, err := f.svc.ListMine(context.Background(), f.employee)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.employee.ID(), mine[0].UserID)
}

func TestSaveWeek_ConcurrentSavesConverge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(h float64) {
			defer wg.Done()
			_, err := f.svc.SaveWeek(ctx, f.employee, timesheet.SaveWeekRequest{
				WeekStart: "2025-06-02",
				Rows:      []timesheet.RowInput{acmeRow(h)},
			})
			assert.NoError(t, err)
		}(float64(i % 9))
	}
	wg.Wait()

	mine, err := f.svc.ListMine(ctx, f.employee)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
