package mongodb_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/repository/mongodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMongo connects to TEST_MONGO_URI and returns a throwaway database.
func newTestMongo(t *testing.T) *database.MongoDB {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewMongoDB(ctx, uri, fmt.Sprintf("timesheet_test_%d", time.Now().UnixNano()))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx := context.Background()
		_ = db.Database.Drop(ctx)
		_ = db.Close(ctx)
	})

	require.NoError(t, mongodb.EnsureIndexes(ctx, db))
	return db
}

func seed(t *testing.T, repo user.UserRepository, email string, role user.Role, managerID *string) user.User {
	t.Helper()
	u, err := repo.Create(context.Background(), user.User{Name: email, Email: email, PasswordHash: "hash", Role: role, ManagerID: managerID})
	require.NoError(t, err)
	return u
}

var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func rows() []timesheet.Row {
	return []timesheet.Row{{Client: "Acme", Project: "Portal", Task: "API", Activity: "Dev", Hours: []int{8, 8, 8, 8, 8, 0}}}
}

func TestUserRepository(t *testing.T) {
	db := newTestMongo(t)
	repo := mongodb.NewUserRepository(db)
	ctx := context.Background()

	mgr := seed(t, repo, "mgr@example.com", user.RoleManager, nil)
	emp := seed(t, repo, "emp@example.com", user.RoleEmployee, &mgr.ID)

	_, err := repo.Create(ctx, user.User{Name: "x", Email: "emp@example.com", Role: user.RoleEmployee})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	got, err := repo.GetByEmail(ctx, "emp@example.com")
	require.NoError(t, err)
	assert.Equal(t, emp.ID, got.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	team, err := repo.List(ctx, user.Filter{ManagerID: &mgr.ID})
	require.NoError(t, err)
	require.Len(t, team, 1)

	_, err = repo.UpdateRole(ctx, mgr.ID, user.RoleEmployee)
	assert.ErrorIs(t, err, user.ErrManagerHasReports)

	unassigned, err := repo.UpdateManager(ctx, emp.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, unassigned.ManagerID)

	demoted, err := repo.UpdateRole(ctx, mgr.ID, user.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, user.RoleEmployee, demoted.Role)

	require.NoError(t, repo.UpdatePassword(ctx, emp.ID, "new", true))
	got, err = repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, got.MustResetPassword)
	assert.ErrorIs(t, repo.UpdatePassword(ctx, "missing", "x", false), user.ErrUserNotFound)
}

func TestJWTRepository(t *testing.T) {
	db := newTestMongo(t)
	repo := mongodb.NewJWTRepository(db)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Unix()

	require.NoError(t, repo.CreateRefreshToken(ctx, "u1", "tok", exp, auth.SessionTrackingRequest{UserAgent: "test"}))
	revoked, err := repo.IsRefreshTokenRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.RevokeAllForUser(ctx, "u1"))
	revoked, err = repo.IsRefreshTokenRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.IsRefreshTokenRevoked(ctx, "never-issued")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestTimesheetRepository(t *testing.T) {
	db := newTestMongo(t)
	repo := mongodb.NewTimesheetRepository(db)
	ctx := context.Background()
	at := time.Now().UTC()

	created, outcome, err := repo.UpsertWeek(ctx, timesheet.WeekWrite{UserID: "u1", WeekStart: monday, Rows: rows(), At: at})
	require.NoError(t, err)
	assert.Equal(t, timesheet.OutcomeCreated, outcome)
	assert.Equal(t, timesheet.StatusDraft, created.Status)

	submitted, outcome, err := repo.UpsertWeek(ctx, timesheet.WeekWrite{UserID: "u1", WeekStart: monday, Rows: rows(), Submit: true, At: at})
	require.NoError(t, err)
	assert.Equal(t, timesheet.OutcomeUpdated, outcome)
	assert.Equal(t, created.ID, submitted.ID)
	assert.Equal(t, timesheet.StatusSubmitted, submitted.Status)

	plain, _, err := repo.UpsertWeek(ctx, timesheet.WeekWrite{UserID: "u1", WeekStart: monday, Rows: nil, At: at})
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusSubmitted, plain.Status)
	assert.Empty(t, plain.Rows)

	review := timesheet.Review{TimesheetID: created.ID, Decision: timesheet.DecisionReject, ReviewerID: "m1", At: at}
	rejected, applied, err := repo.ApplyReview(ctx, review, timesheet.DecisionReject.AllowedFrom())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, timesheet.StatusRejected, rejected.Status)

	_, _, err = repo.UpsertWeek(ctx, timesheet.WeekWrite{UserID: "u1", WeekStart: monday, Rows: rows(), Submit: true, At: at})
	assert.ErrorIs(t, err, timesheet.ErrTimesheetLocked)

	again, applied, err := repo.ApplyReview(ctx, review, timesheet.DecisionReject.AllowedFrom())
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, timesheet.StatusRejected, again.Status)

	status := timesheet.StatusRejected
	listed, err := repo.List(ctx, timesheet.Filter{UserIDs: []string{"u1"}, Status: &status})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestTimesheetRepository_ConcurrentFirstSave(t *testing.T) {
	db := newTestMongo(t)
	repo := mongodb.NewTimesheetRepository(db)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = repo.UpsertWeek(ctx, timesheet.WeekWrite{UserID: "u1", WeekStart: monday, Rows: rows(), At: time.Now().UTC()})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, timesheet.ErrConcurrentUpdate)
		}
	}
	all, err := repo.List(ctx, timesheet.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLeaveRequestRepository(t *testing.T) {
	db := newTestMongo(t)
	repo := mongodb.NewLeaveRequestRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()
	mgr := "m1"

	created, err := repo.Create(ctx, leave.LeaveRequest{
		EmployeeID: "e1",
		ManagerID:  &mgr,
		Type:       leave.TypeCasual,
		StartDate:  monday,
		EndDate:    monday.AddDate(0, 0, 1),
		Days:       2,
		Status:     leave.StatusPending,
		CreatedAt:  now,
	})
	require.NoError(t, err)

	queue, err := repo.ListForManager(ctx, "m1", nil)
	require.NoError(t, err)
	require.Len(t, queue, 1)

	queue, err = repo.ListForManager(ctx, "m2", []string{"e1"})
	require.NoError(t, err)
	require.Len(t, queue, 1, "current manager sees requests filed under the previous one")

	other := "m2"
	decided, applied, err := repo.ApplyTransition(ctx, leave.Transition{RequestID: created.ID, From: leave.StatusPending, To: leave.StatusRejected, ManagerID: &other, At: now})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "m2", *decided.ManagerID)

	_, applied, err = repo.ApplyTransition(ctx, leave.Transition{RequestID: created.ID, From: leave.StatusPending, To: leave.StatusCancelled, At: now})
	require.NoError(t, err)
	assert.False(t, applied)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}
