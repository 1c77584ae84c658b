package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := newUserRepo(db)
	ctx := context.Background()

	created := seedUser(t, repo, "ana@example.com", user.RoleEmployee, nil)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, "0190f8a4-0000-7000-8000-000000000000")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = repo.Create(ctx, user.User{Name: "dup", Email: "ana@example.com", PasswordHash: "x", Role: user.RoleEmployee})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestUserRepository_ListAndManager(t *testing.T) {
	db := newTestDB(t)
	repo := newUserRepo(db)
	ctx := context.Background()

	mgr := seedUser(t, repo, "mgr@example.com", user.RoleManager, nil)
	emp := seedUser(t, repo, "emp@example.com", user.RoleEmployee, nil)

	updated, err := repo.UpdateManager(ctx, emp.ID, &mgr.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ManagerID)
	assert.Equal(t, mgr.ID, *updated.ManagerID)

	team, err := repo.List(ctx, user.Filter{ManagerID: &mgr.ID})
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, emp.ID, team[0].ID)

	role := user.RoleManager
	managers, err := repo.List(ctx, user.Filter{Role: &role})
	require.NoError(t, err)
	assert.Len(t, managers, 1)

	count, err := repo.CountByRole(ctx, user.RoleEmployee)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, err = repo.UpdateRole(ctx, mgr.ID, user.RoleEmployee)
	assert.ErrorIs(t, err, user.ErrManagerHasReports)

	_, err = repo.UpdateManager(ctx, emp.ID, nil)
	require.NoError(t, err)
	demoted, err := repo.UpdateRole(ctx, mgr.ID, user.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, user.RoleEmployee, demoted.Role)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db := newTestDB(t)
	repo := newUserRepo(db)
	ctx := context.Background()

	u := seedUser(t, repo, "pw@example.com", user.RoleEmployee, nil)
	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash", true))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.True(t, got.MustResetPassword)

	err = repo.UpdatePassword(ctx, "0190f8a4-0000-7000-8000-000000000000", "x", false)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestRepositories_MalformedIDsAreNotFound(t *testing.T) {
	db := newTestDB(t)
	users := newUserRepo(db)
	timesheets := postgresql.NewTimesheetRepository(db)
	requests := postgresql.NewLeaveRequestRepository(db)
	ctx := context.Background()
	at := time.Now().UTC()

	mgr := seedUser(t, users, "bad-ids@example.com", user.RoleManager, nil)

	for _, id := range []string{"abc", "", "1; DROP TABLE users", "0190f8a4-0000-7000-8000-00000000000"} {
		t.Run(id, func(t *testing.T) {
			_, err := users.GetByID(ctx, id)
			assert.ErrorIs(t, err, user.ErrUserNotFound)

			_, err = users.UpdateManager(ctx, id, nil)
			assert.ErrorIs(t, err, user.ErrUserNotFound)

			_, err = users.UpdateManager(ctx, mgr.ID, &id)
			assert.ErrorIs(t, err, user.ErrUserNotFound)

			_, err = users.UpdateRole(ctx, id, user.RoleEmployee)
			assert.ErrorIs(t, err, user.ErrUserNotFound)

			assert.ErrorIs(t, users.UpdatePassword(ctx, id, "hash", false), user.ErrUserNotFound)

			listed, err := users.List(ctx, user.Filter{ManagerID: &id})
			require.NoError(t, err)
			assert.Empty(t, listed)

			_, err = timesheets.GetByID(ctx, id)
			assert.ErrorIs(t, err, timesheet.ErrTimesheetNotFound)

			_, _, err = timesheets.ApplyReview(ctx, timesheet.Review{TimesheetID: id, Decision: timesheet.DecisionApprove, ReviewerID: mgr.ID, At: at}, timesheet.DecisionApprove.AllowedFrom())
			assert.ErrorIs(t, err, timesheet.ErrTimesheetNotFound)

			_, err = requests.GetByID(ctx, id)
			assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

			_, _, err = requests.ApplyTransition(ctx, leave.Transition{RequestID: id, From: leave.StatusPending, To: leave.StatusCancelled, At: at})
			assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
		})
	}
}
