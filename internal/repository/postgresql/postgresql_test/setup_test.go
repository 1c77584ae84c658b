package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to TEST_DATABASE_URL, applies migrations and empties
// every table. Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.RunMigrations(db))

	_, err = db.Exec(ctx, "TRUNCATE TABLE leave_requests, timesheets, refresh_tokens, users CASCADE")
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, repo user.UserRepository, email string, role user.Role, managerID *string) user.User {
	t.Helper()
	u, err := repo.Create(context.Background(), user.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		ManagerID:    managerID,
	})
	require.NoError(t, err)
	return u
}

func newUserRepo(db *database.DB) user.UserRepository {
	return postgresql.NewUserRepository(db)
}
