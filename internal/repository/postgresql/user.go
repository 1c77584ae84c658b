package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, password_hash, role, manager_id, must_reset_password, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.ManagerID,
		&u.MustResetPassword,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, user.ErrUserNotFound
	}
	return u, err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return user.User{}, fmt.Errorf("generate user id: %w", err)
	}

	query := `
		INSERT INTO users (id, name, email, password_hash, role, manager_id, must_reset_password)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		id.String(),
		newUser.Name,
		newUser.Email,
		newUser.PasswordHash,
		string(newUser.Role),
		newUser.ManagerID,
		newUser.MustResetPassword,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, err
	}
	return created, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(q.QueryRow(ctx, query, email))
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	id, ok := parseID(id)
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.QueryRow(ctx, query, id))
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.Filter) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	if filter.Role != nil {
		args = append(args, string(*filter.Role))
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.ManagerID != nil {
		managerID, ok := parseID(*filter.ManagerID)
		if !ok {
			return []user.User{}, nil
		}
		args = append(args, managerID)
		conditions = append(conditions, fmt.Sprintf("manager_id = $%d", len(args)))
	}

	query := `SELECT ` + userColumns + ` FROM users`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY name, email`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountByRole implements user.UserRepository.
func (r *userRepositoryImpl) CountByRole(ctx context.Context, role user.Role) (int64, error) {
	q := GetQuerier(ctx, r.db)
	var count int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, string(role)).Scan(&count)
	return count, err
}

// UpdateManager implements user.UserRepository.
func (r *userRepositoryImpl) UpdateManager(ctx context.Context, userID string, managerID *string) (user.User, error) {
	userID, ok := parseID(userID)
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	if managerID != nil {
		id, ok := parseID(*managerID)
		if !ok {
			return user.User{}, user.ErrUserNotFound
		}
		managerID = &id
	}
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE users
		SET manager_id = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(q.QueryRow(ctx, query, userID, managerID))
}

// UpdateRole implements user.UserRepository. A manager who still has direct
// reports keeps the role.
func (r *userRepositoryImpl) UpdateRole(ctx context.Context, userID string, role user.Role) (user.User, error) {
	userID, ok := parseID(userID)
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	var updated user.User
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var current user.Role
		err := q.QueryRow(ctx, `SELECT role FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return user.ErrUserNotFound
		}
		if err != nil {
			return err
		}

		if current == user.RoleManager && role != user.RoleManager {
			var reports int64
			if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE manager_id = $1`, userID).Scan(&reports); err != nil {
				return err
			}
			if reports > 0 {
				return user.ErrManagerHasReports
			}
		}

		query := `
			UPDATE users
			SET role = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING ` + userColumns
		updated, err = scanUser(q.QueryRow(ctx, query, userID, string(role)))
		return err
	})
	if err != nil {
		return user.User{}, err
	}
	return updated, nil
}

// UpdatePassword implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, userID, passwordHash string, mustReset bool) error {
	userID, ok := parseID(userID)
	if !ok {
		return user.ErrUserNotFound
	}
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE users
		SET password_hash = $2, must_reset_password = $3, updated_at = NOW()
		WHERE id = $1
	`, userID, passwordHash, mustReset)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
