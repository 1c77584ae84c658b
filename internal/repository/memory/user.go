package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
)

type userRecord struct {
	user.User
}

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) user.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.Email == newUser.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	now := time.Now().UTC()
	newUser.ID = newID()
	newUser.CreatedAt = now
	newUser.UpdatedAt = now
	newUser.ManagerID = clonePtr(newUser.ManagerID)
	r.store.users[newUser.ID] = userRecord{newUser}
	return newUser, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.Email == email {
			return copyUser(u.User), nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return copyUser(u.User), nil
}

func (r *userRepository) List(ctx context.Context, filter user.Filter) ([]user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := []user.User{}
	for _, u := range r.store.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.ManagerID != nil && !u.ReportsTo(*filter.ManagerID) {
			continue
		}
		users = append(users, copyUser(u.User))
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].Email < users[j].Email
	})
	return users, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role user.Role) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var n int64
	for _, u := range r.store.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *userRepository) update(id string, fn func(u *user.User) error) (user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	if err := fn(&rec.User); err != nil {
		return user.User{}, err
	}
	rec.UpdatedAt = time.Now().UTC()
	r.store.users[id] = rec
	return copyUser(rec.User), nil
}

func (r *userRepository) UpdateManager(ctx context.Context, userID string, managerID *string) (user.User, error) {
	return r.update(userID, func(u *user.User) error {
		u.ManagerID = clonePtr(managerID)
		return nil
	})
}

func (r *userRepository) UpdateRole(ctx context.Context, userID string, role user.Role) (user.User, error) {
	return r.update(userID, func(u *user.User) error {
		if u.Role == user.RoleManager && role != user.RoleManager {
			for _, other := range r.store.users {
				if other.ReportsTo(u.ID) {
					return user.ErrManagerHasReports
				}
			}
		}
		u.Role = role
		return nil
	})
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash string, mustReset bool) error {
	_, err := r.update(userID, func(u *user.User) error {
		u.PasswordHash = passwordHash
		u.MustResetPassword = mustReset
		return nil
	})
	return err
}

func copyUser(u user.User) user.User {
	u.ManagerID = clonePtr(u.ManagerID)
	return u
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
