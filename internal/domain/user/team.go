package user

import "context"

// Team returns the users a reviewer oversees: a manager's direct reports, or
// every non-admin user for an admin. Employees have no team.
func Team(ctx context.Context, repo UserRepository, actor Principal) ([]User, error) {
	switch a := actor.(type) {
	case Admin:
		all, err := repo.List(ctx, Filter{})
		if err != nil {
			return nil, err
		}
		team := make([]User, 0, len(all))
		for _, u := range all {
			if !u.IsAdmin() {
				team = append(team, u)
			}
		}
		return team, nil
	case Manager:
		id := a.ID()
		return repo.List(ctx, Filter{ManagerID: &id})
	default:
		return nil, ErrManagerAccessRequired
	}
}

// IDs lists the IDs of users in order.
func IDs(users []User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
