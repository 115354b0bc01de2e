package user

import "time"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// User is the minimal identity surface the engine needs: who may approve
// requests (role, team) and whether approvals may still target the account.
type User struct {
	ID        string
	FullName  string
	Role      Role
	TeamID    *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanApproveFor reports whether u may arbitrate requests owned by target.
// Admins approve anything; managers approve within their own team. Owners
// never approve their own requests regardless of role.
func (u User) CanApproveFor(target User) bool {
	if u.ID == target.ID {
		return false
	}
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return u.TeamID != nil && target.TeamID != nil && *u.TeamID == *target.TeamID
	default:
		return false
	}
}
