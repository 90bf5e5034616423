package domain

import "time"

// Role represents a trip member's access level.
type Role string

const (
	// RoleOwner created the trip and has full access.
	RoleOwner Role = "owner"

	// RoleEditor can record expenses and settlements.
	RoleEditor Role = "editor"

	// RoleViewer can only view balances and history.
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleOwner:  true,
	RoleEditor: true,
	RoleViewer: true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanEdit checks if the role may mutate the trip ledger.
func (r Role) CanEdit() bool {
	return r == RoleOwner || r == RoleEditor
}

// CanView checks if the role may read the trip ledger.
func (r Role) CanView() bool {
	return r.IsValid()
}

// Member represents a trip participant. Identity is immutable once the
// invitation is accepted; only the role may change.
type Member struct {
	ID        string
	TripID    string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}
