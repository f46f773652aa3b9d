package auth

import "github.com/google/uuid"

// Role identifies what kind of account a user registered as. The numeric
// codes are part of the wire format: they appear in token claims and in the
// user_role column, so they must stay stable.
type Role int

const (
	RolePatient    Role = 1
	RoleCounselor  Role = 2
	RoleResearcher Role = 4
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleCounselor, RoleResearcher:
		return true
	}
	return false
}

func (r Role) String() string {
	switch r {
	case RolePatient:
		return "patient"
	case RoleCounselor:
		return "counselor"
	case RoleResearcher:
		return "researcher"
	}
	return "unknown"
}

// Identity is the resolved caller: the live user row matching a verified
// token. Role here comes from storage, never from token claims.
type Identity struct {
	ID       uuid.UUID
	FullName string
	Email    string
	Role     Role
}
