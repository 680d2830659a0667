package access

type Role string

const (
	RoleUser   Role = "user"
	RoleBarber Role = "barber"
	RoleAdmin  Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleBarber, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Actor is the authenticated caller. Role is resolved from the store on
// every request, never from the token.
type Actor struct {
	ID   uint
	Role Role
}

// Elevated reports barber or admin. The two carry the same privileges.
func (a Actor) Elevated() bool {
	return a.Role == RoleBarber || a.Role == RoleAdmin
}

// CanActOn reports whether the actor may mutate a resource owned by ownerID.
func (a Actor) CanActOn(ownerID uint) bool {
	return a.Elevated() || (a.ID != 0 && a.ID == ownerID)
}
