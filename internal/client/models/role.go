package models

// Role is the only authorization axis the API exposes.
type Role string

const (
	RoleUser   Role = "user"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.level() > 0
}

// AtLeast checks whether r meets or exceeds target in the
// user < editor < admin hierarchy. Unknown roles never qualify.
func (r Role) AtLeast(target Role) bool {
	return r.level() > 0 && r.level() >= target.level()
}

func (r Role) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleEditor:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
