package roster

// =============================================================================
// ROLE-BASED VISIBILITY
// =============================================================================

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// User is the authenticated viewer, as reported by the external user store.
type User struct {
	Name string
	Role Role
}

// VisibleEmployees returns the subset of the roster the user may see:
// admins see everyone, employees see only their own row. Pure function,
// testable independently of any rendering.
func VisibleEmployees(roster []Employee, user User) []Employee {
	if user.Role == RoleAdmin {
		out := make([]Employee, len(roster))
		copy(out, roster)
		return out
	}

	var out []Employee
	for _, emp := range roster {
		if emp.Name == user.Name {
			out = append(out, emp)
		}
	}
	return out
}
