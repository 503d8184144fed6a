package enums

// Role is the closed set of account roles. Authorization decisions are
// made against this enumeration only, never against raw strings.
type Role string

const (
	ROLE_STUDENT    Role = "student"
	ROLE_INSTRUCTOR Role = "instructor"
	ROLE_ADMIN      Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case ROLE_STUDENT, ROLE_INSTRUCTOR, ROLE_ADMIN:
		return true
	}
	return false
}
