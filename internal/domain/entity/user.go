package entity

// User roles. At least one admin-role user must exist at all times.
const (
	RoleAdmin     = "admin"
	RoleDoctor    = "doctor"
	RoleSecretary = "secretary"
)

// User is a staff account stored inside the canonical document.
// Password holds a bcrypt hash, never plaintext.
type User struct {
	ID              string   `json:"id"`
	Username        string   `json:"username"`
	Password        string   `json:"password"`
	Role            string   `json:"role"`
	Name            string   `json:"name"`
	AssignedClinics []string `json:"assignedClinics"`
	DefaultClinic   string   `json:"defaultClinic"`
}

// IsAssignedTo reports whether the user may operate in the given clinic.
func (u *User) IsAssignedTo(clinicID string) bool {
	for _, id := range u.AssignedClinics {
		if id == clinicID {
			return true
		}
	}
	return false
}

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDoctor, RoleSecretary:
		return true
	}
	return false
}
