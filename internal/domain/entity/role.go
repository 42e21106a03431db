package entity

import "fmt"

// Role is the closed set of actor roles known to the system
type Role string

const (
	RoleAdministrator Role = "administrator"
	RolePhysician     Role = "physician"
	RoleNurse         Role = "nurse"
	RoleIntern        Role = "intern"
	RoleReceptionist  Role = "receptionist"
	RolePatient       Role = "patient"
)

// Roles lists every role in a stable order
var Roles = []Role{
	RoleAdministrator,
	RolePhysician,
	RoleNurse,
	RoleIntern,
	RoleReceptionist,
	RolePatient,
}

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// IsStaff reports whether r is a hospital staff role
func (r Role) IsStaff() bool {
	return r.IsValid() && r != RolePatient
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a raw role name into a Role
func ParseRole(name string) (Role, error) {
	role := Role(name)
	if !role.IsValid() {
		return "", fmt.Errorf("unknown role %q", name)
	}
	return role, nil
}
