package authz

// Role is a named bundle of permissions assignable to a user. Users may hold
// any number of roles at once.
type Role string

const (
	// RoleStudent can submit applications, request documents, and view own data.
	RoleStudent Role = "student"
	// RoleSasStaff reviews scholarships and manages SAS content.
	RoleSasStaff Role = "sas_staff"
	// RoleSasAdmin holds every SAS staff grant plus high-value approvals.
	RoleSasAdmin Role = "sas_admin"
	// RoleRegistrarStaff processes document requests and payments.
	RoleRegistrarStaff Role = "registrar_staff"
	// RoleRegistrarAdmin holds every registrar staff grant plus refunds.
	RoleRegistrarAdmin Role = "registrar_admin"
	// RoleUsgOfficer manages USG announcements and resolutions.
	RoleUsgOfficer Role = "usg_officer"
	// RoleUsgAdmin holds every USG officer grant plus VMGO and officer management.
	RoleUsgAdmin Role = "usg_admin"
	// RoleSystemAdmin holds every permission in the catalog.
	RoleSystemAdmin Role = "system_admin"
)

// String returns the stable identifier persisted for this role.
func (r Role) String() string {
	return string(r)
}

// Label returns the display name for the role.
func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleSasStaff:
		return "SAS Staff"
	case RoleSasAdmin:
		return "SAS Administrator"
	case RoleRegistrarStaff:
		return "Registrar Staff"
	case RoleRegistrarAdmin:
		return "Registrar Administrator"
	case RoleUsgOfficer:
		return "USG Officer"
	case RoleUsgAdmin:
		return "USG Administrator"
	case RoleSystemAdmin:
		return "System Administrator"
	}
	return string(r)
}

// Description returns a short explanation of what the role is for.
func (r Role) Description() string {
	switch r {
	case RoleStudent:
		return "Student with access to submit applications and request documents"
	case RoleSasStaff:
		return "Student Affairs staff with access to review and manage scholarships"
	case RoleSasAdmin:
		return "Student Affairs administrator with full SAS module access"
	case RoleRegistrarStaff:
		return "Registrar staff with access to process document requests"
	case RoleRegistrarAdmin:
		return "Registrar administrator with full registrar module access"
	case RoleUsgOfficer:
		return "USG officer with access to manage announcements and resolutions"
	case RoleUsgAdmin:
		return "USG administrator with full USG module access"
	case RoleSystemAdmin:
		return "System administrator with full access to all modules"
	}
	return string(r)
}

// AllRoles lists the complete role catalog in a stable order.
func AllRoles() []Role {
	return []Role{
		RoleStudent,
		RoleSasStaff,
		RoleSasAdmin,
		RoleRegistrarStaff,
		RoleRegistrarAdmin,
		RoleUsgOfficer,
		RoleUsgAdmin,
		RoleSystemAdmin,
	}
}

// StaffRoles lists every non-student role.
func StaffRoles() []Role {
	return []Role{
		RoleSasStaff,
		RoleSasAdmin,
		RoleRegistrarStaff,
		RoleRegistrarAdmin,
		RoleUsgOfficer,
		RoleUsgAdmin,
		RoleSystemAdmin,
	}
}

// AdminRoles lists the roles with administrative privileges.
func AdminRoles() []Role {
	return []Role{
		RoleSasAdmin,
		RoleRegistrarAdmin,
		RoleUsgAdmin,
		RoleSystemAdmin,
	}
}

// SASRoles lists the roles scoped to the SAS module.
func SASRoles() []Role {
	return []Role{RoleSasStaff, RoleSasAdmin}
}

// RegistrarRoles lists the roles scoped to the registrar module.
func RegistrarRoles() []Role {
	return []Role{RoleRegistrarStaff, RoleRegistrarAdmin}
}

// USGRoles lists the roles scoped to the USG module.
func USGRoles() []Role {
	return []Role{RoleUsgOfficer, RoleUsgAdmin}
}

// IsAdmin reports whether the role carries administrative privileges.
func (r Role) IsAdmin() bool {
	for _, admin := range AdminRoles() {
		if r == admin {
			return true
		}
	}
	return false
}

// IsSystemAdmin reports whether the role is the system administrator.
func (r Role) IsSystemAdmin() bool {
	return r == RoleSystemAdmin
}

// IsStudent reports whether the role is the student role.
func (r Role) IsStudent() bool {
	return r == RoleStudent
}

// IsStaff reports whether the role is a staff role.
func (r Role) IsStaff() bool {
	for _, staff := range StaffRoles() {
		if r == staff {
			return true
		}
	}
	return false
}
