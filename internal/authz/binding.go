package authz

import (
	"fmt"
	"sort"
)

// ErrUnknownRole is returned when a role outside the catalog is looked up.
// Hitting it means a configuration bug, not a runtime condition.
var ErrUnknownRole = fmt.Errorf("authz: unknown role")

// PermissionSet is an unordered set of permissions.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from the given permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the permission.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// ContainsAll reports whether every member of other is in the set.
func (s PermissionSet) ContainsAll(other PermissionSet) bool {
	for p := range other {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// Slice returns the members sorted by identifier, for reproducible seeding.
func (s PermissionSet) Slice() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// union combines permission lists into a fresh set. Admin grants are always
// expressed as union(staff grants, extras) so the staff-superset property
// holds for any future catalog change.
func union(lists ...[]Permission) PermissionSet {
	set := make(PermissionSet)
	for _, list := range lists {
		for _, p := range list {
			set[p] = struct{}{}
		}
	}
	return set
}

// Bindings is the static role to permission-set table. It is built once at
// startup and treated as an immutable snapshot by every decision.
type Bindings struct {
	grants map[Role]PermissionSet
}

func studentGrants() []Permission {
	return []Permission{
		PermSubmitScholarshipApplication,
		PermViewOwnScholarships,
		PermViewOwnInsuranceRecords,
		PermSubmitInsuranceRecords,
		PermRequestDocuments,
		PermViewOwnDocumentRequests,
		PermMakePayments,
		PermViewOwnPayments,
		PermViewOwnRecords,
		PermViewVmgo,
		PermViewOfficers,
		PermViewAnnouncements,
		PermViewResolutions,
		PermViewUsgCalendar,
		PermViewEvents,
		PermViewOrganizations,
	}
}

func sasStaffGrants() []Permission {
	return []Permission{
		PermViewAllScholarships,
		PermReviewScholarships,
		PermApproveScholarshipsUnder20k,
		PermRejectScholarships,
		PermViewOrganizations,
		PermManageOrganizations,
		PermCreateOrganizations,
		PermUpdateOrganizations,
		PermApproveOrganizations,
		PermViewEvents,
		PermCreateEvents,
		PermManageEvents,
		PermUpdateEvents,
		PermPublishEvents,
		PermViewAllInsuranceRecords,
		PermManageInsuranceRecords,
		PermApproveInsuranceRecords,
		PermAccessSasModule,
	}
}

func registrarStaffGrants() []Permission {
	return []Permission{
		PermViewAllDocumentRequests,
		PermProcessDocumentRequests,
		PermApproveDocumentRequests,
		PermRejectDocumentRequests,
		PermGenerateDocuments,
		PermViewAllPayments,
		PermProcessPayments,
		PermAccessRegistrarModule,
	}
}

func usgOfficerGrants() []Permission {
	return []Permission{
		PermViewVmgo,
		PermViewOfficers,
		PermViewAnnouncements,
		PermManageAnnouncements,
		PermCreateAnnouncements,
		PermUpdateAnnouncements,
		PermPublishAnnouncements,
		PermViewResolutions,
		PermManageResolutions,
		PermCreateResolutions,
		PermUpdateResolutions,
		PermPublishResolutions,
		PermViewUsgCalendar,
		PermAccessUsgModule,
	}
}

// DefaultBindings returns the canonical role to permission mapping. Each
// admin set is the corresponding staff set plus a delta; SystemAdmin is the
// union of all four catalog groups.
func DefaultBindings() Bindings {
	grants := map[Role]PermissionSet{
		RoleStudent:  union(studentGrants()),
		RoleSasStaff: union(sasStaffGrants()),
		RoleSasAdmin: union(sasStaffGrants(), []Permission{
			PermApproveScholarshipsOver20k,
			PermDisburseScholarships,
			PermDeleteOrganizations,
			PermDeleteEvents,
			PermViewSasReports,
		}),
		RoleRegistrarStaff: union(registrarStaffGrants()),
		RoleRegistrarAdmin: union(registrarStaffGrants(), []Permission{
			PermIssueRefunds,
			PermManualReconciliation,
			PermViewRegistrarReports,
		}),
		RoleUsgOfficer: union(usgOfficerGrants()),
		RoleUsgAdmin: union(usgOfficerGrants(), []Permission{
			PermManageVmgo,
			PermUpdateVmgo,
			PermManageOfficers,
			PermCreateOfficers,
			PermUpdateOfficers,
			PermDeleteOfficers,
			PermDeleteAnnouncements,
			PermDeleteResolutions,
			PermManageUsgCalendar,
			PermAccessUsgAdmin,
		}),
		RoleSystemAdmin: union(
			SASPermissions(),
			RegistrarPermissions(),
			USGPermissions(),
			SystemPermissions(),
		),
	}
	return Bindings{grants: grants}
}

// PermissionsFor returns a copy of the permission set granted to the role.
// Unknown roles are a contract violation and return ErrUnknownRole.
func (b Bindings) PermissionsFor(role Role) (PermissionSet, error) {
	set, ok := b.grants[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	out := make(PermissionSet, len(set))
	for p := range set {
		out[p] = struct{}{}
	}
	return out, nil
}

// Roles returns every role with an entry in the binding, in catalog order.
func (b Bindings) Roles() []Role {
	out := make([]Role, 0, len(b.grants))
	for _, role := range AllRoles() {
		if _, ok := b.grants[role]; ok {
			out = append(out, role)
		}
	}
	return out
}

// Validate checks the closed-world invariants: every role in the catalog has
// a binding, and every granted permission exists in the catalog. Call it at
// startup and before seeding so configuration mistakes fail fast.
func (b Bindings) Validate() error {
	catalog := NewPermissionSet(AllPermissions()...)
	for _, role := range AllRoles() {
		set, ok := b.grants[role]
		if !ok {
			return fmt.Errorf("authz: role %q has no permission binding", role)
		}
		for p := range set {
			if !catalog.Has(p) {
				return fmt.Errorf("authz: role %q grants unknown permission %q", role, p)
			}
		}
	}
	for role := range b.grants {
		known := false
		for _, r := range AllRoles() {
			if role == r {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: binding for %q", ErrUnknownRole, role)
		}
	}
	return nil
}
