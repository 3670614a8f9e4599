package authz

// Organization is the snapshot of a student organization a policy decision
// needs. Organizations are public content; only management is gated, so the
// snapshot carries no fields yet.
type Organization struct {
	CreatedBy int64
}

// OrganizationPolicy decides student organization actions.
type OrganizationPolicy struct{}

// ViewAny always allows listing organizations.
func (OrganizationPolicy) ViewAny(Actor) bool { return true }

// View always allows viewing an organization.
func (OrganizationPolicy) View(Actor, Organization) bool { return true }

// Create reports whether the actor may register an organization.
func (OrganizationPolicy) Create(a Actor) bool {
	return a.Can(PermCreateOrganizations)
}

// Update reports whether the actor may edit the organization.
func (OrganizationPolicy) Update(a Actor, _ Organization) bool {
	return a.Can(PermUpdateOrganizations) || a.Can(PermManageOrganizations)
}

// Delete reports whether the actor may delete the organization.
func (OrganizationPolicy) Delete(a Actor, _ Organization) bool {
	return a.Can(PermDeleteOrganizations)
}

// Approve reports whether the actor may accredit the organization.
func (OrganizationPolicy) Approve(a Actor, _ Organization) bool {
	return a.Can(PermApproveOrganizations)
}

// ManageMembers reports whether the actor may manage the member roster.
func (OrganizationPolicy) ManageMembers(a Actor, _ Organization) bool {
	return a.Can(PermManageOrganizations)
}
