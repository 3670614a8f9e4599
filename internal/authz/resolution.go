package authz

// Resolution is the snapshot of a USG resolution a policy decision needs.
type Resolution struct {
	CreatedBy int64
	Status    ContentStatus
}

// ResolutionPolicy decides USG resolution actions.
type ResolutionPolicy struct{}

// ViewAny always allows listing resolutions.
func (ResolutionPolicy) ViewAny(Actor) bool { return true }

// View always allows viewing a resolution.
func (ResolutionPolicy) View(Actor, Resolution) bool { return true }

// Create reports whether the actor may file resolutions.
func (ResolutionPolicy) Create(a Actor) bool {
	return a.Can(PermCreateResolutions)
}

// Update reports whether the actor may edit the resolution. USG roles may
// always edit; the creator only while it is not yet published.
func (ResolutionPolicy) Update(a Actor, r Resolution) bool {
	if a.HasAnyRole(RoleSystemAdmin, RoleUsgOfficer, RoleUsgAdmin) {
		return true
	}
	if r.CreatedBy == a.ID && r.Status != ContentPublished {
		return true
	}
	return false
}

// Delete reports whether the actor may delete the resolution.
func (ResolutionPolicy) Delete(a Actor, _ Resolution) bool {
	return a.Can(PermDeleteResolutions)
}

// Publish reports whether the actor may publish the resolution.
func (ResolutionPolicy) Publish(a Actor, _ Resolution) bool {
	return a.Can(PermPublishResolutions)
}

// Manage reports whether the actor may manage resolutions generally.
func (ResolutionPolicy) Manage(a Actor) bool {
	return a.Can(PermManageResolutions)
}
