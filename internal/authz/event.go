package authz

// ContentStatus is the publication stage shared by events and resolutions.
type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentPublished ContentStatus = "published"
	ContentArchived  ContentStatus = "archived"
)

// Event is the snapshot of a campus event a policy decision needs.
type Event struct {
	CreatedBy int64
	Status    ContentStatus
}

// EventPolicy decides event actions. Events are public content: anyone may
// view, mutation is gated.
type EventPolicy struct{}

// ViewAny always allows listing events.
func (EventPolicy) ViewAny(Actor) bool { return true }

// View always allows viewing an event.
func (EventPolicy) View(Actor, Event) bool { return true }

// Create reports whether the actor may create events.
func (EventPolicy) Create(a Actor) bool {
	return a.Can(PermCreateEvents)
}

// Update reports whether the actor may edit the event. SAS roles may always
// edit; the creator only while the event is not yet published.
func (EventPolicy) Update(a Actor, e Event) bool {
	if a.HasAnyRole(RoleSystemAdmin, RoleSasStaff, RoleSasAdmin) {
		return true
	}
	if e.CreatedBy == a.ID && e.Status != ContentPublished {
		return true
	}
	return false
}

// Delete reports whether the actor may delete the event.
func (EventPolicy) Delete(a Actor, _ Event) bool {
	return a.Can(PermDeleteEvents)
}

// Publish reports whether the actor may publish the event.
func (EventPolicy) Publish(a Actor, _ Event) bool {
	return a.Can(PermPublishEvents)
}

// Manage reports whether the actor may manage events generally.
func (EventPolicy) Manage(a Actor) bool {
	return a.Can(PermManageEvents)
}
