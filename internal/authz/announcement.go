package authz

import "time"

// Announcement is the snapshot of a USG announcement a policy decision needs.
// PublishedAt is nil while the announcement is still a draft.
type Announcement struct {
	CreatedBy   int64
	PublishedAt *time.Time
}

// AnnouncementPolicy decides USG announcement actions.
type AnnouncementPolicy struct{}

// ViewAny always allows listing announcements.
func (AnnouncementPolicy) ViewAny(Actor) bool { return true }

// View always allows viewing an announcement.
func (AnnouncementPolicy) View(Actor, Announcement) bool { return true }

// Create reports whether the actor may create announcements.
func (AnnouncementPolicy) Create(a Actor) bool {
	return a.Can(PermCreateAnnouncements)
}

// Update reports whether the actor may edit the announcement. USG roles may
// always edit; the creator only while it has not been published.
func (AnnouncementPolicy) Update(a Actor, ann Announcement) bool {
	if a.HasAnyRole(RoleSystemAdmin, RoleUsgOfficer, RoleUsgAdmin) {
		return true
	}
	if ann.CreatedBy == a.ID && ann.PublishedAt == nil {
		return true
	}
	return false
}

// Delete reports whether the actor may delete the announcement.
func (AnnouncementPolicy) Delete(a Actor, _ Announcement) bool {
	return a.Can(PermDeleteAnnouncements)
}

// Publish reports whether the actor may publish the announcement.
func (AnnouncementPolicy) Publish(a Actor, _ Announcement) bool {
	return a.Can(PermPublishAnnouncements)
}

// Manage reports whether the actor may manage announcements generally.
func (AnnouncementPolicy) Manage(a Actor) bool {
	return a.Can(PermManageAnnouncements)
}
