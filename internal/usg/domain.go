package usg

import (
	"time"

	"github.com/google/uuid"

	"github.com/uniportal/uniportal/internal/authz"
)

// Announcement is a stored USG announcement. PublishedAt is nil while it is
// still a draft.
type Announcement struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	CreatedBy   int64      `json:"created_by"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Snapshot projects the fields policy decisions look at.
func (a Announcement) Snapshot() authz.Announcement {
	return authz.Announcement{CreatedBy: a.CreatedBy, PublishedAt: a.PublishedAt}
}

// Resolution is a stored USG resolution.
type Resolution struct {
	ID        uuid.UUID           `json:"id"`
	Number    string              `json:"number"`
	Title     string              `json:"title"`
	Body      string              `json:"body"`
	Status    authz.ContentStatus `json:"status"`
	CreatedBy int64               `json:"created_by"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Snapshot projects the fields policy decisions look at.
func (r Resolution) Snapshot() authz.Resolution {
	return authz.Resolution{CreatedBy: r.CreatedBy, Status: r.Status}
}

// CreateAnnouncementRequest carries a new announcement.
type CreateAnnouncementRequest struct {
	Title string `json:"title" validate:"required,max=255"`
	Body  string `json:"body" validate:"required"`
}

// UpdateAnnouncementRequest carries a partial announcement update.
type UpdateAnnouncementRequest struct {
	Title *string `json:"title" validate:"omitempty,max=255"`
	Body  *string `json:"body"`
}

// CreateResolutionRequest carries a new resolution.
type CreateResolutionRequest struct {
	Number string `json:"number" validate:"required,max=50"`
	Title  string `json:"title" validate:"required,max=255"`
	Body   string `json:"body" validate:"required"`
}

// UpdateResolutionRequest carries a partial resolution update.
type UpdateResolutionRequest struct {
	Number *string `json:"number" validate:"omitempty,max=50"`
	Title  *string `json:"title" validate:"omitempty,max=255"`
	Body   *string `json:"body"`
}
