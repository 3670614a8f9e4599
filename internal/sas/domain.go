package sas

import (
	"time"

	"github.com/google/uuid"

	"github.com/uniportal/uniportal/internal/authz"
)

// Scholarship is a stored scholarship application.
type Scholarship struct {
	ID        uuid.UUID               `json:"id"`
	StudentID int64                   `json:"student_id"`
	Program   string                  `json:"program"`
	Amount    *float64                `json:"amount,omitempty"`
	Status    authz.ScholarshipStatus `json:"status"`
	Remarks   *string                 `json:"remarks,omitempty"`
	DecidedBy *int64                  `json:"decided_by,omitempty"`
	DecidedAt *time.Time              `json:"decided_at,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// Snapshot projects the fields policy decisions look at.
func (s Scholarship) Snapshot() authz.Scholarship {
	return authz.Scholarship{StudentID: s.StudentID, Status: s.Status, Amount: s.Amount}
}

// Event is a stored campus event.
type Event struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Location    string              `json:"location"`
	StartsAt    time.Time           `json:"starts_at"`
	EndsAt      time.Time           `json:"ends_at"`
	Status      authz.ContentStatus `json:"status"`
	CreatedBy   int64               `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Snapshot projects the fields policy decisions look at.
func (e Event) Snapshot() authz.Event {
	return authz.Event{CreatedBy: e.CreatedBy, Status: e.Status}
}

// Organization is a stored student organization.
type Organization struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Accredited  bool      `json:"accredited"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot projects the fields policy decisions look at.
func (o Organization) Snapshot() authz.Organization {
	return authz.Organization{CreatedBy: o.CreatedBy}
}

// SubmitScholarshipRequest carries a new scholarship application.
type SubmitScholarshipRequest struct {
	Program string   `json:"program" validate:"required,max=255"`
	Amount  *float64 `json:"amount" validate:"omitempty,gte=0"`
}

// UpdateScholarshipRequest carries a partial scholarship update.
type UpdateScholarshipRequest struct {
	Program *string  `json:"program" validate:"omitempty,max=255"`
	Amount  *float64 `json:"amount" validate:"omitempty,gte=0"`
}

// DecisionRequest carries an optional note for approve/reject/disburse.
type DecisionRequest struct {
	Note string `json:"note" validate:"max=1000"`
}

// ListScholarshipsFilter narrows a scholarship listing.
type ListScholarshipsFilter struct {
	StudentID *int64
	Status    *authz.ScholarshipStatus
	Limit     int
	Offset    int
}

// CreateEventRequest carries a new event.
type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description"`
	Location    string    `json:"location" validate:"max=255"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtefield=StartsAt"`
}

// UpdateEventRequest carries a partial event update.
type UpdateEventRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=255"`
	Description *string    `json:"description"`
	Location    *string    `json:"location" validate:"omitempty,max=255"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

// CreateOrganizationRequest carries a new student organization.
type CreateOrganizationRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

// UpdateOrganizationRequest carries a partial organization update.
type UpdateOrganizationRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}
