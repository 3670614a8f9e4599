package registrar

import (
	"time"

	"github.com/google/uuid"

	"github.com/uniportal/uniportal/internal/authz"
)

// DocumentRequest is a stored registrar document request.
type DocumentRequest struct {
	ID              uuid.UUID                   `json:"id"`
	StudentID       int64                       `json:"student_id"`
	DocumentType    string                      `json:"document_type"`
	Copies          int                         `json:"copies"`
	Purpose         string                      `json:"purpose"`
	Fee             *float64                    `json:"fee,omitempty"`
	Status          authz.DocumentRequestStatus `json:"status"`
	Remarks         *string                     `json:"remarks,omitempty"`
	PaymentDeadline *time.Time                  `json:"payment_deadline,omitempty"`
	GeneratedAt     *time.Time                  `json:"generated_at,omitempty"`
	DecidedBy       *int64                      `json:"decided_by,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// Snapshot projects the fields policy decisions look at.
func (d DocumentRequest) Snapshot() authz.DocumentRequest {
	return authz.DocumentRequest{StudentID: d.StudentID, Status: d.Status}
}

// SubmitRequest carries a new document request.
type SubmitRequest struct {
	DocumentType string `json:"document_type" validate:"required,max=100"`
	Copies       int    `json:"copies" validate:"required,min=1,max=20"`
	Purpose      string `json:"purpose" validate:"required,max=500"`
}

// UpdateRequest carries a partial document request update.
type UpdateRequest struct {
	DocumentType *string `json:"document_type" validate:"omitempty,max=100"`
	Copies       *int    `json:"copies" validate:"omitempty,min=1,max=20"`
	Purpose      *string `json:"purpose" validate:"omitempty,max=500"`
}

// AssessFeeRequest carries the fee assessed for a pending request.
type AssessFeeRequest struct {
	Fee float64 `json:"fee" validate:"required,gt=0"`
}

// DecisionRequest carries an optional note for approve/reject/refund.
type DecisionRequest struct {
	Note string `json:"note" validate:"max=1000"`
}

// ListFilter narrows a document request listing.
type ListFilter struct {
	StudentID *int64
	Status    *authz.DocumentRequestStatus
	Limit     int
	Offset    int
}
