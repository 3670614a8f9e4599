package authz

// DocumentRequestStatus is the lifecycle stage of a registrar document request.
type DocumentRequestStatus string

const (
	DocumentRequestPending          DocumentRequestStatus = "pending"
	DocumentRequestPendingPayment   DocumentRequestStatus = "pending_payment"
	DocumentRequestPaymentConfirmed DocumentRequestStatus = "payment_confirmed"
	DocumentRequestProcessing       DocumentRequestStatus = "processing"
	DocumentRequestReady            DocumentRequestStatus = "ready_for_pickup"
	DocumentRequestReleased         DocumentRequestStatus = "released"
	DocumentRequestRejected         DocumentRequestStatus = "rejected"
	DocumentRequestRefunded         DocumentRequestStatus = "refunded"
)

// DocumentRequest is the snapshot a policy decision needs.
type DocumentRequest struct {
	StudentID int64
	Status    DocumentRequestStatus
}

// DocumentRequestPolicy decides document request actions.
type DocumentRequestPolicy struct{}

// ViewAny reports whether the actor may list document requests at all.
func (DocumentRequestPolicy) ViewAny(a Actor) bool {
	return a.Can(PermViewAllDocumentRequests) || a.Can(PermViewOwnDocumentRequests)
}

// View reports whether the actor may see this request.
func (DocumentRequestPolicy) View(a Actor, d DocumentRequest) bool {
	if a.Can(PermViewAllDocumentRequests) {
		return true
	}
	if a.Can(PermViewOwnDocumentRequests) {
		return d.StudentID == a.ID
	}
	return false
}

// Create reports whether the actor may file a document request.
func (DocumentRequestPolicy) Create(a Actor) bool {
	return a.Can(PermRequestDocuments)
}

// Update reports whether the actor may edit the request. Students may only
// edit their own request while it still awaits payment.
func (DocumentRequestPolicy) Update(a Actor, d DocumentRequest) bool {
	if a.Can(PermProcessDocumentRequests) {
		return true
	}
	if a.ID == d.StudentID {
		return d.Status == DocumentRequestPendingPayment
	}
	return false
}

// Delete reports whether the actor may remove the request.
func (DocumentRequestPolicy) Delete(a Actor, _ DocumentRequest) bool {
	return a.HasAnyRole(RoleSystemAdmin, RoleRegistrarAdmin)
}

// Process reports whether the actor may work the request.
func (DocumentRequestPolicy) Process(a Actor) bool {
	return a.Can(PermProcessDocumentRequests)
}

// Approve reports whether the actor may approve the request. Only pending or
// paid requests can be approved; the status gate is checked first.
func (DocumentRequestPolicy) Approve(a Actor, d DocumentRequest) bool {
	if d.Status != DocumentRequestPending && d.Status != DocumentRequestPaymentConfirmed {
		return false
	}
	return a.Can(PermApproveDocumentRequests)
}

// Reject reports whether the actor may reject requests. No status gate, by
// contrast with Approve.
func (DocumentRequestPolicy) Reject(a Actor) bool {
	return a.Can(PermRejectDocumentRequests)
}

// Generate reports whether the actor may generate the requested documents.
func (DocumentRequestPolicy) Generate(a Actor) bool {
	return a.Can(PermGenerateDocuments)
}

// Refund reports whether the actor may refund the request. Only requests
// whose payment was confirmed or that are already processing can be refunded.
func (DocumentRequestPolicy) Refund(a Actor, d DocumentRequest) bool {
	if d.Status != DocumentRequestPaymentConfirmed && d.Status != DocumentRequestProcessing {
		return false
	}
	return a.Can(PermIssueRefunds)
}
