package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentRequestViewOwnership(t *testing.T) {
	policy := DocumentRequestPolicy{}
	owner := roleActor(t, 1, RoleStudent)
	other := roleActor(t, 2, RoleStudent)
	staff := roleActor(t, 3, RoleRegistrarStaff)

	req := DocumentRequest{StudentID: 1, Status: DocumentRequestPending}

	assert.True(t, policy.ViewAny(owner))
	assert.True(t, policy.View(owner, req))
	assert.False(t, policy.View(other, req))
	assert.True(t, policy.View(staff, req))
}

func TestDocumentRequestCreate(t *testing.T) {
	policy := DocumentRequestPolicy{}
	assert.True(t, policy.Create(roleActor(t, 1, RoleStudent)))
	assert.False(t, policy.Create(roleActor(t, 2, RoleRegistrarStaff)))
}

func TestDocumentRequestUpdateStatusGate(t *testing.T) {
	policy := DocumentRequestPolicy{}
	student := roleActor(t, 1, RoleStudent)
	staff := roleActor(t, 2, RoleRegistrarStaff)

	assert.True(t, policy.Update(student, DocumentRequest{StudentID: 1, Status: DocumentRequestPendingPayment}))
	assert.False(t, policy.Update(student, DocumentRequest{StudentID: 1, Status: DocumentRequestProcessing}))
	assert.False(t, policy.Update(student, DocumentRequest{StudentID: 5, Status: DocumentRequestPendingPayment}))
	assert.True(t, policy.Update(staff, DocumentRequest{StudentID: 5, Status: DocumentRequestProcessing}))
}

func TestDocumentRequestDelete(t *testing.T) {
	policy := DocumentRequestPolicy{}
	req := DocumentRequest{StudentID: 1, Status: DocumentRequestPending}

	assert.True(t, policy.Delete(roleActor(t, 2, RoleRegistrarAdmin), req))
	assert.True(t, policy.Delete(roleActor(t, 3, RoleSystemAdmin), req))
	assert.False(t, policy.Delete(roleActor(t, 4, RoleRegistrarStaff), req))
	assert.False(t, policy.Delete(roleActor(t, 1, RoleStudent), req))
}

func TestDocumentRequestApproveStatusGate(t *testing.T) {
	policy := DocumentRequestPolicy{}
	staff := roleActor(t, 1, RoleRegistrarStaff)

	assert.True(t, policy.Approve(staff, DocumentRequest{Status: DocumentRequestPending}))
	assert.True(t, policy.Approve(staff, DocumentRequest{Status: DocumentRequestPaymentConfirmed}))
	assert.False(t, policy.Approve(staff, DocumentRequest{Status: DocumentRequestProcessing}))
	assert.False(t, policy.Approve(staff, DocumentRequest{Status: DocumentRequestReleased}))
}

func TestDocumentRequestRejectHasNoStatusGate(t *testing.T) {
	policy := DocumentRequestPolicy{}
	assert.True(t, policy.Reject(roleActor(t, 1, RoleRegistrarStaff)))
	assert.False(t, policy.Reject(roleActor(t, 2, RoleStudent)))
}

func TestDocumentRequestRefundStatusGate(t *testing.T) {
	policy := DocumentRequestPolicy{}
	admin := roleActor(t, 1, RoleRegistrarAdmin)
	staff := roleActor(t, 2, RoleRegistrarStaff)

	assert.True(t, policy.Refund(admin, DocumentRequest{Status: DocumentRequestPaymentConfirmed}))
	assert.True(t, policy.Refund(admin, DocumentRequest{Status: DocumentRequestProcessing}))
	assert.False(t, policy.Refund(admin, DocumentRequest{Status: DocumentRequestPendingPayment}),
		"unpaid requests cannot be refunded regardless of permission")
	assert.False(t, policy.Refund(staff, DocumentRequest{Status: DocumentRequestProcessing}),
		"staff lack the refund grant")
}

func TestDocumentRequestProcessAndGenerate(t *testing.T) {
	policy := DocumentRequestPolicy{}
	staff := roleActor(t, 1, RoleRegistrarStaff)
	student := roleActor(t, 2, RoleStudent)

	assert.True(t, policy.Process(staff))
	assert.True(t, policy.Generate(staff))
	assert.False(t, policy.Process(student))
	assert.False(t, policy.Generate(student))
}
