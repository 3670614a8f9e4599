package authz

// ScholarshipStatus is the lifecycle stage of a scholarship application.
type ScholarshipStatus string

const (
	ScholarshipPendingReview    ScholarshipStatus = "pending_review"
	ScholarshipPendingDocuments ScholarshipStatus = "pending_documents"
	ScholarshipUnderReview      ScholarshipStatus = "under_review"
	ScholarshipApproved         ScholarshipStatus = "approved"
	ScholarshipRejected         ScholarshipStatus = "rejected"
	ScholarshipDisbursed        ScholarshipStatus = "disbursed"
)

// ScholarshipApprovalThreshold is the peso amount at and above which approval
// requires the over-20k permission. The boundary is strict: only amounts
// strictly below it qualify for the under-20k permission.
const ScholarshipApprovalThreshold = 20000

// Scholarship is the snapshot of a scholarship application a policy decision
// needs. Amount is a pointer because partially populated applications may not
// carry one yet; a missing amount is treated as zero.
type Scholarship struct {
	StudentID int64
	Status    ScholarshipStatus
	Amount    *float64
}

// ScholarshipPolicy decides scholarship actions, including the amount-based
// approval threshold.
type ScholarshipPolicy struct{}

// ViewAny reports whether the actor may list scholarships at all.
func (ScholarshipPolicy) ViewAny(a Actor) bool {
	return a.Can(PermViewAllScholarships) || a.Can(PermViewOwnScholarships)
}

// View reports whether the actor may see this scholarship. The own-records
// grant never reaches into another student's application.
func (ScholarshipPolicy) View(a Actor, s Scholarship) bool {
	if a.HasRole(RoleSystemAdmin) {
		return true
	}
	if a.Can(PermViewAllScholarships) {
		return true
	}
	if a.Can(PermViewOwnScholarships) {
		return s.StudentID == a.ID
	}
	return false
}

// Create reports whether the actor may submit a scholarship application.
func (ScholarshipPolicy) Create(a Actor) bool {
	return a.Can(PermSubmitScholarshipApplication)
}

// Update reports whether the actor may edit the application. Students may
// only touch their own application while it is still pending.
func (ScholarshipPolicy) Update(a Actor, s Scholarship) bool {
	if a.HasRole(RoleSystemAdmin) {
		return true
	}
	if a.HasAnyRole(RoleSasStaff, RoleSasAdmin) {
		return true
	}
	if a.ID == s.StudentID {
		return s.Status == ScholarshipPendingReview || s.Status == ScholarshipPendingDocuments
	}
	return false
}

// Delete reports whether the actor may remove the application. Admin roles
// may always delete; the owning student only while the application is still
// pending, mirroring Update.
func (ScholarshipPolicy) Delete(a Actor, s Scholarship) bool {
	if a.HasAnyRole(RoleSystemAdmin, RoleSasAdmin) {
		return true
	}
	if a.ID == s.StudentID {
		return s.Status == ScholarshipPendingReview || s.Status == ScholarshipPendingDocuments
	}
	return false
}

// Review reports whether the actor may move the application into review.
func (ScholarshipPolicy) Review(a Actor) bool {
	return a.Can(PermReviewScholarships)
}

// Approve reports whether the actor may approve the application. The status
// gate is checked before any permission: only pending or in-review
// applications are approvable. Which permission is required depends on the
// amount: strictly below the threshold the under-20k grant suffices, at or
// above it only the over-20k grant does. SystemAdmin bypasses both checks.
func (ScholarshipPolicy) Approve(a Actor, s Scholarship) bool {
	if a.HasRole(RoleSystemAdmin) {
		return true
	}
	if s.Status != ScholarshipPendingReview && s.Status != ScholarshipUnderReview {
		return false
	}
	amount := 0.0
	if s.Amount != nil {
		amount = *s.Amount
	}
	if amount < ScholarshipApprovalThreshold {
		return a.Can(PermApproveScholarshipsUnder20k)
	}
	return a.Can(PermApproveScholarshipsOver20k)
}

// Reject reports whether the actor may reject applications. Unlike Approve
// there is no status precondition: rejection stays available to permission
// holders regardless of the current stage.
func (ScholarshipPolicy) Reject(a Actor) bool {
	return a.Can(PermRejectScholarships)
}

// Disburse reports whether the actor may release funds. Only approved
// applications can be disbursed.
func (ScholarshipPolicy) Disburse(a Actor, s Scholarship) bool {
	if s.Status != ScholarshipApproved {
		return false
	}
	return a.Can(PermDisburseScholarships)
}

// ViewReports reports whether the actor may see SAS reports.
func (ScholarshipPolicy) ViewReports(a Actor) bool {
	return a.Can(PermViewSasReports)
}
