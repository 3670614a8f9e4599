// Package authz implements the role, permission, and policy model for the
// portal. Catalogs are closed enumerations, role grants are composed by set
// union, and every policy decision is a pure function over an Actor and a
// resource snapshot.
package authz

import "strings"

// Permission is an atomic capability an actor may hold.
type Permission string

// SAS module permissions.
const (
	PermSubmitScholarshipApplication Permission = "submit_scholarship_application"
	PermViewOwnScholarships          Permission = "view_own_scholarships"
	PermViewAllScholarships          Permission = "view_all_scholarships"
	PermReviewScholarships           Permission = "review_scholarships"
	PermApproveScholarshipsUnder20k  Permission = "approve_scholarships_under_20k"
	PermApproveScholarshipsOver20k   Permission = "approve_scholarships_over_20k"
	PermRejectScholarships           Permission = "reject_scholarships"
	PermDisburseScholarships         Permission = "disburse_scholarships"

	PermViewOrganizations    Permission = "view_organizations"
	PermManageOrganizations  Permission = "manage_organizations"
	PermCreateOrganizations  Permission = "create_organizations"
	PermUpdateOrganizations  Permission = "update_organizations"
	PermDeleteOrganizations  Permission = "delete_organizations"
	PermApproveOrganizations Permission = "approve_organizations"

	PermViewEvents    Permission = "view_events"
	PermCreateEvents  Permission = "create_events"
	PermManageEvents  Permission = "manage_events"
	PermUpdateEvents  Permission = "update_events"
	PermDeleteEvents  Permission = "delete_events"
	PermPublishEvents Permission = "publish_events"

	PermViewOwnInsuranceRecords Permission = "view_own_insurance_records"
	PermViewAllInsuranceRecords Permission = "view_all_insurance_records"
	PermSubmitInsuranceRecords  Permission = "submit_insurance_records"
	PermManageInsuranceRecords  Permission = "manage_insurance_records"
	PermApproveInsuranceRecords Permission = "approve_insurance_records"

	PermAccessSasModule Permission = "access_sas_module"
	PermViewSasReports  Permission = "view_sas_reports"
)

// Registrar module permissions.
const (
	PermRequestDocuments        Permission = "request_documents"
	PermViewOwnDocumentRequests Permission = "view_own_document_requests"
	PermViewAllDocumentRequests Permission = "view_all_document_requests"
	PermProcessDocumentRequests Permission = "process_document_requests"
	PermApproveDocumentRequests Permission = "approve_document_requests"
	PermRejectDocumentRequests  Permission = "reject_document_requests"
	PermGenerateDocuments       Permission = "generate_documents"

	PermMakePayments         Permission = "make_payments"
	PermViewOwnPayments      Permission = "view_own_payments"
	PermViewAllPayments      Permission = "view_all_payments"
	PermProcessPayments      Permission = "process_payments"
	PermIssueRefunds         Permission = "issue_refunds"
	PermManualReconciliation Permission = "manual_reconciliation"

	PermAccessRegistrarModule Permission = "access_registrar_module"
	PermViewRegistrarReports  Permission = "view_registrar_reports"
)

// USG module permissions.
const (
	PermViewVmgo   Permission = "view_vmgo"
	PermManageVmgo Permission = "manage_vmgo"
	PermUpdateVmgo Permission = "update_vmgo"

	PermViewOfficers   Permission = "view_officers"
	PermManageOfficers Permission = "manage_officers"
	PermCreateOfficers Permission = "create_officers"
	PermUpdateOfficers Permission = "update_officers"
	PermDeleteOfficers Permission = "delete_officers"

	PermViewAnnouncements    Permission = "view_announcements"
	PermManageAnnouncements  Permission = "manage_announcements"
	PermCreateAnnouncements  Permission = "create_announcements"
	PermUpdateAnnouncements  Permission = "update_announcements"
	PermDeleteAnnouncements  Permission = "delete_announcements"
	PermPublishAnnouncements Permission = "publish_announcements"

	PermViewResolutions    Permission = "view_resolutions"
	PermManageResolutions  Permission = "manage_resolutions"
	PermCreateResolutions  Permission = "create_resolutions"
	PermUpdateResolutions  Permission = "update_resolutions"
	PermDeleteResolutions  Permission = "delete_resolutions"
	PermPublishResolutions Permission = "publish_resolutions"

	PermViewUsgCalendar   Permission = "view_usg_calendar"
	PermManageUsgCalendar Permission = "manage_usg_calendar"

	PermAccessUsgModule Permission = "access_usg_module"
	PermAccessUsgAdmin  Permission = "access_usg_admin"
)

// System-wide permissions.
const (
	PermViewOwnRecords      Permission = "view_own_records"
	PermManageUsers         Permission = "manage_users"
	PermCreateUsers         Permission = "create_users"
	PermUpdateUsers         Permission = "update_users"
	PermDeleteUsers         Permission = "delete_users"
	PermAssignRoles         Permission = "assign_roles"
	PermManageRoles         Permission = "manage_roles"
	PermManagePermissions   Permission = "manage_permissions"
	PermViewAllModules      Permission = "view_all_modules"
	PermSystemConfiguration Permission = "system_configuration"
	PermViewSystemLogs      Permission = "view_system_logs"
	PermViewAuditLogs       Permission = "view_audit_logs"
	PermAccessAdminPanel    Permission = "access_admin_panel"
)

// String returns the stable identifier persisted for this permission.
func (p Permission) String() string {
	return string(p)
}

// Label returns a human readable form of the permission name.
func (p Permission) Label() string {
	return strings.ReplaceAll(string(p), "_", " ")
}

// SASPermissions lists every permission belonging to the SAS module.
func SASPermissions() []Permission {
	return []Permission{
		PermSubmitScholarshipApplication,
		PermViewOwnScholarships,
		PermViewAllScholarships,
		PermReviewScholarships,
		PermApproveScholarshipsUnder20k,
		PermApproveScholarshipsOver20k,
		PermRejectScholarships,
		PermDisburseScholarships,
		PermViewOrganizations,
		PermManageOrganizations,
		PermCreateOrganizations,
		PermUpdateOrganizations,
		PermDeleteOrganizations,
		PermApproveOrganizations,
		PermViewEvents,
		PermCreateEvents,
		PermManageEvents,
		PermUpdateEvents,
		PermDeleteEvents,
		PermPublishEvents,
		PermViewOwnInsuranceRecords,
		PermViewAllInsuranceRecords,
		PermSubmitInsuranceRecords,
		PermManageInsuranceRecords,
		PermApproveInsuranceRecords,
		PermAccessSasModule,
		PermViewSasReports,
	}
}

// RegistrarPermissions lists every permission belonging to the registrar module.
func RegistrarPermissions() []Permission {
	return []Permission{
		PermRequestDocuments,
		PermViewOwnDocumentRequests,
		PermViewAllDocumentRequests,
		PermProcessDocumentRequests,
		PermApproveDocumentRequests,
		PermRejectDocumentRequests,
		PermGenerateDocuments,
		PermMakePayments,
		PermViewOwnPayments,
		PermViewAllPayments,
		PermProcessPayments,
		PermIssueRefunds,
		PermManualReconciliation,
		PermAccessRegistrarModule,
		PermViewRegistrarReports,
	}
}

// USGPermissions lists every permission belonging to the USG module.
func USGPermissions() []Permission {
	return []Permission{
		PermViewVmgo,
		PermManageVmgo,
		PermUpdateVmgo,
		PermViewOfficers,
		PermManageOfficers,
		PermCreateOfficers,
		PermUpdateOfficers,
		PermDeleteOfficers,
		PermViewAnnouncements,
		PermManageAnnouncements,
		PermCreateAnnouncements,
		PermUpdateAnnouncements,
		PermDeleteAnnouncements,
		PermPublishAnnouncements,
		PermViewResolutions,
		PermManageResolutions,
		PermCreateResolutions,
		PermUpdateResolutions,
		PermDeleteResolutions,
		PermPublishResolutions,
		PermViewUsgCalendar,
		PermManageUsgCalendar,
		PermAccessUsgModule,
		PermAccessUsgAdmin,
	}
}

// SystemPermissions lists every system-wide permission.
func SystemPermissions() []Permission {
	return []Permission{
		PermViewOwnRecords,
		PermManageUsers,
		PermCreateUsers,
		PermUpdateUsers,
		PermDeleteUsers,
		PermAssignRoles,
		PermManageRoles,
		PermManagePermissions,
		PermViewAllModules,
		PermSystemConfiguration,
		PermViewSystemLogs,
		PermViewAuditLogs,
		PermAccessAdminPanel,
	}
}

// AllPermissions lists the complete permission catalog. The order is stable
// so catalog syncs stay reproducible.
func AllPermissions() []Permission {
	var all []Permission
	all = append(all, SASPermissions()...)
	all = append(all, RegistrarPermissions()...)
	all = append(all, USGPermissions()...)
	all = append(all, SystemPermissions()...)
	return all
}
