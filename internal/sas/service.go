package sas

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/uniportal/uniportal/internal/authz"
	"github.com/uniportal/uniportal/internal/shared"
)

type approvalRecorder interface {
	Record(ctx context.Context, log shared.ApprovalLog) error
	EnsureSubmit(ctx context.Context, module string, ref uuid.UUID, actorID int64, note string) error
	List(ctx context.Context, module string, ref uuid.UUID) ([]shared.ApprovalLog, error)
}

// Service provides business logic for the student affairs module. Every
// mutation consults the matching policy before touching storage.
type Service struct {
	repo      Repository
	approvals approvalRecorder
	logger    *slog.Logger

	scholarships  authz.ScholarshipPolicy
	events        authz.EventPolicy
	organizations authz.OrganizationPolicy
}

// NewService constructs a Service.
func NewService(repo Repository, approvals approvalRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, approvals: approvals, logger: logger}
}

// ============================================================================
// SCHOLARSHIPS
// ============================================================================

// SubmitScholarship files a new application for the acting student.
func (s *Service) SubmitScholarship(ctx context.Context, actor authz.Actor, req SubmitScholarshipRequest) (*Scholarship, error) {
	if !s.scholarships.Create(actor) {
		return nil, shared.ErrForbidden
	}
	app := Scholarship{
		ID:        uuid.New(),
		StudentID: actor.ID,
		Program:   req.Program,
		Amount:    req.Amount,
		Status:    authz.ScholarshipPendingReview,
	}
	if err := s.repo.CreateScholarship(ctx, app); err != nil {
		return nil, fmt.Errorf("create scholarship: %w", err)
	}
	if err := s.approvals.Record(ctx, shared.ApprovalLog{
		Module:  shared.ApprovalModuleScholarship,
		RefID:   app.ID,
		ActorID: actor.ID,
		Action:  shared.ApprovalSubmit,
	}); err != nil {
		s.logger.Error("record scholarship submit", slog.Any("error", err), slog.String("id", app.ID.String()))
	}
	return s.repo.GetScholarship(ctx, app.ID)
}

// GetScholarship returns one application if the actor may see it.
func (s *Service) GetScholarship(ctx context.Context, actor authz.Actor, id uuid.UUID) (*Scholarship, error) {
	app, err := s.repo.GetScholarship(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.scholarships.View(actor, app.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	return app, nil
}

// ScholarshipHistory returns the decision trail for an application, subject
// to the same visibility rules as the application itself.
func (s *Service) ScholarshipHistory(ctx context.Context, actor authz.Actor, id uuid.UUID) ([]shared.ApprovalLog, error) {
	app, err := s.repo.GetScholarship(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.scholarships.View(actor, app.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	return s.approvals.List(ctx, shared.ApprovalModuleScholarship, id)
}

// ListScholarships returns applications visible to the actor. Holders of only
// the own-records grant are pinned to their own student ID regardless of the
// requested filter.
func (s *Service) ListScholarships(ctx context.Context, actor authz.Actor, f ListScholarshipsFilter) ([]Scholarship, int, error) {
	if !s.scholarships.ViewAny(actor) {
		return nil, 0, shared.ErrForbidden
	}
	if !actor.Can(authz.PermViewAllScholarships) && !actor.HasRole(authz.RoleSystemAdmin) {
		own := actor.ID
		f.StudentID = &own
	}
	return s.repo.ListScholarships(ctx, f)
}

// UpdateScholarship edits an application.
func (s *Service) UpdateScholarship(ctx context.Context, actor authz.Actor, id uuid.UUID, req UpdateScholarshipRequest) (*Scholarship, error) {
	app, err := s.repo.GetScholarship(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.scholarships.Update(actor, app.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	if err := s.repo.UpdateScholarship(ctx, id, req.Program, req.Amount); err != nil {
		return nil, fmt.Errorf("update scholarship: %w", err)
	}
	return s.repo.GetScholarship(ctx, id)
}

// DeleteScholarship removes an application.
func (s *Service) DeleteScholarship(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	app, err := s.repo.GetScholarship(ctx, id)
	if err != nil {
		return err
	}
	if !s.scholarships.Delete(actor, app.Snapshot()) {
		return shared.ErrForbidden
	}
	return s.repo.DeleteScholarship(ctx, id)
}

// ReviewScholarship moves a pending application into review.
func (s *Service) ReviewScholarship(ctx context.Context, actor authz.Actor, id uuid.UUID) (*Scholarship, error) {
	app, err := s.repo.GetScholarship(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.scholarships.Review(actor) {
		return nil, shared.ErrForbidden
	}
	if app.Status != authz.ScholarshipPendingReview && app.Status != authz.ScholarshipPendingDocuments {
		return nil, shared.ErrInvalidStatus
	}
	if err := s.repo.SetScholarshipStatus(ctx, id, authz.ScholarshipUnderReview, actor.ID, nil); err != nil {
		return nil, fmt.Errorf("review scholarship: %w", err)
	}
	return s.repo.GetScholarship(ctx, id)
}

// ApproveScholarship approves an application. The policy folds in the status
// gate and the amount threshold, so a denial covers both.
func (s *Service) ApproveScholarship(ctx context.Context, actor authz.Actor, id uuid.UUID, req DecisionRequest) (*Scholarship, error) {
	app, err := s.repo.GetScholarship(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.scholarships.Approve(actor, app.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	note := noteOrNil(req.Note)
	if err := s.repo.SetScholarshipStatus(ctx, id, authz.ScholarshipApproved, actor.ID, note); err != nil {
		return nil, fmt.Errorf("approve scholarship: %w", err)
	}
	s.recordDecision(ctx, id, app.StudentID, actor.ID, shared.ApprovalApprove, req.Note)
	return s.repo.GetScholarship(ctx, id)
}

// RejectScholarship rejects an application. There is no status precondition.
func (s *Service) RejectScholarship(ctx context.Context, actor authz.Actor, id uuid.UUID, req DecisionRequest) (*Scholarship, error) {
	app, err := s.repo.GetScholarship(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.scholarships.Reject(actor) {
		return nil, shared.ErrForbidden
	}
	note := noteOrNil(req.Note)
	if err := s.repo.SetScholarshipStatus(ctx, id, authz.ScholarshipRejected, actor.ID, note); err != nil {
		return nil, fmt.Errorf("reject scholarship: %w", err)
	}
	s.recordDecision(ctx, id, app.StudentID, actor.ID, shared.ApprovalReject, req.Note)
	return s.repo.GetScholarship(ctx, id)
}

// DisburseScholarship releases funds for an approved application.
func (s *Service) DisburseScholarship(ctx context.Context, actor authz.Actor, id uuid.UUID, req DecisionRequest) (*Scholarship, error) {
	app, err := s.repo.GetScholarship(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.scholarships.Disburse(actor, app.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	note := noteOrNil(req.Note)
	if err := s.repo.SetScholarshipStatus(ctx, id, authz.ScholarshipDisbursed, actor.ID, note); err != nil {
		return nil, fmt.Errorf("disburse scholarship: %w", err)
	}
	s.recordDecision(ctx, id, app.StudentID, actor.ID, shared.ApprovalDisburse, req.Note)
	return s.repo.GetScholarship(ctx, id)
}

// recordDecision appends a decision entry, backfilling the submit entry first
// for applications that predate the audit trail.
func (s *Service) recordDecision(ctx context.Context, ref uuid.UUID, ownerID, actorID int64, action shared.ApprovalAction, note string) {
	if err := s.approvals.EnsureSubmit(ctx, shared.ApprovalModuleScholarship, ref, ownerID, ""); err != nil {
		s.logger.Error("backfill submit entry", slog.Any("error", err), slog.String("ref", ref.String()))
	}
	err := s.approvals.Record(ctx, shared.ApprovalLog{
		Module:  shared.ApprovalModuleScholarship,
		RefID:   ref,
		ActorID: actorID,
		Action:  action,
		Note:    note,
	})
	if err != nil {
		s.logger.Error("record decision", slog.Any("error", err),
			slog.String("ref", ref.String()), slog.String("action", string(action)))
	}
}

func noteOrNil(note string) *string {
	if note == "" {
		return nil
	}
	return &note
}

// ============================================================================
// EVENTS
// ============================================================================

// CreateEvent creates a draft event.
func (s *Service) CreateEvent(ctx context.Context, actor authz.Actor, req CreateEventRequest) (*Event, error) {
	if !s.events.Create(actor) {
		return nil, shared.ErrForbidden
	}
	ev := Event{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Status:      authz.ContentDraft,
		CreatedBy:   actor.ID,
	}
	if err := s.repo.CreateEvent(ctx, ev); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return s.repo.GetEvent(ctx, ev.ID)
}

// GetEvent returns one event. Events are public content.
func (s *Service) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	return s.repo.GetEvent(ctx, id)
}

// ListEvents returns events. Events are public content.
func (s *Service) ListEvents(ctx context.Context, limit, offset int) ([]Event, int, error) {
	return s.repo.ListEvents(ctx, limit, offset)
}

// UpdateEvent edits an event.
func (s *Service) UpdateEvent(ctx context.Context, actor authz.Actor, id uuid.UUID, req UpdateEventRequest) (*Event, error) {
	ev, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.events.Update(actor, ev.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	if err := s.repo.UpdateEvent(ctx, id, req); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return s.repo.GetEvent(ctx, id)
}

// PublishEvent publishes a draft event.
func (s *Service) PublishEvent(ctx context.Context, actor authz.Actor, id uuid.UUID) (*Event, error) {
	ev, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.events.Publish(actor, ev.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	if ev.Status != authz.ContentDraft {
		return nil, shared.ErrInvalidStatus
	}
	if err := s.repo.SetEventStatus(ctx, id, authz.ContentPublished); err != nil {
		return nil, fmt.Errorf("publish event: %w", err)
	}
	return s.repo.GetEvent(ctx, id)
}

// DeleteEvent removes an event.
func (s *Service) DeleteEvent(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	ev, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if !s.events.Delete(actor, ev.Snapshot()) {
		return shared.ErrForbidden
	}
	return s.repo.DeleteEvent(ctx, id)
}

// ============================================================================
// ORGANIZATIONS
// ============================================================================

// CreateOrganization registers a new student organization.
func (s *Service) CreateOrganization(ctx context.Context, actor authz.Actor, req CreateOrganizationRequest) (*Organization, error) {
	if !s.organizations.Create(actor) {
		return nil, shared.ErrForbidden
	}
	org := Organization{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actor.ID,
	}
	if err := s.repo.CreateOrganization(ctx, org); err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}
	return s.repo.GetOrganization(ctx, org.ID)
}

// GetOrganization returns one organization. Organizations are public content.
func (s *Service) GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error) {
	return s.repo.GetOrganization(ctx, id)
}

// ListOrganizations returns organizations. Organizations are public content.
func (s *Service) ListOrganizations(ctx context.Context, limit, offset int) ([]Organization, int, error) {
	return s.repo.ListOrganizations(ctx, limit, offset)
}

// UpdateOrganization edits an organization.
func (s *Service) UpdateOrganization(ctx context.Context, actor authz.Actor, id uuid.UUID, req UpdateOrganizationRequest) (*Organization, error) {
	org, err := s.repo.GetOrganization(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.organizations.Update(actor, org.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	if err := s.repo.UpdateOrganization(ctx, id, req); err != nil {
		return nil, fmt.Errorf("update organization: %w", err)
	}
	return s.repo.GetOrganization(ctx, id)
}

// AccreditOrganization marks an organization as accredited.
func (s *Service) AccreditOrganization(ctx context.Context, actor authz.Actor, id uuid.UUID) (*Organization, error) {
	org, err := s.repo.GetOrganization(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.organizations.Approve(actor, org.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	if err := s.repo.SetOrganizationAccredited(ctx, id, true); err != nil {
		return nil, fmt.Errorf("accredit organization: %w", err)
	}
	return s.repo.GetOrganization(ctx, id)
}

// DeleteOrganization removes an organization.
func (s *Service) DeleteOrganization(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	org, err := s.repo.GetOrganization(ctx, id)
	if err != nil {
		return err
	}
	if !s.organizations.Delete(actor, org.Snapshot()) {
		return shared.ErrForbidden
	}
	return s.repo.DeleteOrganization(ctx, id)
}
