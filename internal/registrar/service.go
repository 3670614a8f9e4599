package registrar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/uniportal/uniportal/internal/authz"
	"github.com/uniportal/uniportal/internal/shared"
)

// PaymentWindow is how long a request may sit in pending_payment before the
// expiry job rejects it.
const PaymentWindow = 72 * time.Hour

type approvalRecorder interface {
	Record(ctx context.Context, log shared.ApprovalLog) error
	EnsureSubmit(ctx context.Context, module string, ref uuid.UUID, actorID int64, note string) error
	List(ctx context.Context, module string, ref uuid.UUID) ([]shared.ApprovalLog, error)
}

// Service provides business logic for registrar document requests.
type Service struct {
	repo      Repository
	approvals approvalRecorder
	logger    *slog.Logger
	now       func() time.Time

	policy authz.DocumentRequestPolicy
}

// NewService constructs a Service.
func NewService(repo Repository, approvals approvalRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, approvals: approvals, logger: logger, now: time.Now}
}

// Submit files a new document request for the acting student.
func (s *Service) Submit(ctx context.Context, actor authz.Actor, req SubmitRequest) (*DocumentRequest, error) {
	if !s.policy.Create(actor) {
		return nil, shared.ErrForbidden
	}
	d := DocumentRequest{
		ID:           uuid.New(),
		StudentID:    actor.ID,
		DocumentType: req.DocumentType,
		Copies:       req.Copies,
		Purpose:      req.Purpose,
		Status:       authz.DocumentRequestPending,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create document request: %w", err)
	}
	if err := s.approvals.Record(ctx, shared.ApprovalLog{
		Module:  shared.ApprovalModuleDocumentRequest,
		RefID:   d.ID,
		ActorID: actor.ID,
		Action:  shared.ApprovalSubmit,
	}); err != nil {
		s.logger.Error("record document request submit", slog.Any("error", err), slog.String("id", d.ID.String()))
	}
	return s.repo.Get(ctx, d.ID)
}

// Get returns one request if the actor may see it.
func (s *Service) Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*DocumentRequest, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.View(actor, d.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	return d, nil
}

// History returns the decision trail for a request, subject to the same
// visibility rules as the request itself.
func (s *Service) History(ctx context.Context, actor authz.Actor, id uuid.UUID) ([]shared.ApprovalLog, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.View(actor, d.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	return s.approvals.List(ctx, shared.ApprovalModuleDocumentRequest, id)
}

// List returns requests visible to the actor. Holders of only the own-records
// grant are pinned to their own student ID regardless of the requested filter.
func (s *Service) List(ctx context.Context, actor authz.Actor, f ListFilter) ([]DocumentRequest, int, error) {
	if !s.policy.ViewAny(actor) {
		return nil, 0, shared.ErrForbidden
	}
	if !actor.Can(authz.PermViewAllDocumentRequests) {
		own := actor.ID
		f.StudentID = &own
	}
	return s.repo.List(ctx, f)
}

// Update edits a request.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, req UpdateRequest) (*DocumentRequest, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Update(actor, d.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	if err := s.repo.Update(ctx, id, req); err != nil {
		return nil, fmt.Errorf("update document request: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a request.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.Delete(actor, d.Snapshot()) {
		return shared.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// AssessFee sets the fee on a pending request and opens the payment window.
func (s *Service) AssessFee(ctx context.Context, actor authz.Actor, id uuid.UUID, req AssessFeeRequest) (*DocumentRequest, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Process(actor) {
		return nil, shared.ErrForbidden
	}
	if d.Status != authz.DocumentRequestPending {
		return nil, shared.ErrInvalidStatus
	}
	deadline := s.now().Add(PaymentWindow)
	if err := s.repo.SetFee(ctx, id, req.Fee, deadline); err != nil {
		return nil, fmt.Errorf("assess fee: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// ConfirmPayment marks the assessed fee as paid.
func (s *Service) ConfirmPayment(ctx context.Context, actor authz.Actor, id uuid.UUID) (*DocumentRequest, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Can(authz.PermProcessPayments) {
		return nil, shared.ErrForbidden
	}
	if d.Status != authz.DocumentRequestPendingPayment {
		return nil, shared.ErrInvalidStatus
	}
	if err := s.repo.SetStatus(ctx, id, authz.DocumentRequestPaymentConfirmed, actor.ID, nil); err != nil {
		return nil, fmt.Errorf("confirm payment: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Approve moves a pending or paid request into processing. The policy folds
// in the status gate.
func (s *Service) Approve(ctx context.Context, actor authz.Actor, id uuid.UUID, req DecisionRequest) (*DocumentRequest, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Approve(actor, d.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	note := noteOrNil(req.Note)
	if err := s.repo.SetStatus(ctx, id, authz.DocumentRequestProcessing, actor.ID, note); err != nil {
		return nil, fmt.Errorf("approve document request: %w", err)
	}
	s.recordDecision(ctx, id, d.StudentID, actor.ID, shared.ApprovalApprove, req.Note)
	return s.repo.Get(ctx, id)
}

// Reject rejects a request. There is no status precondition.
func (s *Service) Reject(ctx context.Context, actor authz.Actor, id uuid.UUID, req DecisionRequest) (*DocumentRequest, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Reject(actor) {
		return nil, shared.ErrForbidden
	}
	note := noteOrNil(req.Note)
	if err := s.repo.SetStatus(ctx, id, authz.DocumentRequestRejected, actor.ID, note); err != nil {
		return nil, fmt.Errorf("reject document request: %w", err)
	}
	s.recordDecision(ctx, id, d.StudentID, actor.ID, shared.ApprovalReject, req.Note)
	return s.repo.Get(ctx, id)
}

// Refund refunds a paid or processing request.
func (s *Service) Refund(ctx context.Context, actor authz.Actor, id uuid.UUID, req DecisionRequest) (*DocumentRequest, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Refund(actor, d.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	note := noteOrNil(req.Note)
	if err := s.repo.SetStatus(ctx, id, authz.DocumentRequestRefunded, actor.ID, note); err != nil {
		return nil, fmt.Errorf("refund document request: %w", err)
	}
	s.recordDecision(ctx, id, d.StudentID, actor.ID, shared.ApprovalRefund, req.Note)
	return s.repo.Get(ctx, id)
}

// Generate stamps the requested documents as generated. The request must be
// in processing.
func (s *Service) Generate(ctx context.Context, actor authz.Actor, id uuid.UUID) (*DocumentRequest, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Generate(actor) {
		return nil, shared.ErrForbidden
	}
	if d.Status != authz.DocumentRequestProcessing {
		return nil, shared.ErrInvalidStatus
	}
	if err := s.repo.SetGenerated(ctx, id, s.now()); err != nil {
		return nil, fmt.Errorf("generate documents: %w", err)
	}
	if err := s.repo.SetStatus(ctx, id, authz.DocumentRequestReady, actor.ID, nil); err != nil {
		return nil, fmt.Errorf("mark ready: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Release hands the documents over to the student.
func (s *Service) Release(ctx context.Context, actor authz.Actor, id uuid.UUID) (*DocumentRequest, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Process(actor) {
		return nil, shared.ErrForbidden
	}
	if d.Status != authz.DocumentRequestReady {
		return nil, shared.ErrInvalidStatus
	}
	if err := s.repo.SetStatus(ctx, id, authz.DocumentRequestReleased, actor.ID, nil); err != nil {
		return nil, fmt.Errorf("release documents: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// ExpireUnpaid rejects requests whose payment window has elapsed. Called by
// the background worker, not a handler.
func (s *Service) ExpireUnpaid(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireUnpaid(ctx, s.now(), "payment window elapsed")
	if err != nil {
		return 0, fmt.Errorf("expire unpaid requests: %w", err)
	}
	if n > 0 {
		s.logger.Info("expired unpaid document requests", slog.Int64("count", n))
	}
	return n, nil
}

// recordDecision appends a decision entry, backfilling the submit entry first
// for requests that predate the audit trail.
func (s *Service) recordDecision(ctx context.Context, ref uuid.UUID, ownerID, actorID int64, action shared.ApprovalAction, note string) {
	if err := s.approvals.EnsureSubmit(ctx, shared.ApprovalModuleDocumentRequest, ref, ownerID, ""); err != nil {
		s.logger.Error("backfill submit entry", slog.Any("error", err), slog.String("ref", ref.String()))
	}
	err := s.approvals.Record(ctx, shared.ApprovalLog{
		Module:  shared.ApprovalModuleDocumentRequest,
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
