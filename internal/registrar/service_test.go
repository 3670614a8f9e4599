package registrar

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniportal/uniportal/internal/authz"
	"github.com/uniportal/uniportal/internal/shared"
)

type memoryRepo struct {
	requests map[uuid.UUID]DocumentRequest
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{requests: make(map[uuid.UUID]DocumentRequest)}
}

func (m *memoryRepo) Create(_ context.Context, d DocumentRequest) error {
	m.requests[d.ID] = d
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id uuid.UUID) (*DocumentRequest, error) {
	d, ok := m.requests[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &d, nil
}

func (m *memoryRepo) List(_ context.Context, f ListFilter) ([]DocumentRequest, int, error) {
	var out []DocumentRequest
	for _, d := range m.requests {
		if f.StudentID != nil && d.StudentID != *f.StudentID {
			continue
		}
		if f.Status != nil && d.Status != *f.Status {
			continue
		}
		out = append(out, d)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Update(_ context.Context, id uuid.UUID, req UpdateRequest) error {
	d, ok := m.requests[id]
	if !ok {
		return shared.ErrNotFound
	}
	if req.DocumentType != nil {
		d.DocumentType = *req.DocumentType
	}
	if req.Copies != nil {
		d.Copies = *req.Copies
	}
	if req.Purpose != nil {
		d.Purpose = *req.Purpose
	}
	m.requests[id] = d
	return nil
}

func (m *memoryRepo) SetFee(_ context.Context, id uuid.UUID, fee float64, deadline time.Time) error {
	d, ok := m.requests[id]
	if !ok {
		return shared.ErrNotFound
	}
	d.Fee = &fee
	d.PaymentDeadline = &deadline
	d.Status = authz.DocumentRequestPendingPayment
	m.requests[id] = d
	return nil
}

func (m *memoryRepo) SetStatus(_ context.Context, id uuid.UUID, status authz.DocumentRequestStatus, decidedBy int64, remarks *string) error {
	d, ok := m.requests[id]
	if !ok {
		return shared.ErrNotFound
	}
	d.Status = status
	d.DecidedBy = &decidedBy
	if remarks != nil {
		d.Remarks = remarks
	}
	m.requests[id] = d
	return nil
}

func (m *memoryRepo) SetGenerated(_ context.Context, id uuid.UUID, at time.Time) error {
	d, ok := m.requests[id]
	if !ok {
		return shared.ErrNotFound
	}
	d.GeneratedAt = &at
	m.requests[id] = d
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.requests[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.requests, id)
	return nil
}

func (m *memoryRepo) ExpireUnpaid(_ context.Context, cutoff time.Time, remarks string) (int64, error) {
	var n int64
	for id, d := range m.requests {
		if d.Status != authz.DocumentRequestPendingPayment || d.PaymentDeadline == nil {
			continue
		}
		if d.PaymentDeadline.Before(cutoff) {
			d.Status = authz.DocumentRequestRejected
			d.Remarks = &remarks
			m.requests[id] = d
			n++
		}
	}
	return n, nil
}

type recorderSpy struct {
	logs []shared.ApprovalLog
}

func (r *recorderSpy) Record(_ context.Context, log shared.ApprovalLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *recorderSpy) EnsureSubmit(_ context.Context, module string, ref uuid.UUID, actorID int64, note string) error {
	for _, l := range r.logs {
		if l.Module == module && l.RefID == ref && l.Action == shared.ApprovalSubmit {
			return nil
		}
	}
	r.logs = append(r.logs, shared.ApprovalLog{Module: module, RefID: ref, ActorID: actorID, Action: shared.ApprovalSubmit, Note: note})
	return nil
}

func (r *recorderSpy) List(_ context.Context, module string, ref uuid.UUID) ([]shared.ApprovalLog, error) {
	var out []shared.ApprovalLog
	for _, l := range r.logs {
		if l.Module == module && l.RefID == ref {
			out = append(out, l)
		}
	}
	return out, nil
}

func newTestService(t *testing.T) (*Service, *memoryRepo, *recorderSpy) {
	t.Helper()
	repo := newMemoryRepo()
	spy := &recorderSpy{}
	svc := NewService(repo, spy, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, repo, spy
}

func roleActor(t *testing.T, id int64, roles ...authz.Role) authz.Actor {
	t.Helper()
	actor, err := authz.ResolveActor(authz.DefaultBindings(), id, roles)
	require.NoError(t, err)
	return actor
}

func seedRequest(repo *memoryRepo, studentID int64, status authz.DocumentRequestStatus) uuid.UUID {
	id := uuid.New()
	repo.requests[id] = DocumentRequest{
		ID:           id,
		StudentID:    studentID,
		DocumentType: "transcript_of_records",
		Copies:       1,
		Purpose:      "employment",
		Status:       status,
	}
	return id
}

func TestSubmitRecordsHistory(t *testing.T) {
	svc, _, spy := newTestService(t)
	student := roleActor(t, 7, authz.RoleStudent)

	d, err := svc.Submit(context.Background(), student, SubmitRequest{
		DocumentType: "transcript_of_records",
		Copies:       2,
		Purpose:      "graduate school application",
	})
	require.NoError(t, err)
	assert.Equal(t, authz.DocumentRequestPending, d.Status)
	assert.Equal(t, int64(7), d.StudentID)

	require.Len(t, spy.logs, 1)
	assert.Equal(t, shared.ApprovalSubmit, spy.logs[0].Action)
	assert.Equal(t, shared.ApprovalModuleDocumentRequest, spy.logs[0].Module)
}

func TestSubmitRequiresPermission(t *testing.T) {
	svc, _, _ := newTestService(t)
	staff := roleActor(t, 42, authz.RoleRegistrarStaff)

	_, err := svc.Submit(context.Background(), staff, SubmitRequest{DocumentType: "tor", Copies: 1, Purpose: "x"})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestHistoryFollowsRequestVisibility(t *testing.T) {
	svc, repo, _ := newTestService(t)
	staff := roleActor(t, 42, authz.RoleRegistrarStaff)
	owner := roleActor(t, 7, authz.RoleStudent)
	other := roleActor(t, 8, authz.RoleStudent)
	id := seedRequest(repo, 7, authz.DocumentRequestPending)

	_, err := svc.Approve(context.Background(), staff, id, DecisionRequest{Note: "verified"})
	require.NoError(t, err)

	logs, err := svc.History(context.Background(), staff, id)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, shared.ApprovalSubmit, logs[0].Action)
	assert.Equal(t, int64(7), logs[0].ActorID)
	assert.Equal(t, shared.ApprovalApprove, logs[1].Action)

	own, err := svc.History(context.Background(), owner, id)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	_, err = svc.History(context.Background(), other, id)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestPaymentLifecycle(t *testing.T) {
	svc, repo, _ := newTestService(t)
	staff := roleActor(t, 42, authz.RoleRegistrarStaff)
	id := seedRequest(repo, 7, authz.DocumentRequestPending)

	d, err := svc.AssessFee(context.Background(), staff, id, AssessFeeRequest{Fee: 150})
	require.NoError(t, err)
	assert.Equal(t, authz.DocumentRequestPendingPayment, d.Status)
	require.NotNil(t, d.Fee)
	assert.Equal(t, 150.0, *d.Fee)
	require.NotNil(t, d.PaymentDeadline)

	// Fee can only be assessed once.
	_, err = svc.AssessFee(context.Background(), staff, id, AssessFeeRequest{Fee: 200})
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)

	d, err = svc.ConfirmPayment(context.Background(), staff, id)
	require.NoError(t, err)
	assert.Equal(t, authz.DocumentRequestPaymentConfirmed, d.Status)

	_, err = svc.ConfirmPayment(context.Background(), staff, id)
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestApproveStatusGate(t *testing.T) {
	svc, repo, spy := newTestService(t)
	staff := roleActor(t, 42, authz.RoleRegistrarStaff)

	pending := seedRequest(repo, 7, authz.DocumentRequestPending)
	d, err := svc.Approve(context.Background(), staff, pending, DecisionRequest{})
	require.NoError(t, err)
	assert.Equal(t, authz.DocumentRequestProcessing, d.Status)
	require.Len(t, spy.logs, 1)
	assert.Equal(t, shared.ApprovalApprove, spy.logs[0].Action)

	released := seedRequest(repo, 8, authz.DocumentRequestReleased)
	_, err = svc.Approve(context.Background(), staff, released, DecisionRequest{})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestApproveRequiresRegistrarGrant(t *testing.T) {
	svc, repo, _ := newTestService(t)
	sas := roleActor(t, 42, authz.RoleSasAdmin)
	id := seedRequest(repo, 7, authz.DocumentRequestPending)

	_, err := svc.Approve(context.Background(), sas, id, DecisionRequest{})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestRejectIgnoresStatus(t *testing.T) {
	svc, repo, spy := newTestService(t)
	staff := roleActor(t, 42, authz.RoleRegistrarStaff)
	id := seedRequest(repo, 7, authz.DocumentRequestReleased)

	d, err := svc.Reject(context.Background(), staff, id, DecisionRequest{Note: "invalid request"})
	require.NoError(t, err)
	assert.Equal(t, authz.DocumentRequestRejected, d.Status)
	require.Len(t, spy.logs, 1)
	assert.Equal(t, shared.ApprovalReject, spy.logs[0].Action)
}

func TestRefundGate(t *testing.T) {
	tests := []struct {
		name    string
		role    authz.Role
		status  authz.DocumentRequestStatus
		wantErr error
	}{
		{name: "admin paid", role: authz.RoleRegistrarAdmin, status: authz.DocumentRequestPaymentConfirmed},
		{name: "admin processing", role: authz.RoleRegistrarAdmin, status: authz.DocumentRequestProcessing},
		{name: "admin released", role: authz.RoleRegistrarAdmin, status: authz.DocumentRequestReleased, wantErr: shared.ErrForbidden},
		{name: "staff paid", role: authz.RoleRegistrarStaff, status: authz.DocumentRequestPaymentConfirmed, wantErr: shared.ErrForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, spy := newTestService(t)
			id := seedRequest(repo, 7, tc.status)
			actor := roleActor(t, 42, tc.role)

			d, err := svc.Refund(context.Background(), actor, id, DecisionRequest{Note: "overpaid"})
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, spy.logs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, authz.DocumentRequestRefunded, d.Status)
			require.Len(t, spy.logs, 1)
			assert.Equal(t, shared.ApprovalRefund, spy.logs[0].Action)
		})
	}
}

func TestGenerateAndRelease(t *testing.T) {
	svc, repo, _ := newTestService(t)
	staff := roleActor(t, 42, authz.RoleRegistrarStaff)
	id := seedRequest(repo, 7, authz.DocumentRequestProcessing)

	d, err := svc.Generate(context.Background(), staff, id)
	require.NoError(t, err)
	assert.Equal(t, authz.DocumentRequestReady, d.Status)
	assert.NotNil(t, d.GeneratedAt)

	d, err = svc.Release(context.Background(), staff, id)
	require.NoError(t, err)
	assert.Equal(t, authz.DocumentRequestReleased, d.Status)

	_, err = svc.Release(context.Background(), staff, id)
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestOwnerUpdateOnlyWhilePendingPayment(t *testing.T) {
	svc, repo, _ := newTestService(t)
	owner := roleActor(t, 7, authz.RoleStudent)

	pendingPayment := seedRequest(repo, 7, authz.DocumentRequestPendingPayment)
	copies := 3
	d, err := svc.Update(context.Background(), owner, pendingPayment, UpdateRequest{Copies: &copies})
	require.NoError(t, err)
	assert.Equal(t, 3, d.Copies)

	processing := seedRequest(repo, 7, authz.DocumentRequestProcessing)
	_, err = svc.Update(context.Background(), owner, processing, UpdateRequest{Copies: &copies})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	staff := roleActor(t, 42, authz.RoleRegistrarStaff)
	_, err = svc.Update(context.Background(), staff, processing, UpdateRequest{Copies: &copies})
	assert.NoError(t, err)
}

func TestListScopedToOwnRecords(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedRequest(repo, 7, authz.DocumentRequestPending)
	seedRequest(repo, 8, authz.DocumentRequestPending)

	student := roleActor(t, 7, authz.RoleStudent)
	other := int64(8)
	items, total, err := svc.List(context.Background(), student, ListFilter{StudentID: &other})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0].StudentID)

	staff := roleActor(t, 42, authz.RoleRegistrarStaff)
	_, total, err = svc.List(context.Background(), staff, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	svc, repo, _ := newTestService(t)
	id := seedRequest(repo, 7, authz.DocumentRequestPending)

	staff := roleActor(t, 42, authz.RoleRegistrarStaff)
	err := svc.Delete(context.Background(), staff, id)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	admin := roleActor(t, 43, authz.RoleRegistrarAdmin)
	err = svc.Delete(context.Background(), admin, id)
	assert.NoError(t, err)
}

func TestExpireUnpaid(t *testing.T) {
	svc, repo, _ := newTestService(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired := seedRequest(repo, 7, authz.DocumentRequestPendingPayment)
	d := repo.requests[expired]
	d.PaymentDeadline = &past
	repo.requests[expired] = d

	current := seedRequest(repo, 8, authz.DocumentRequestPendingPayment)
	d = repo.requests[current]
	d.PaymentDeadline = &future
	repo.requests[current] = d

	n, err := svc.ExpireUnpaid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, authz.DocumentRequestRejected, repo.requests[expired].Status)
	assert.Equal(t, authz.DocumentRequestPendingPayment, repo.requests[current].Status)
}
