package sas

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniportal/uniportal/internal/authz"
	"github.com/uniportal/uniportal/internal/shared"
)

type memoryRepo struct {
	scholarships  map[uuid.UUID]Scholarship
	events        map[uuid.UUID]Event
	organizations map[uuid.UUID]Organization
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		scholarships:  make(map[uuid.UUID]Scholarship),
		events:        make(map[uuid.UUID]Event),
		organizations: make(map[uuid.UUID]Organization),
	}
}

func (m *memoryRepo) CreateScholarship(_ context.Context, s Scholarship) error {
	m.scholarships[s.ID] = s
	return nil
}

func (m *memoryRepo) GetScholarship(_ context.Context, id uuid.UUID) (*Scholarship, error) {
	s, ok := m.scholarships[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &s, nil
}

func (m *memoryRepo) ListScholarships(_ context.Context, f ListScholarshipsFilter) ([]Scholarship, int, error) {
	var out []Scholarship
	for _, s := range m.scholarships {
		if f.StudentID != nil && s.StudentID != *f.StudentID {
			continue
		}
		if f.Status != nil && s.Status != *f.Status {
			continue
		}
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *memoryRepo) UpdateScholarship(_ context.Context, id uuid.UUID, program *string, amount *float64) error {
	s, ok := m.scholarships[id]
	if !ok {
		return shared.ErrNotFound
	}
	if program != nil {
		s.Program = *program
	}
	if amount != nil {
		s.Amount = amount
	}
	m.scholarships[id] = s
	return nil
}

func (m *memoryRepo) SetScholarshipStatus(_ context.Context, id uuid.UUID, status authz.ScholarshipStatus, decidedBy int64, remarks *string) error {
	s, ok := m.scholarships[id]
	if !ok {
		return shared.ErrNotFound
	}
	s.Status = status
	s.DecidedBy = &decidedBy
	if remarks != nil {
		s.Remarks = remarks
	}
	m.scholarships[id] = s
	return nil
}

func (m *memoryRepo) DeleteScholarship(_ context.Context, id uuid.UUID) error {
	if _, ok := m.scholarships[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.scholarships, id)
	return nil
}

func (m *memoryRepo) CreateEvent(_ context.Context, e Event) error {
	m.events[e.ID] = e
	return nil
}

func (m *memoryRepo) GetEvent(_ context.Context, id uuid.UUID) (*Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &e, nil
}

func (m *memoryRepo) ListEvents(_ context.Context, _, _ int) ([]Event, int, error) {
	var out []Event
	for _, e := range m.events {
		out = append(out, e)
	}
	return out, len(out), nil
}

func (m *memoryRepo) UpdateEvent(_ context.Context, id uuid.UUID, req UpdateEventRequest) error {
	e, ok := m.events[id]
	if !ok {
		return shared.ErrNotFound
	}
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	m.events[id] = e
	return nil
}

func (m *memoryRepo) SetEventStatus(_ context.Context, id uuid.UUID, status authz.ContentStatus) error {
	e, ok := m.events[id]
	if !ok {
		return shared.ErrNotFound
	}
	e.Status = status
	m.events[id] = e
	return nil
}

func (m *memoryRepo) DeleteEvent(_ context.Context, id uuid.UUID) error {
	if _, ok := m.events[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memoryRepo) CreateOrganization(_ context.Context, o Organization) error {
	for _, existing := range m.organizations {
		if existing.Name == o.Name {
			return shared.ErrDuplicate
		}
	}
	m.organizations[o.ID] = o
	return nil
}

func (m *memoryRepo) GetOrganization(_ context.Context, id uuid.UUID) (*Organization, error) {
	o, ok := m.organizations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &o, nil
}

func (m *memoryRepo) ListOrganizations(_ context.Context, _, _ int) ([]Organization, int, error) {
	var out []Organization
	for _, o := range m.organizations {
		out = append(out, o)
	}
	return out, len(out), nil
}

func (m *memoryRepo) UpdateOrganization(_ context.Context, id uuid.UUID, req UpdateOrganizationRequest) error {
	o, ok := m.organizations[id]
	if !ok {
		return shared.ErrNotFound
	}
	if req.Name != nil {
		o.Name = *req.Name
	}
	if req.Description != nil {
		o.Description = *req.Description
	}
	m.organizations[id] = o
	return nil
}

func (m *memoryRepo) SetOrganizationAccredited(_ context.Context, id uuid.UUID, accredited bool) error {
	o, ok := m.organizations[id]
	if !ok {
		return shared.ErrNotFound
	}
	o.Accredited = accredited
	m.organizations[id] = o
	return nil
}

func (m *memoryRepo) DeleteOrganization(_ context.Context, id uuid.UUID) error {
	if _, ok := m.organizations[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.organizations, id)
	return nil
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

func amount(v float64) *float64 { return &v }

func seedScholarship(repo *memoryRepo, studentID int64, status authz.ScholarshipStatus, amt *float64) uuid.UUID {
	id := uuid.New()
	repo.scholarships[id] = Scholarship{
		ID:        id,
		StudentID: studentID,
		Program:   "Academic Excellence Grant",
		Amount:    amt,
		Status:    status,
	}
	return id
}

func TestSubmitScholarshipRecordsHistory(t *testing.T) {
	svc, _, spy := newTestService(t)
	student := roleActor(t, 7, authz.RoleStudent)

	app, err := svc.SubmitScholarship(context.Background(), student, SubmitScholarshipRequest{
		Program: "Academic Excellence Grant",
		Amount:  amount(15000),
	})
	require.NoError(t, err)
	assert.Equal(t, authz.ScholarshipPendingReview, app.Status)
	assert.Equal(t, int64(7), app.StudentID)

	require.Len(t, spy.logs, 1)
	assert.Equal(t, shared.ApprovalSubmit, spy.logs[0].Action)
	assert.Equal(t, shared.ApprovalModuleScholarship, spy.logs[0].Module)
	assert.Equal(t, app.ID, spy.logs[0].RefID)
}

func TestSubmitScholarshipRequiresPermission(t *testing.T) {
	svc, _, _ := newTestService(t)
	officer := roleActor(t, 9, authz.RoleUsgOfficer)

	_, err := svc.SubmitScholarship(context.Background(), officer, SubmitScholarshipRequest{Program: "Grant"})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestScholarshipHistoryVisibility(t *testing.T) {
	svc, _, _ := newTestService(t)
	student := roleActor(t, 7, authz.RoleStudent)
	staff := roleActor(t, 2, authz.RoleSasStaff)
	other := roleActor(t, 8, authz.RoleStudent)

	app, err := svc.SubmitScholarship(context.Background(), student, SubmitScholarshipRequest{
		Program: "Academic Excellence Grant",
		Amount:  amount(15000),
	})
	require.NoError(t, err)
	_, err = svc.ApproveScholarship(context.Background(), staff, app.ID, DecisionRequest{Note: "complete"})
	require.NoError(t, err)

	logs, err := svc.ScholarshipHistory(context.Background(), staff, app.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, shared.ApprovalSubmit, logs[0].Action)
	assert.Equal(t, shared.ApprovalApprove, logs[1].Action)

	own, err := svc.ScholarshipHistory(context.Background(), student, app.ID)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	_, err = svc.ScholarshipHistory(context.Background(), other, app.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestDecisionBackfillsSubmitEntry(t *testing.T) {
	svc, repo, spy := newTestService(t)
	staff := roleActor(t, 2, authz.RoleSasStaff)
	id := seedScholarship(repo, 7, authz.ScholarshipPendingReview, amount(5000))

	_, err := svc.RejectScholarship(context.Background(), staff, id, DecisionRequest{Note: "incomplete"})
	require.NoError(t, err)

	require.Len(t, spy.logs, 2)
	assert.Equal(t, shared.ApprovalSubmit, spy.logs[0].Action)
	assert.Equal(t, int64(7), spy.logs[0].ActorID)
	assert.Equal(t, shared.ApprovalReject, spy.logs[1].Action)
}

func TestApproveScholarshipThreshold(t *testing.T) {
	tests := []struct {
		name    string
		role    authz.Role
		amount  *float64
		wantErr error
	}{
		{name: "staff under threshold", role: authz.RoleSasStaff, amount: amount(19999)},
		{name: "staff at threshold", role: authz.RoleSasStaff, amount: amount(20000), wantErr: shared.ErrForbidden},
		{name: "admin at threshold", role: authz.RoleSasAdmin, amount: amount(20000)},
		{name: "admin above threshold", role: authz.RoleSasAdmin, amount: amount(50000)},
		{name: "staff nil amount", role: authz.RoleSasStaff, amount: nil},
		{name: "registrar staff", role: authz.RoleRegistrarStaff, amount: amount(1000), wantErr: shared.ErrForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, spy := newTestService(t)
			id := seedScholarship(repo, 7, authz.ScholarshipUnderReview, tc.amount)
			actor := roleActor(t, 42, tc.role)

			app, err := svc.ApproveScholarship(context.Background(), actor, id, DecisionRequest{Note: "ok"})
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, spy.logs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, authz.ScholarshipApproved, app.Status)
			require.Len(t, spy.logs, 1)
			assert.Equal(t, shared.ApprovalApprove, spy.logs[0].Action)
		})
	}
}

func TestApproveScholarshipStatusGate(t *testing.T) {
	svc, repo, _ := newTestService(t)
	id := seedScholarship(repo, 7, authz.ScholarshipApproved, amount(5000))
	admin := roleActor(t, 42, authz.RoleSasAdmin)

	_, err := svc.ApproveScholarship(context.Background(), admin, id, DecisionRequest{})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestApproveScholarshipSystemAdminBypass(t *testing.T) {
	svc, repo, _ := newTestService(t)
	id := seedScholarship(repo, 7, authz.ScholarshipDisbursed, amount(99999))
	sys := roleActor(t, 1, authz.RoleSystemAdmin)

	app, err := svc.ApproveScholarship(context.Background(), sys, id, DecisionRequest{})
	require.NoError(t, err)
	assert.Equal(t, authz.ScholarshipApproved, app.Status)
}

func TestRejectScholarshipIgnoresStatus(t *testing.T) {
	svc, repo, spy := newTestService(t)
	id := seedScholarship(repo, 7, authz.ScholarshipDisbursed, amount(5000))
	staff := roleActor(t, 42, authz.RoleSasStaff)

	app, err := svc.RejectScholarship(context.Background(), staff, id, DecisionRequest{Note: "ineligible"})
	require.NoError(t, err)
	assert.Equal(t, authz.ScholarshipRejected, app.Status)
	require.NotNil(t, app.Remarks)
	assert.Equal(t, "ineligible", *app.Remarks)
	require.Len(t, spy.logs, 1)
	assert.Equal(t, shared.ApprovalReject, spy.logs[0].Action)
}

func TestDisburseScholarshipRequiresApproved(t *testing.T) {
	svc, repo, _ := newTestService(t)
	pending := seedScholarship(repo, 7, authz.ScholarshipUnderReview, amount(5000))
	approved := seedScholarship(repo, 8, authz.ScholarshipApproved, amount(5000))
	admin := roleActor(t, 42, authz.RoleSasAdmin)

	_, err := svc.DisburseScholarship(context.Background(), admin, pending, DecisionRequest{})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	app, err := svc.DisburseScholarship(context.Background(), admin, approved, DecisionRequest{})
	require.NoError(t, err)
	assert.Equal(t, authz.ScholarshipDisbursed, app.Status)
}

func TestReviewScholarshipStatusGate(t *testing.T) {
	svc, repo, _ := newTestService(t)
	staff := roleActor(t, 42, authz.RoleSasStaff)

	pending := seedScholarship(repo, 7, authz.ScholarshipPendingReview, nil)
	app, err := svc.ReviewScholarship(context.Background(), staff, pending)
	require.NoError(t, err)
	assert.Equal(t, authz.ScholarshipUnderReview, app.Status)

	rejected := seedScholarship(repo, 8, authz.ScholarshipRejected, nil)
	_, err = svc.ReviewScholarship(context.Background(), staff, rejected)
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestUpdateScholarshipOwnerPendingOnly(t *testing.T) {
	svc, repo, _ := newTestService(t)
	owner := roleActor(t, 7, authz.RoleStudent)
	other := roleActor(t, 8, authz.RoleStudent)

	pending := seedScholarship(repo, 7, authz.ScholarshipPendingDocuments, nil)
	program := "Athletics Scholarship"
	app, err := svc.UpdateScholarship(context.Background(), owner, pending, UpdateScholarshipRequest{Program: &program})
	require.NoError(t, err)
	assert.Equal(t, program, app.Program)

	_, err = svc.UpdateScholarship(context.Background(), other, pending, UpdateScholarshipRequest{Program: &program})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	reviewed := seedScholarship(repo, 7, authz.ScholarshipUnderReview, nil)
	_, err = svc.UpdateScholarship(context.Background(), owner, reviewed, UpdateScholarshipRequest{Program: &program})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestListScholarshipsScopedToOwnRecords(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedScholarship(repo, 7, authz.ScholarshipPendingReview, nil)
	seedScholarship(repo, 8, authz.ScholarshipPendingReview, nil)

	student := roleActor(t, 7, authz.RoleStudent)
	other := int64(8)
	items, total, err := svc.ListScholarships(context.Background(), student, ListScholarshipsFilter{StudentID: &other})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0].StudentID)

	staff := roleActor(t, 42, authz.RoleSasStaff)
	_, total, err = svc.ListScholarships(context.Background(), staff, ListScholarshipsFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestGetScholarshipVisibility(t *testing.T) {
	svc, repo, _ := newTestService(t)
	id := seedScholarship(repo, 7, authz.ScholarshipPendingReview, nil)

	owner := roleActor(t, 7, authz.RoleStudent)
	_, err := svc.GetScholarship(context.Background(), owner, id)
	assert.NoError(t, err)

	stranger := roleActor(t, 8, authz.RoleStudent)
	_, err = svc.GetScholarship(context.Background(), stranger, id)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	staff := roleActor(t, 42, authz.RoleSasStaff)
	_, err = svc.GetScholarship(context.Background(), staff, id)
	assert.NoError(t, err)
}

func TestDeleteScholarshipOwnerPendingOnly(t *testing.T) {
	svc, repo, _ := newTestService(t)
	owner := roleActor(t, 7, authz.RoleStudent)

	reviewed := seedScholarship(repo, 7, authz.ScholarshipUnderReview, nil)
	err := svc.DeleteScholarship(context.Background(), owner, reviewed)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	pending := seedScholarship(repo, 7, authz.ScholarshipPendingReview, nil)
	err = svc.DeleteScholarship(context.Background(), owner, pending)
	assert.NoError(t, err)

	admin := roleActor(t, 42, authz.RoleSasAdmin)
	err = svc.DeleteScholarship(context.Background(), admin, reviewed)
	assert.NoError(t, err)
}

func TestEventLifecycle(t *testing.T) {
	svc, _, _ := newTestService(t)
	staff := roleActor(t, 42, authz.RoleSasStaff)
	student := roleActor(t, 7, authz.RoleStudent)

	ev, err := svc.CreateEvent(context.Background(), staff, CreateEventRequest{
		Title:    "Freshman Orientation",
		Location: "Main Gym",
	})
	require.NoError(t, err)
	assert.Equal(t, authz.ContentDraft, ev.Status)

	_, err = svc.PublishEvent(context.Background(), student, ev.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	published, err := svc.PublishEvent(context.Background(), staff, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, authz.ContentPublished, published.Status)

	_, err = svc.PublishEvent(context.Background(), staff, ev.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestCreatorUpdatesEventUntilPublished(t *testing.T) {
	svc, repo, _ := newTestService(t)
	officer := roleActor(t, 9, authz.RoleUsgOfficer, authz.RoleStudent)

	id := uuid.New()
	repo.events[id] = Event{ID: id, Title: "Org Fair", Status: authz.ContentDraft, CreatedBy: 9}

	title := "Org Fair 2026"
	ev, err := svc.UpdateEvent(context.Background(), officer, id, UpdateEventRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, ev.Title)

	repo.events[id] = Event{ID: id, Title: title, Status: authz.ContentPublished, CreatedBy: 9}
	_, err = svc.UpdateEvent(context.Background(), officer, id, UpdateEventRequest{Title: &title})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestOrganizationAccreditation(t *testing.T) {
	svc, _, _ := newTestService(t)
	staff := roleActor(t, 42, authz.RoleSasStaff)
	student := roleActor(t, 7, authz.RoleStudent)

	org, err := svc.CreateOrganization(context.Background(), staff, CreateOrganizationRequest{Name: "Robotics Club"})
	require.NoError(t, err)
	assert.False(t, org.Accredited)

	_, err = svc.AccreditOrganization(context.Background(), student, org.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	accredited, err := svc.AccreditOrganization(context.Background(), staff, org.ID)
	require.NoError(t, err)
	assert.True(t, accredited.Accredited)
}

func TestOrganizationDuplicateName(t *testing.T) {
	svc, _, _ := newTestService(t)
	staff := roleActor(t, 42, authz.RoleSasStaff)

	_, err := svc.CreateOrganization(context.Background(), staff, CreateOrganizationRequest{Name: "Robotics Club"})
	require.NoError(t, err)

	_, err = svc.CreateOrganization(context.Background(), staff, CreateOrganizationRequest{Name: "Robotics Club"})
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}
