package usg

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/uniportal/uniportal/internal/authz"
	"github.com/uniportal/uniportal/internal/shared"
)

// Service provides business logic for USG announcements and resolutions.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time

	announcements authz.AnnouncementPolicy
	resolutions   authz.ResolutionPolicy
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// ============================================================================
// ANNOUNCEMENTS
// ============================================================================

// CreateAnnouncement creates a draft announcement.
func (s *Service) CreateAnnouncement(ctx context.Context, actor authz.Actor, req CreateAnnouncementRequest) (*Announcement, error) {
	if !s.announcements.Create(actor) {
		return nil, shared.ErrForbidden
	}
	a := Announcement{
		ID:        uuid.New(),
		Title:     req.Title,
		Body:      req.Body,
		CreatedBy: actor.ID,
	}
	if err := s.repo.CreateAnnouncement(ctx, a); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	return s.repo.GetAnnouncement(ctx, a.ID)
}

// GetAnnouncement returns one announcement. Announcements are public content.
func (s *Service) GetAnnouncement(ctx context.Context, id uuid.UUID) (*Announcement, error) {
	return s.repo.GetAnnouncement(ctx, id)
}

// ListAnnouncements returns announcements. Announcements are public content.
func (s *Service) ListAnnouncements(ctx context.Context, limit, offset int) ([]Announcement, int, error) {
	return s.repo.ListAnnouncements(ctx, limit, offset)
}

// UpdateAnnouncement edits an announcement.
func (s *Service) UpdateAnnouncement(ctx context.Context, actor authz.Actor, id uuid.UUID, req UpdateAnnouncementRequest) (*Announcement, error) {
	a, err := s.repo.GetAnnouncement(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.announcements.Update(actor, a.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	if err := s.repo.UpdateAnnouncement(ctx, id, req); err != nil {
		return nil, fmt.Errorf("update announcement: %w", err)
	}
	return s.repo.GetAnnouncement(ctx, id)
}

// PublishAnnouncement stamps the publication time on a draft announcement.
func (s *Service) PublishAnnouncement(ctx context.Context, actor authz.Actor, id uuid.UUID) (*Announcement, error) {
	a, err := s.repo.GetAnnouncement(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.announcements.Publish(actor, a.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	if a.PublishedAt != nil {
		return nil, shared.ErrInvalidStatus
	}
	if err := s.repo.SetAnnouncementPublished(ctx, id, s.now()); err != nil {
		return nil, fmt.Errorf("publish announcement: %w", err)
	}
	return s.repo.GetAnnouncement(ctx, id)
}

// DeleteAnnouncement removes an announcement.
func (s *Service) DeleteAnnouncement(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	a, err := s.repo.GetAnnouncement(ctx, id)
	if err != nil {
		return err
	}
	if !s.announcements.Delete(actor, a.Snapshot()) {
		return shared.ErrForbidden
	}
	return s.repo.DeleteAnnouncement(ctx, id)
}

// ============================================================================
// RESOLUTIONS
// ============================================================================

// CreateResolution files a draft resolution.
func (s *Service) CreateResolution(ctx context.Context, actor authz.Actor, req CreateResolutionRequest) (*Resolution, error) {
	if !s.resolutions.Create(actor) {
		return nil, shared.ErrForbidden
	}
	res := Resolution{
		ID:        uuid.New(),
		Number:    req.Number,
		Title:     req.Title,
		Body:      req.Body,
		Status:    authz.ContentDraft,
		CreatedBy: actor.ID,
	}
	if err := s.repo.CreateResolution(ctx, res); err != nil {
		return nil, fmt.Errorf("create resolution: %w", err)
	}
	return s.repo.GetResolution(ctx, res.ID)
}

// GetResolution returns one resolution. Resolutions are public content.
func (s *Service) GetResolution(ctx context.Context, id uuid.UUID) (*Resolution, error) {
	return s.repo.GetResolution(ctx, id)
}

// ListResolutions returns resolutions. Resolutions are public content.
func (s *Service) ListResolutions(ctx context.Context, limit, offset int) ([]Resolution, int, error) {
	return s.repo.ListResolutions(ctx, limit, offset)
}

// UpdateResolution edits a resolution.
func (s *Service) UpdateResolution(ctx context.Context, actor authz.Actor, id uuid.UUID, req UpdateResolutionRequest) (*Resolution, error) {
	res, err := s.repo.GetResolution(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.resolutions.Update(actor, res.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	if err := s.repo.UpdateResolution(ctx, id, req); err != nil {
		return nil, fmt.Errorf("update resolution: %w", err)
	}
	return s.repo.GetResolution(ctx, id)
}

// PublishResolution publishes a draft resolution.
func (s *Service) PublishResolution(ctx context.Context, actor authz.Actor, id uuid.UUID) (*Resolution, error) {
	res, err := s.repo.GetResolution(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.resolutions.Publish(actor, res.Snapshot()) {
		return nil, shared.ErrForbidden
	}
	if res.Status != authz.ContentDraft {
		return nil, shared.ErrInvalidStatus
	}
	if err := s.repo.SetResolutionStatus(ctx, id, authz.ContentPublished); err != nil {
		return nil, fmt.Errorf("publish resolution: %w", err)
	}
	return s.repo.GetResolution(ctx, id)
}

// ArchiveResolution archives a published resolution.
func (s *Service) ArchiveResolution(ctx context.Context, actor authz.Actor, id uuid.UUID) (*Resolution, error) {
	res, err := s.repo.GetResolution(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.resolutions.Manage(actor) {
		return nil, shared.ErrForbidden
	}
	if res.Status != authz.ContentPublished {
		return nil, shared.ErrInvalidStatus
	}
	if err := s.repo.SetResolutionStatus(ctx, id, authz.ContentArchived); err != nil {
		return nil, fmt.Errorf("archive resolution: %w", err)
	}
	return s.repo.GetResolution(ctx, id)
}

// DeleteResolution removes a resolution.
func (s *Service) DeleteResolution(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	res, err := s.repo.GetResolution(ctx, id)
	if err != nil {
		return err
	}
	if !s.resolutions.Delete(actor, res.Snapshot()) {
		return shared.ErrForbidden
	}
	return s.repo.DeleteResolution(ctx, id)
}
