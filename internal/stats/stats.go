// Package stats aggregates cross-module counts for staff dashboards.
package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Overview is a point-in-time snapshot of workload across the portal.
type Overview struct {
	ScholarshipsByStatus    map[string]int64 `json:"scholarships_by_status"`
	PendingDocumentRequests int64            `json:"pending_document_requests"`
	UpcomingEvents          int64            `json:"upcoming_events"`
	AccreditedOrganizations int64            `json:"accredited_organizations"`
	PublishedAnnouncements  int64            `json:"published_announcements"`
	GeneratedAt             time.Time        `json:"generated_at"`
}

// Counters supplies the individual tallies the overview is built from.
type Counters interface {
	ScholarshipsByStatus(ctx context.Context) (map[string]int64, error)
	PendingDocumentRequests(ctx context.Context) (int64, error)
	UpcomingEvents(ctx context.Context, from time.Time) (int64, error)
	AccreditedOrganizations(ctx context.Context) (int64, error)
	PublishedAnnouncements(ctx context.Context) (int64, error)
}

// Service computes dashboard overviews.
type Service struct {
	counters Counters
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a stats service.
func NewService(counters Counters, logger *slog.Logger) *Service {
	return &Service{counters: counters, logger: logger, now: time.Now}
}

// Overview fans the count queries out concurrently and assembles the snapshot.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	overview := Overview{GeneratedAt: s.now().UTC()}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		byStatus, err := s.counters.ScholarshipsByStatus(ctx)
		if err != nil {
			return err
		}
		overview.ScholarshipsByStatus = byStatus
		return nil
	})

	g.Go(func() error {
		pending, err := s.counters.PendingDocumentRequests(ctx)
		if err != nil {
			return err
		}
		overview.PendingDocumentRequests = pending
		return nil
	})

	g.Go(func() error {
		upcoming, err := s.counters.UpcomingEvents(ctx, s.now().UTC())
		if err != nil {
			return err
		}
		overview.UpcomingEvents = upcoming
		return nil
	})

	g.Go(func() error {
		accredited, err := s.counters.AccreditedOrganizations(ctx)
		if err != nil {
			return err
		}
		overview.AccreditedOrganizations = accredited
		return nil
	})

	g.Go(func() error {
		published, err := s.counters.PublishedAnnouncements(ctx)
		if err != nil {
			return err
		}
		overview.PublishedAnnouncements = published
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}

// =============================================================================
// POSTGRES COUNTERS
// =============================================================================

// PGCounters runs the tallies against PostgreSQL.
type PGCounters struct {
	pool *pgxpool.Pool
}

// NewPGCounters constructs a PostgreSQL-backed Counters.
func NewPGCounters(pool *pgxpool.Pool) *PGCounters {
	return &PGCounters{pool: pool}
}

func (c *PGCounters) ScholarshipsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := c.pool.Query(ctx, `SELECT status, COUNT(*) FROM scholarships GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byStatus := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		byStatus[status] = count
	}
	return byStatus, rows.Err()
}

func (c *PGCounters) PendingDocumentRequests(ctx context.Context) (int64, error) {
	return c.countRow(ctx, `SELECT COUNT(*) FROM document_requests WHERE status IN ('pending', 'pending_payment', 'payment_confirmed', 'processing')`)
}

func (c *PGCounters) UpcomingEvents(ctx context.Context, from time.Time) (int64, error) {
	var count int64
	err := c.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE status = 'published' AND starts_at >= $1`, from).Scan(&count)
	return count, err
}

func (c *PGCounters) AccreditedOrganizations(ctx context.Context) (int64, error) {
	return c.countRow(ctx, `SELECT COUNT(*) FROM organizations WHERE accredited`)
}

func (c *PGCounters) PublishedAnnouncements(ctx context.Context) (int64, error) {
	return c.countRow(ctx, `SELECT COUNT(*) FROM announcements WHERE published_at IS NOT NULL`)
}

func (c *PGCounters) countRow(ctx context.Context, query string) (int64, error) {
	var count int64
	err := c.pool.QueryRow(ctx, query).Scan(&count)
	return count, err
}

var _ Counters = (*PGCounters)(nil)
