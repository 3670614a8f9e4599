package usg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uniportal/uniportal/internal/authz"
	"github.com/uniportal/uniportal/internal/shared"
)

// Repository abstracts persistence for the USG module.
type Repository interface {
	CreateAnnouncement(ctx context.Context, a Announcement) error
	GetAnnouncement(ctx context.Context, id uuid.UUID) (*Announcement, error)
	ListAnnouncements(ctx context.Context, limit, offset int) ([]Announcement, int, error)
	UpdateAnnouncement(ctx context.Context, id uuid.UUID, req UpdateAnnouncementRequest) error
	SetAnnouncementPublished(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteAnnouncement(ctx context.Context, id uuid.UUID) error

	CreateResolution(ctx context.Context, r Resolution) error
	GetResolution(ctx context.Context, id uuid.UUID) (*Resolution, error)
	ListResolutions(ctx context.Context, limit, offset int) ([]Resolution, int, error)
	UpdateResolution(ctx context.Context, id uuid.UUID, req UpdateResolutionRequest) error
	SetResolutionStatus(ctx context.Context, id uuid.UUID, status authz.ContentStatus) error
	DeleteResolution(ctx context.Context, id uuid.UUID) error
}

// PGRepository is the PostgreSQL implementation of Repository.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}

// ============================================================================
// ANNOUNCEMENTS
// ============================================================================

const announcementColumns = `id, title, body, created_by, published_at, created_at, updated_at`

func scanAnnouncement(row pgx.Row) (*Announcement, error) {
	var a Announcement
	if err := row.Scan(&a.ID, &a.Title, &a.Body, &a.CreatedBy, &a.PublishedAt,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &a, nil
}

func (r *PGRepository) CreateAnnouncement(ctx context.Context, a Announcement) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO announcements (id, title, body, created_by)
VALUES ($1, $2, $3, $4)`, a.ID, a.Title, a.Body, a.CreatedBy)
	return mapPgError(err)
}

func (r *PGRepository) GetAnnouncement(ctx context.Context, id uuid.UUID) (*Announcement, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+announcementColumns+` FROM announcements WHERE id=$1`, id)
	return scanAnnouncement(row)
}

func (r *PGRepository) ListAnnouncements(ctx context.Context, limit, offset int) ([]Announcement, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM announcements`).Scan(&total); err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `SELECT `+announcementColumns+` FROM announcements
ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PGRepository) UpdateAnnouncement(ctx context.Context, id uuid.UUID, req UpdateAnnouncementRequest) error {
	tag, err := r.pool.Exec(ctx, `UPDATE announcements
SET title = COALESCE($2, title), body = COALESCE($3, body), updated_at = NOW()
WHERE id=$1`, id, req.Title, req.Body)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) SetAnnouncementPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE announcements SET published_at=$2, updated_at=NOW() WHERE id=$1`, id, at)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) DeleteAnnouncement(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM announcements WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ============================================================================
// RESOLUTIONS
// ============================================================================

const resolutionColumns = `id, number, title, body, status, created_by, created_at, updated_at`

func scanResolution(row pgx.Row) (*Resolution, error) {
	var res Resolution
	var status string
	if err := row.Scan(&res.ID, &res.Number, &res.Title, &res.Body, &status,
		&res.CreatedBy, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, mapPgError(err)
	}
	res.Status = authz.ContentStatus(status)
	return &res, nil
}

func (r *PGRepository) CreateResolution(ctx context.Context, res Resolution) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO resolutions (id, number, title, body, status, created_by)
VALUES ($1, $2, $3, $4, $5, $6)`,
		res.ID, res.Number, res.Title, res.Body, string(res.Status), res.CreatedBy)
	return mapPgError(err)
}

func (r *PGRepository) GetResolution(ctx context.Context, id uuid.UUID) (*Resolution, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+resolutionColumns+` FROM resolutions WHERE id=$1`, id)
	return scanResolution(row)
}

func (r *PGRepository) ListResolutions(ctx context.Context, limit, offset int) ([]Resolution, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM resolutions`).Scan(&total); err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `SELECT `+resolutionColumns+` FROM resolutions
ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Resolution
	for rows.Next() {
		res, err := scanResolution(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PGRepository) UpdateResolution(ctx context.Context, id uuid.UUID, req UpdateResolutionRequest) error {
	tag, err := r.pool.Exec(ctx, `UPDATE resolutions
SET number = COALESCE($2, number), title = COALESCE($3, title), body = COALESCE($4, body), updated_at = NOW()
WHERE id=$1`, id, req.Number, req.Title, req.Body)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) SetResolutionStatus(ctx context.Context, id uuid.UUID, status authz.ContentStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE resolutions SET status=$2, updated_at=NOW() WHERE id=$1`, id, string(status))
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) DeleteResolution(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resolutions WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
