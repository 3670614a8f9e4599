package sas

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uniportal/uniportal/internal/authz"
	"github.com/uniportal/uniportal/internal/shared"
)

// Repository abstracts persistence for the student affairs module.
type Repository interface {
	CreateScholarship(ctx context.Context, s Scholarship) error
	GetScholarship(ctx context.Context, id uuid.UUID) (*Scholarship, error)
	ListScholarships(ctx context.Context, f ListScholarshipsFilter) ([]Scholarship, int, error)
	UpdateScholarship(ctx context.Context, id uuid.UUID, program *string, amount *float64) error
	SetScholarshipStatus(ctx context.Context, id uuid.UUID, status authz.ScholarshipStatus, decidedBy int64, remarks *string) error
	DeleteScholarship(ctx context.Context, id uuid.UUID) error

	CreateEvent(ctx context.Context, e Event) error
	GetEvent(ctx context.Context, id uuid.UUID) (*Event, error)
	ListEvents(ctx context.Context, limit, offset int) ([]Event, int, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, req UpdateEventRequest) error
	SetEventStatus(ctx context.Context, id uuid.UUID, status authz.ContentStatus) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error

	CreateOrganization(ctx context.Context, o Organization) error
	GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error)
	ListOrganizations(ctx context.Context, limit, offset int) ([]Organization, int, error)
	UpdateOrganization(ctx context.Context, id uuid.UUID, req UpdateOrganizationRequest) error
	SetOrganizationAccredited(ctx context.Context, id uuid.UUID, accredited bool) error
	DeleteOrganization(ctx context.Context, id uuid.UUID) error
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
// SCHOLARSHIPS
// ============================================================================

const scholarshipColumns = `id, student_id, program, amount, status, remarks, decided_by, decided_at, created_at, updated_at`

func scanScholarship(row pgx.Row) (*Scholarship, error) {
	var s Scholarship
	var status string
	if err := row.Scan(&s.ID, &s.StudentID, &s.Program, &s.Amount, &status, &s.Remarks,
		&s.DecidedBy, &s.DecidedAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, mapPgError(err)
	}
	s.Status = authz.ScholarshipStatus(status)
	return &s, nil
}

func (r *PGRepository) CreateScholarship(ctx context.Context, s Scholarship) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO scholarships (id, student_id, program, amount, status)
VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.StudentID, s.Program, s.Amount, string(s.Status))
	return mapPgError(err)
}

func (r *PGRepository) GetScholarship(ctx context.Context, id uuid.UUID) (*Scholarship, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+scholarshipColumns+` FROM scholarships WHERE id=$1`, id)
	return scanScholarship(row)
}

func (r *PGRepository) ListScholarships(ctx context.Context, f ListScholarshipsFilter) ([]Scholarship, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.StudentID != nil {
		args = append(args, *f.StudentID)
		where = append(where, fmt.Sprintf("student_id=$%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		where = append(where, fmt.Sprintf("status=$%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM scholarships WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM scholarships WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		scholarshipColumns, cond, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Scholarship
	for rows.Next() {
		s, err := scanScholarship(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PGRepository) UpdateScholarship(ctx context.Context, id uuid.UUID, program *string, amount *float64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE scholarships
SET program = COALESCE($2, program), amount = COALESCE($3, amount), updated_at = NOW()
WHERE id=$1`, id, program, amount)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) SetScholarshipStatus(ctx context.Context, id uuid.UUID, status authz.ScholarshipStatus, decidedBy int64, remarks *string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE scholarships
SET status=$2, decided_by=$3, decided_at=NOW(), remarks=COALESCE($4, remarks), updated_at=NOW()
WHERE id=$1`, id, string(status), decidedBy, remarks)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) DeleteScholarship(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM scholarships WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ============================================================================
// EVENTS
// ============================================================================

const eventColumns = `id, title, description, location, starts_at, ends_at, status, created_by, created_at, updated_at`

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	var status string
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.EndsAt,
		&status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, mapPgError(err)
	}
	e.Status = authz.ContentStatus(status)
	return &e, nil
}

func (r *PGRepository) CreateEvent(ctx context.Context, e Event) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO events (id, title, description, location, starts_at, ends_at, status, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, string(e.Status), e.CreatedBy)
	return mapPgError(err)
}

func (r *PGRepository) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id=$1`, id)
	return scanEvent(row)
}

func (r *PGRepository) ListEvents(ctx context.Context, limit, offset int) ([]Event, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&total); err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY starts_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PGRepository) UpdateEvent(ctx context.Context, id uuid.UUID, req UpdateEventRequest) error {
	tag, err := r.pool.Exec(ctx, `UPDATE events
SET title = COALESCE($2, title),
    description = COALESCE($3, description),
    location = COALESCE($4, location),
    starts_at = COALESCE($5, starts_at),
    ends_at = COALESCE($6, ends_at),
    updated_at = NOW()
WHERE id=$1`, id, req.Title, req.Description, req.Location, req.StartsAt, req.EndsAt)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) SetEventStatus(ctx context.Context, id uuid.UUID, status authz.ContentStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE events SET status=$2, updated_at=NOW() WHERE id=$1`, id, string(status))
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ============================================================================
// ORGANIZATIONS
// ============================================================================

const organizationColumns = `id, name, description, accredited, created_by, created_at, updated_at`

func scanOrganization(row pgx.Row) (*Organization, error) {
	var o Organization
	if err := row.Scan(&o.ID, &o.Name, &o.Description, &o.Accredited,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &o, nil
}

func (r *PGRepository) CreateOrganization(ctx context.Context, o Organization) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO organizations (id, name, description, accredited, created_by)
VALUES ($1, $2, $3, $4, $5)`,
		o.ID, o.Name, o.Description, o.Accredited, o.CreatedBy)
	return mapPgError(err)
}

func (r *PGRepository) GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id=$1`, id)
	return scanOrganization(row)
}

func (r *PGRepository) ListOrganizations(ctx context.Context, limit, offset int) ([]Organization, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM organizations`).Scan(&total); err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `SELECT `+organizationColumns+` FROM organizations ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PGRepository) UpdateOrganization(ctx context.Context, id uuid.UUID, req UpdateOrganizationRequest) error {
	tag, err := r.pool.Exec(ctx, `UPDATE organizations
SET name = COALESCE($2, name), description = COALESCE($3, description), updated_at = NOW()
WHERE id=$1`, id, req.Name, req.Description)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) SetOrganizationAccredited(ctx context.Context, id uuid.UUID, accredited bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE organizations SET accredited=$2, updated_at=NOW() WHERE id=$1`, id, accredited)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) DeleteOrganization(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM organizations WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
