package registrar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uniportal/uniportal/internal/authz"
	"github.com/uniportal/uniportal/internal/shared"
)

// Repository abstracts persistence for registrar document requests.
type Repository interface {
	Create(ctx context.Context, d DocumentRequest) error
	Get(ctx context.Context, id uuid.UUID) (*DocumentRequest, error)
	List(ctx context.Context, f ListFilter) ([]DocumentRequest, int, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) error
	SetFee(ctx context.Context, id uuid.UUID, fee float64, deadline time.Time) error
	SetStatus(ctx context.Context, id uuid.UUID, status authz.DocumentRequestStatus, decidedBy int64, remarks *string) error
	SetGenerated(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExpireUnpaid(ctx context.Context, cutoff time.Time, remarks string) (int64, error)
}

// PGRepository is the PostgreSQL implementation of Repository.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const requestColumns = `id, student_id, document_type, copies, purpose, fee, status, remarks,
payment_deadline, generated_at, decided_by, created_at, updated_at`

func scanRequest(row pgx.Row) (*DocumentRequest, error) {
	var d DocumentRequest
	var status string
	if err := row.Scan(&d.ID, &d.StudentID, &d.DocumentType, &d.Copies, &d.Purpose, &d.Fee,
		&status, &d.Remarks, &d.PaymentDeadline, &d.GeneratedAt, &d.DecidedBy,
		&d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	d.Status = authz.DocumentRequestStatus(status)
	return &d, nil
}

func (r *PGRepository) Create(ctx context.Context, d DocumentRequest) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO document_requests (id, student_id, document_type, copies, purpose, status)
VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.StudentID, d.DocumentType, d.Copies, d.Purpose, string(d.Status))
	return err
}

func (r *PGRepository) Get(ctx context.Context, id uuid.UUID) (*DocumentRequest, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM document_requests WHERE id=$1`, id)
	return scanRequest(row)
}

func (r *PGRepository) List(ctx context.Context, f ListFilter) ([]DocumentRequest, int, error) {
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
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM document_requests WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM document_requests WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		requestColumns, cond, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []DocumentRequest
	for rows.Next() {
		d, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PGRepository) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) error {
	tag, err := r.pool.Exec(ctx, `UPDATE document_requests
SET document_type = COALESCE($2, document_type),
    copies = COALESCE($3, copies),
    purpose = COALESCE($4, purpose),
    updated_at = NOW()
WHERE id=$1`, id, req.DocumentType, req.Copies, req.Purpose)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) SetFee(ctx context.Context, id uuid.UUID, fee float64, deadline time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE document_requests
SET fee=$2, payment_deadline=$3, status=$4, updated_at=NOW()
WHERE id=$1`, id, fee, deadline, string(authz.DocumentRequestPendingPayment))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) SetStatus(ctx context.Context, id uuid.UUID, status authz.DocumentRequestStatus, decidedBy int64, remarks *string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE document_requests
SET status=$2, decided_by=$3, remarks=COALESCE($4, remarks), updated_at=NOW()
WHERE id=$1`, id, string(status), decidedBy, remarks)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) SetGenerated(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE document_requests SET generated_at=$2, updated_at=NOW() WHERE id=$1`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM document_requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExpireUnpaid rejects requests still awaiting payment past the cutoff and
// returns how many were touched.
func (r *PGRepository) ExpireUnpaid(ctx context.Context, cutoff time.Time, remarks string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE document_requests
SET status=$1, remarks=$2, updated_at=NOW()
WHERE status=$3 AND payment_deadline IS NOT NULL AND payment_deadline < $4`,
		string(authz.DocumentRequestRejected), remarks, string(authz.DocumentRequestPendingPayment), cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
