package rbac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uniportal/uniportal/internal/authz"
)

// ErrNotFound indicates that the requested record does not exist.
var ErrNotFound = errors.New("rbac: not found")

// Service keeps the persisted role/permission tables in sync with the authz
// catalog and resolves users into actors.
type Service struct {
	pool     *pgxpool.Pool
	bindings authz.Bindings
	logger   *slog.Logger
}

// NewService constructs a Service backed by the provided pool.
func NewService(pool *pgxpool.Pool, bindings authz.Bindings, logger *slog.Logger) *Service {
	return &Service{pool: pool, bindings: bindings, logger: logger}
}

// Bindings exposes the binding snapshot the service was built with.
func (s *Service) Bindings() authz.Bindings {
	return s.bindings
}

// SyncCatalog makes persisted storage agree exactly with the authz catalog
// and bindings: every permission and role exists, and each role's stored
// permission set equals the computed one. Stale grants are removed, so the
// sync is authoritative rather than additive. It is idempotent and safe to
// run on every deploy.
func (s *Service) SyncCatalog(ctx context.Context) error {
	if err := s.bindings.Validate(); err != nil {
		return fmt.Errorf("rbac: refusing to sync invalid bindings: %w", err)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, perm := range authz.AllPermissions() {
			if _, err := tx.Exec(ctx, `INSERT INTO permissions (name, description)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description`,
				perm.String(), perm.Label()); err != nil {
				return fmt.Errorf("rbac: upsert permission %s: %w", perm, err)
			}
		}

		for _, role := range authz.AllRoles() {
			if _, err := tx.Exec(ctx, `INSERT INTO roles (name, description, created_at, updated_at)
VALUES ($1, $2, NOW(), NOW())
ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, updated_at = NOW()`,
				role.String(), role.Description()); err != nil {
				return fmt.Errorf("rbac: upsert role %s: %w", role, err)
			}
		}

		for _, role := range authz.AllRoles() {
			granted, err := s.bindings.PermissionsFor(role)
			if err != nil {
				return err
			}
			names := granted.Slice()
			args := make([]string, len(names))
			for i, p := range names {
				args[i] = p.String()
			}

			if _, err := tx.Exec(ctx, `DELETE FROM role_permissions
WHERE role_id = (SELECT id FROM roles WHERE name = $1)
AND permission_id NOT IN (SELECT id FROM permissions WHERE name = ANY($2))`,
				role.String(), args); err != nil {
				return fmt.Errorf("rbac: prune grants for %s: %w", role, err)
			}

			if _, err := tx.Exec(ctx, `INSERT INTO role_permissions (role_id, permission_id)
SELECT r.id, p.id FROM roles r, permissions p
WHERE r.name = $1 AND p.name = ANY($2)
ON CONFLICT DO NOTHING`,
				role.String(), args); err != nil {
				return fmt.Errorf("rbac: attach grants for %s: %w", role, err)
			}
		}
		return nil
	})
}

// ListRoles returns all persisted roles ordered by name.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var r Role
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// ListPermissions returns all persisted permissions ordered by name.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, description FROM permissions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// AssignRole assigns a catalog role to the given user.
func (s *Service) AssignRole(ctx context.Context, userID int64, role authz.Role) error {
	tag, err := s.pool.Exec(ctx, `INSERT INTO user_roles (user_id, role_id, created_at)
SELECT $1, id, NOW() FROM roles WHERE name = $2
ON CONFLICT DO NOTHING`, userID, role.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either already assigned or the role row is missing; distinguish.
		var exists bool
		if err := s.pool.QueryRow(ctx, `SELECT true FROM roles WHERE name = $1`, role.String()).Scan(&exists); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: role %s", ErrNotFound, role)
			}
			return err
		}
	}
	return nil
}

// RemoveRole removes a role from a user.
func (s *Service) RemoveRole(ctx context.Context, userID int64, role authz.Role) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM user_roles
WHERE user_id = $1 AND role_id = (SELECT id FROM roles WHERE name = $2)`, userID, role.String())
	return err
}

// RolesFor returns the catalog roles assigned to a user.
func (s *Service) RolesFor(ctx context.Context, userID int64) ([]authz.Role, error) {
	rows, err := s.pool.Query(ctx, `SELECT r.name FROM roles r
JOIN user_roles ur ON ur.role_id = r.id
WHERE ur.user_id = $1 ORDER BY r.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []authz.Role
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, authz.Role(name))
	}
	return roles, rows.Err()
}

// EffectivePermissions returns the deduplicated union of permissions granted
// to the user through its roles.
func (s *Service) EffectivePermissions(ctx context.Context, userID int64) ([]authz.Permission, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT p.name FROM permissions p
JOIN role_permissions rp ON rp.permission_id = p.id
JOIN user_roles ur ON ur.role_id = rp.role_id
WHERE ur.user_id = $1 ORDER BY p.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []authz.Permission
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		perms = append(perms, authz.Permission(name))
	}
	return perms, rows.Err()
}

// ResolveActor loads a user's roles and effective permissions and returns
// the actor policies decide against. The permission set is taken from the
// persisted grants, not recomputed from bindings, so direct grants added by
// administrative tooling are honoured.
func (s *Service) ResolveActor(ctx context.Context, userID int64) (authz.Actor, error) {
	roles, err := s.RolesFor(ctx, userID)
	if err != nil {
		return authz.Actor{}, err
	}
	perms, err := s.EffectivePermissions(ctx, userID)
	if err != nil {
		return authz.Actor{}, err
	}
	return authz.NewActor(userID, roles, perms), nil
}
