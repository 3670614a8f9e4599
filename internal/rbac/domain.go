// Package rbac persists the role and permission catalog and resolves users
// into authz actors. The catalog itself lives in internal/authz; this package
// keeps the database in agreement with it and answers per-user lookups.
package rbac

import "time"

// Role is a persisted role row.
type Role struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Permission is a persisted permission row.
type Permission struct {
	ID          int64
	Name        string
	Description string
}
