package rbac

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/uniportal/uniportal/internal/authz"
	"github.com/uniportal/uniportal/internal/shared"
)

// ActorResolver resolves an authenticated user ID into an authz actor.
// *Service satisfies it; tests substitute stubs.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID int64) (authz.Actor, error)
}

// DenialCounter observes authorization denials per guard.
type DenialCounter interface {
	CountDenial(guard string)
}

// Middleware wires authorization helpers for HTTP handlers.
type Middleware struct {
	Resolver ActorResolver
	Logger   *slog.Logger
	Denials  DenialCounter
}

func (m Middleware) deny(w http.ResponseWriter, guard string) {
	if m.Denials != nil {
		m.Denials.CountDenial(guard)
	}
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

// WithActor resolves the session user into an actor and attaches it to the
// request context. Anonymous requests pass through without an actor; guards
// further down the chain decide whether that is acceptable.
func (m Middleware) WithActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.User() == 0 {
			next.ServeHTTP(w, r)
			return
		}
		actor, err := m.Resolver.ResolveActor(r.Context(), sess.User())
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("resolve actor", slog.Int64("user_id", sess.User()), slog.Any("error", err))
			}
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithActor(r.Context(), actor)))
	})
}

// RequireAuth ensures the request carries a resolved actor.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := shared.ActorFromContext(r.Context()); !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission ensures the current actor holds every listed permission.
func (m Middleware) RequirePermission(perms ...authz.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := shared.ActorFromContext(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			for _, p := range perms {
				if !actor.Can(p) {
					m.deny(w, string(p))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission ensures the current actor holds at least one of the
// listed permissions.
func (m Middleware) RequireAnyPermission(perms ...authz.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := shared.ActorFromContext(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			for _, p := range perms {
				if actor.Can(p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			m.deny(w, string(perms[0]))
		})
	}
}

// RequireAnyRole ensures the current actor holds at least one of the roles.
func (m Middleware) RequireAnyRole(roles ...authz.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := shared.ActorFromContext(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if !actor.HasAnyRole(roles...) {
				guard := ""
				if len(roles) > 0 {
					guard = string(roles[0])
				}
				m.deny(w, guard)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
