package rbac_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/uniportal/uniportal/internal/authz"
	"github.com/uniportal/uniportal/internal/rbac"
	"github.com/uniportal/uniportal/internal/shared"
)

type stubResolver struct {
	actor authz.Actor
	err   error
}

func (s *stubResolver) ResolveActor(_ context.Context, _ int64) (authz.Actor, error) {
	return s.actor, s.err
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithSession(userID int64) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess := &shared.Session{}
	sess.SetUser(userID)
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func TestWithActorResolvesSessionUser(t *testing.T) {
	actor, err := authz.ResolveActor(authz.DefaultBindings(), 42, []authz.Role{authz.RoleSasStaff})
	if err != nil {
		t.Fatalf("resolve actor: %v", err)
	}
	mw := rbac.Middleware{Resolver: &stubResolver{actor: actor}}

	var sawActor bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := shared.ActorFromContext(r.Context())
		sawActor = ok && got.ID == 42
		w.WriteHeader(http.StatusOK)
	})

	res := httptest.NewRecorder()
	mw.WithActor(inner).ServeHTTP(res, requestWithSession(42))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !sawActor {
		t.Fatalf("expected resolved actor in context")
	}
}

func TestWithActorSkipsAnonymous(t *testing.T) {
	mw := rbac.Middleware{Resolver: &stubResolver{}}

	var hadActor bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadActor = shared.ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	mw.WithActor(inner).ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if hadActor {
		t.Fatalf("anonymous request must not carry an actor")
	}
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	mw := rbac.Middleware{Resolver: &stubResolver{}}

	var called bool
	res := httptest.NewRecorder()
	mw.RequireAuth(okHandler(&called)).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if called {
		t.Fatalf("handler must not run for anonymous request")
	}
}

func TestRequirePermission(t *testing.T) {
	staff, err := authz.ResolveActor(authz.DefaultBindings(), 7, []authz.Role{authz.RoleRegistrarStaff})
	if err != nil {
		t.Fatalf("resolve actor: %v", err)
	}
	mw := rbac.Middleware{Resolver: &stubResolver{actor: staff}}

	run := func(perm authz.Permission) int {
		var called bool
		res := httptest.NewRecorder()
		handler := mw.WithActor(mw.RequirePermission(perm)(okHandler(&called)))
		handler.ServeHTTP(res, requestWithSession(7))
		return res.Code
	}

	if code := run(authz.PermProcessDocumentRequests); code != http.StatusOK {
		t.Fatalf("granted permission: expected 200, got %d", code)
	}
	if code := run(authz.PermIssueRefunds); code != http.StatusForbidden {
		t.Fatalf("missing permission: expected 403, got %d", code)
	}
}

func TestRequireAnyPermission(t *testing.T) {
	student, err := authz.ResolveActor(authz.DefaultBindings(), 8, []authz.Role{authz.RoleStudent})
	if err != nil {
		t.Fatalf("resolve actor: %v", err)
	}
	mw := rbac.Middleware{Resolver: &stubResolver{actor: student}}

	var called bool
	guard := mw.RequireAnyPermission(authz.PermViewAllDocumentRequests, authz.PermViewOwnDocumentRequests)
	res := httptest.NewRecorder()
	mw.WithActor(guard(okHandler(&called))).ServeHTTP(res, requestWithSession(8))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 via view-own grant, got %d", res.Code)
	}
}

func TestRequireAnyRole(t *testing.T) {
	officer, err := authz.ResolveActor(authz.DefaultBindings(), 9, []authz.Role{authz.RoleUsgOfficer})
	if err != nil {
		t.Fatalf("resolve actor: %v", err)
	}
	mw := rbac.Middleware{Resolver: &stubResolver{actor: officer}}

	var called bool
	guard := mw.RequireAnyRole(authz.RoleUsgAdmin, authz.RoleUsgOfficer)
	res := httptest.NewRecorder()
	mw.WithActor(guard(okHandler(&called))).ServeHTTP(res, requestWithSession(9))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	denyGuard := mw.RequireAnyRole(authz.RoleSasAdmin)
	res = httptest.NewRecorder()
	mw.WithActor(denyGuard(okHandler(&called))).ServeHTTP(res, requestWithSession(9))
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
}
