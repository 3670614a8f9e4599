package rbac

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/uniportal/uniportal/internal/authz"
	"github.com/uniportal/uniportal/internal/platform/httpx"
)

// Handler serves the role and permission administration endpoints.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	middleware Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, middleware Middleware) *Handler {
	return &Handler{logger: logger, service: service, middleware: middleware}
}

// Routes mounts the administration endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.middleware.RequireAnyPermission(authz.PermManageRoles, authz.PermManagePermissions))
		r.Get("/roles", h.listRoles)
		r.Get("/permissions", h.listPermissions)
		r.Get("/roles/{role}/permissions", h.rolePermissions)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.middleware.RequirePermission(authz.PermAssignRoles))
		r.Get("/users/{userID}/roles", h.userRoles)
		r.Get("/users/{userID}/permissions", h.userPermissions)
		r.Post("/users/{userID}/roles", h.assignRole)
		r.Delete("/users/{userID}/roles/{role}", h.removeRole)
	})
}

type roleResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type permissionResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, roleResponse{Name: role.Name, Description: role.Description})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.service.ListPermissions(r.Context())
	if err != nil {
		h.logger.Error("list permissions", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]permissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, permissionResponse{Name: p.Name, Description: p.Description})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) rolePermissions(w http.ResponseWriter, r *http.Request) {
	role := authz.Role(chi.URLParam(r, "role"))
	set, err := h.service.Bindings().PermissionsFor(role)
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown role")
		return
	}
	httpx.JSON(w, http.StatusOK, set.Slice())
}

func (h *Handler) userRoles(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}
	roles, err := h.service.RolesFor(r.Context(), userID)
	if err != nil {
		h.logger.Error("list user roles", slog.Any("error", err), slog.Int64("user_id", userID))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, roles)
}

func (h *Handler) userPermissions(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}
	perms, err := h.service.EffectivePermissions(r.Context(), userID)
	if err != nil {
		h.logger.Error("list user permissions", slog.Any("error", err), slog.Int64("user_id", userID))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, perms)
}

type assignRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}
	var req assignRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	role := authz.Role(req.Role)
	if _, err := h.service.Bindings().PermissionsFor(role); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown role")
		return
	}
	if err := h.service.AssignRole(r.Context(), userID, role); err != nil {
		h.logger.Error("assign role", slog.Any("error", err), slog.Int64("user_id", userID), slog.String("role", req.Role))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeRole(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}
	role := authz.Role(chi.URLParam(r, "role"))
	if err := h.service.RemoveRole(r.Context(), userID, role); err != nil {
		h.logger.Error("remove role", slog.Any("error", err), slog.Int64("user_id", userID), slog.String("role", string(role)))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
