package stats

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/uniportal/uniportal/internal/authz"
	"github.com/uniportal/uniportal/internal/platform/httpx"
	"github.com/uniportal/uniportal/internal/rbac"
)

// Handler serves the dashboard overview endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// Routes mounts the stats endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAnyPermission(
			authz.PermViewSasReports,
			authz.PermViewRegistrarReports,
			authz.PermViewAllModules,
		))
		r.Get("/overview", h.overview)
	})
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		h.logger.Error("build overview", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, overview)
}
