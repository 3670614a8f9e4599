package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uniportal/uniportal/internal/auth"
	"github.com/uniportal/uniportal/internal/observability"
	"github.com/uniportal/uniportal/internal/rbac"
	"github.com/uniportal/uniportal/internal/registrar"
	"github.com/uniportal/uniportal/internal/sas"
	"github.com/uniportal/uniportal/internal/shared"
	"github.com/uniportal/uniportal/internal/stats"
	"github.com/uniportal/uniportal/internal/usg"
	"github.com/uniportal/uniportal/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	AuthHandler      *auth.Handler
	SASHandler       *sas.Handler
	RegistrarHandler *registrar.Handler
	USGHandler       *usg.Handler
	RBACHandler      *rbac.Handler
	StatsHandler     *stats.Handler
	JobHandler       *jobs.Handler
	Pool             *pgxpool.Pool
	RBACMiddleware   rbac.Middleware
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with UniPortal defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(params.RBACMiddleware.WithActor)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	params.AuthHandler.Routes(r)

	r.Route("/sas", params.SASHandler.Routes)
	r.Route("/registrar", params.RegistrarHandler.Routes)
	r.Route("/usg", params.USGHandler.Routes)

	if params.RBACHandler != nil {
		r.Route("/admin", params.RBACHandler.Routes)
	}

	if params.StatsHandler != nil {
		r.Route("/stats", params.StatsHandler.Routes)
	}

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
