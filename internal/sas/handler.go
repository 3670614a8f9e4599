package sas

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/uniportal/uniportal/internal/authz"
	"github.com/uniportal/uniportal/internal/platform/httpx"
	"github.com/uniportal/uniportal/internal/rbac"
	"github.com/uniportal/uniportal/internal/shared"
)

// Handler serves the student affairs JSON endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		rbac:      rbac,
		validator: validator.New(),
	}
}

// Routes mounts the student affairs endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/scholarships", func(r chi.Router) {
		r.Use(h.rbac.RequireAuth)
		r.Get("/", h.listScholarships)
		r.Post("/", h.submitScholarship)
		r.Get("/{id}", h.getScholarship)
		r.Get("/{id}/history", h.scholarshipHistory)
		r.Patch("/{id}", h.updateScholarship)
		r.Delete("/{id}", h.deleteScholarship)
		r.Post("/{id}/review", h.reviewScholarship)
		r.Post("/{id}/approve", h.approveScholarship)
		r.Post("/{id}/reject", h.rejectScholarship)
		r.Post("/{id}/disburse", h.disburseScholarship)
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.listEvents)
		r.Get("/{id}", h.getEvent)
		r.Group(func(r chi.Router) {
			r.Use(h.rbac.RequireAuth)
			r.Post("/", h.createEvent)
			r.Patch("/{id}", h.updateEvent)
			r.Post("/{id}/publish", h.publishEvent)
			r.Delete("/{id}", h.deleteEvent)
		})
	})

	r.Route("/organizations", func(r chi.Router) {
		r.Get("/", h.listOrganizations)
		r.Get("/{id}", h.getOrganization)
		r.Group(func(r chi.Router) {
			r.Use(h.rbac.RequireAuth)
			r.Post("/", h.createOrganization)
			r.Patch("/{id}", h.updateOrganization)
			r.Post("/{id}/accredit", h.accreditOrganization)
			r.Delete("/{id}", h.deleteOrganization)
		})
	})
}

func (h *Handler) actor(r *http.Request) (authz.Actor, bool) {
	return shared.ActorFromContext(r.Context())
}

func parseID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func parsePage(r *http.Request) (limit, offset int) {
	limit = 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// ============================================================================
// SCHOLARSHIP HANDLERS
// ============================================================================

func (h *Handler) listScholarships(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	limit, offset := parsePage(r)
	filter := ListScholarshipsFilter{Limit: limit, Offset: offset}
	if s := r.URL.Query().Get("status"); s != "" {
		status := authz.ScholarshipStatus(s)
		filter.Status = &status
	}
	if sid := r.URL.Query().Get("student_id"); sid != "" {
		parsed, err := strconv.ParseInt(sid, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid student_id")
			return
		}
		filter.StudentID = &parsed
	}

	items, total, err := h.service.ListScholarships(r.Context(), actor, filter)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[Scholarship]{Items: items, Total: total})
}

func (h *Handler) submitScholarship(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var req SubmitScholarshipRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	app, err := h.service.SubmitScholarship(r.Context(), actor, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, app)
}

func (h *Handler) getScholarship(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	app, err := h.service.GetScholarship(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, app)
}

func (h *Handler) scholarshipHistory(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	logs, err := h.service.ScholarshipHistory(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[shared.ApprovalLog]{Items: logs, Total: len(logs)})
}

func (h *Handler) updateScholarship(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var req UpdateScholarshipRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	app, err := h.service.UpdateScholarship(r.Context(), actor, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, app)
}

func (h *Handler) deleteScholarship(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteScholarship(r.Context(), actor, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reviewScholarship(w http.ResponseWriter, r *http.Request) {
	h.scholarshipAction(w, r, func(actor authz.Actor, id uuid.UUID, _ DecisionRequest) (*Scholarship, error) {
		return h.service.ReviewScholarship(r.Context(), actor, id)
	})
}

func (h *Handler) approveScholarship(w http.ResponseWriter, r *http.Request) {
	h.scholarshipAction(w, r, func(actor authz.Actor, id uuid.UUID, req DecisionRequest) (*Scholarship, error) {
		return h.service.ApproveScholarship(r.Context(), actor, id, req)
	})
}

func (h *Handler) rejectScholarship(w http.ResponseWriter, r *http.Request) {
	h.scholarshipAction(w, r, func(actor authz.Actor, id uuid.UUID, req DecisionRequest) (*Scholarship, error) {
		return h.service.RejectScholarship(r.Context(), actor, id, req)
	})
}

func (h *Handler) disburseScholarship(w http.ResponseWriter, r *http.Request) {
	h.scholarshipAction(w, r, func(actor authz.Actor, id uuid.UUID, req DecisionRequest) (*Scholarship, error) {
		return h.service.DisburseScholarship(r.Context(), actor, id, req)
	})
}

func (h *Handler) scholarshipAction(w http.ResponseWriter, r *http.Request, fn func(authz.Actor, uuid.UUID, DecisionRequest) (*Scholarship, error)) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var req DecisionRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
			return
		}
	}
	app, err := fn(actor, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, app)
}

// ============================================================================
// EVENT HANDLERS
// ============================================================================

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)
	items, total, err := h.service.ListEvents(r.Context(), limit, offset)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[Event]{Items: items, Total: total})
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	ev, err := h.service.GetEvent(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ev)
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var req CreateEventRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	ev, err := h.service.CreateEvent(r.Context(), actor, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, ev)
}

func (h *Handler) updateEvent(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var req UpdateEventRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	ev, err := h.service.UpdateEvent(r.Context(), actor, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ev)
}

func (h *Handler) publishEvent(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	ev, err := h.service.PublishEvent(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ev)
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteEvent(r.Context(), actor, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// ORGANIZATION HANDLERS
// ============================================================================

func (h *Handler) listOrganizations(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)
	items, total, err := h.service.ListOrganizations(r.Context(), limit, offset)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[Organization]{Items: items, Total: total})
}

func (h *Handler) getOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	org, err := h.service.GetOrganization(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, org)
}

func (h *Handler) createOrganization(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var req CreateOrganizationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	org, err := h.service.CreateOrganization(r.Context(), actor, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, org)
}

func (h *Handler) updateOrganization(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	var req UpdateOrganizationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	org, err := h.service.UpdateOrganization(r.Context(), actor, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, org)
}

func (h *Handler) accreditOrganization(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	org, err := h.service.AccreditOrganization(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, org)
}

func (h *Handler) deleteOrganization(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.service.DeleteOrganization(r.Context(), actor, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
