package registrar

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

// Handler serves the registrar JSON endpoints.
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

// Routes mounts the registrar endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/document-requests", func(r chi.Router) {
		r.Use(h.rbac.RequireAuth)
		r.Get("/", h.list)
		r.Post("/", h.submit)
		r.Get("/{id}", h.get)
		r.Get("/{id}/history", h.history)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/assess-fee", h.assessFee)
		r.Post("/{id}/confirm-payment", h.confirmPayment)
		r.Post("/{id}/approve", h.approve)
		r.Post("/{id}/reject", h.reject)
		r.Post("/{id}/refund", h.refund)
		r.Post("/{id}/generate", h.generate)
		r.Post("/{id}/release", h.release)
	})
}

func (h *Handler) actor(r *http.Request) (authz.Actor, bool) {
	return shared.ActorFromContext(r.Context())
}

func parseID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

type listResponse struct {
	Items []DocumentRequest `json:"items"`
	Total int               `json:"total"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	filter := ListFilter{Limit: 50}
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			filter.Limit = parsed
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			filter.Offset = parsed
		}
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := authz.DocumentRequestStatus(s)
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

	items, total, err := h.service.List(r.Context(), actor, filter)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Items: items, Total: total})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var req SubmitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	d, err := h.service.Submit(r.Context(), actor, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, d)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
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
	d, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

type historyResponse struct {
	Items []shared.ApprovalLog `json:"items"`
	Total int                  `json:"total"`
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
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
	logs, err := h.service.History(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, historyResponse{Items: logs, Total: len(logs)})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
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
	var req UpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	d, err := h.service.Update(r.Context(), actor, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) assessFee(w http.ResponseWriter, r *http.Request) {
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
	var req AssessFeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	d, err := h.service.AssessFee(r.Context(), actor, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(actor authz.Actor, id uuid.UUID, _ DecisionRequest) (*DocumentRequest, error) {
		return h.service.ConfirmPayment(r.Context(), actor, id)
	})
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(actor authz.Actor, id uuid.UUID, req DecisionRequest) (*DocumentRequest, error) {
		return h.service.Approve(r.Context(), actor, id, req)
	})
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(actor authz.Actor, id uuid.UUID, req DecisionRequest) (*DocumentRequest, error) {
		return h.service.Reject(r.Context(), actor, id, req)
	})
}

func (h *Handler) refund(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(actor authz.Actor, id uuid.UUID, req DecisionRequest) (*DocumentRequest, error) {
		return h.service.Refund(r.Context(), actor, id, req)
	})
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(actor authz.Actor, id uuid.UUID, _ DecisionRequest) (*DocumentRequest, error) {
		return h.service.Generate(r.Context(), actor, id)
	})
}

func (h *Handler) release(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(actor authz.Actor, id uuid.UUID, _ DecisionRequest) (*DocumentRequest, error) {
		return h.service.Release(r.Context(), actor, id)
	})
}

func (h *Handler) action(w http.ResponseWriter, r *http.Request, fn func(authz.Actor, uuid.UUID, DecisionRequest) (*DocumentRequest, error)) {
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
	d, err := fn(actor, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}
