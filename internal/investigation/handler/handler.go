package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"argus/internal/audit"
	"argus/internal/investigation"
	"argus/internal/investigation/service"
	"argus/internal/investigation/store"
	"argus/pkg/platform/httputil"
	"argus/pkg/platform/sentinel"
)

// Investigator runs investigations; satisfied by the investigation service.
type Investigator interface {
	Investigate(ctx context.Context, req service.Request) (*store.Investigation, error)
}

// Reader fetches persisted investigations.
type Reader interface {
	Get(ctx context.Context, id string) (*store.Investigation, error)
	ListByEntity(ctx context.Context, entityID string) ([]*store.Investigation, error)
}

// Handler wires investigation endpoints to the service and stores.
type Handler struct {
	investigator Investigator
	reader       Reader
	trail        audit.Store
	logger       *slog.Logger
}

// New constructs an investigation handler. The audit trail store is optional.
func New(investigator Investigator, reader Reader, trail audit.Store, logger *slog.Logger) *Handler {
	return &Handler{
		investigator: investigator,
		reader:       reader,
		trail:        trail,
		logger:       logger,
	}
}

// Register mounts investigation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/investigations", h.HandleCreate)
	r.Get("/investigations/{id}", h.HandleGet)
	r.Get("/investigations/{id}/audit", h.HandleAuditTrail)
	r.Get("/entities/{entityID}/investigations", h.HandleListByEntity)
}

// CreateRequest is the wire form of an investigation request.
type CreateRequest struct {
	EntityID    string         `json:"entity_id"`
	EntityType  string         `json:"entity_type"`
	RawFacts    any            `json:"raw_facts"`
	ToolResults map[string]any `json:"tool_results"`
}

// HandleCreate runs an investigation synchronously and returns the verdict.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := httputil.Decode[CreateRequest](r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if req.EntityID == "" || req.EntityType == "" {
		httputil.WriteError(w, http.StatusBadRequest, "invalid_request", "entity_id and entity_type are required")
		return
	}
	entityType := investigation.EntityType(req.EntityType)
	if !entityType.Valid() {
		httputil.WriteError(w, http.StatusBadRequest, "invalid_request", "unknown entity_type")
		return
	}

	inv, err := h.investigator.Investigate(ctx, service.Request{
		EntityID:    req.EntityID,
		EntityType:  entityType,
		RawFacts:    req.RawFacts,
		ToolResults: req.ToolResults,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "investigation failed",
			"entity_id", req.EntityID,
			"error", err,
		)
		httputil.WriteError(w, http.StatusInternalServerError, "investigation_failed", "")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, inv)
}

// HandleGet returns one persisted investigation.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	inv, err := h.reader.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "not_found", "no such investigation")
			return
		}
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inv)
}

// HandleListByEntity returns all investigations for one entity.
func (h *Handler) HandleListByEntity(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "entityID")
	invs, err := h.reader.ListByEntity(r.Context(), entityID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"investigations": invs})
}

// HandleAuditTrail returns the chain-of-thought trail for one investigation.
func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	if h.trail == nil {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "audit trail not configured")
		return
	}
	id := chi.URLParam(r, "id")
	events, err := h.trail.ListByInvestigation(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}
