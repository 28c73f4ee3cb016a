// internal/workorder/handler.go
package workorder

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"partsledger/internal/inventory"
)

// Handler handles HTTP requests for the work order service.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/work-orders", h.handleOpen)
	r.Get("/work-orders/{id}", h.handleGet)
	r.Post("/work-orders/{id}/complete", h.handleComplete)
	r.Post("/work-orders/{id}/cancel", h.handleCancel)
	return r
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrWorkOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateRequest), errors.Is(err, ErrNotOpen):
		return http.StatusConflict
	case errors.Is(err, ErrTechnicianInactive), errors.Is(err, inventory.ErrInsufficientAvailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNoPartLines):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.service.OpenWorkOrder(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid work order ID", http.StatusBadRequest)
		return
	}

	order, err := h.service.GetWorkOrder(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	h.handleClose(w, r, h.service.CompleteWorkOrder)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	h.handleClose(w, r, h.service.CancelWorkOrder)
}

type closeRequest struct {
	Actor string `json:"actor"`
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID, actor string) (*WorkOrder, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid work order ID", http.StatusBadRequest)
		return
	}

	var req closeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Actor == "" {
		http.Error(w, "actor is required", http.StatusBadRequest)
		return
	}

	order, err := op(r.Context(), id, req.Actor)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}
