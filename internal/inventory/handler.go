// internal/inventory/handler.go
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/locations", h.handleCreateLocation)
	r.Get("/locations/{id}", h.handleGetLocation)
	r.Get("/locations/{id}/ledger", h.handleLedger)
	r.Post("/locations/{id}/reserve", h.handleReserve)
	r.Post("/locations/{id}/release", h.handleRelease)
	r.Post("/locations/{id}/issue", h.handleIssue)
	r.Post("/locations/{id}/receive", h.handleReceive)
	r.Post("/locations/{id}/adjust", h.handleAdjust)
	r.Put("/locations/{id}/stock-levels", h.handleUpdateStockLevels)
	r.Put("/locations/{id}/bin", h.handleMoveBin)
	r.Post("/locations/{id}/deactivate", h.handleDeactivate)
	return r
}

// statusForError maps the domain error taxonomy onto HTTP statuses so that
// callers can tell "not enough stock" from "bad input" from "location
// disabled" from "retry against fresh state".
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrInventoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidStockLevels):
		return http.StatusBadRequest
	case errors.Is(err, ErrInsufficientAvailable),
		errors.Is(err, ErrInsufficientReserved),
		errors.Is(err, ErrInsufficientOnHand):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInactiveLocation), errors.Is(err, ErrLocationNotEmpty):
		return http.StatusConflict
	case errors.Is(err, ErrConcurrencyConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusForError(err))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func locationID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid inventory ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PartID          uuid.UUID `json:"part_id"`
		Warehouse       string    `json:"warehouse"`
		BinLocation     string    `json:"bin_location"`
		MinimumLevel    int       `json:"minimum_stock_level"`
		MaximumLevel    int       `json:"maximum_stock_level"`
		ReorderQuantity int       `json:"reorder_quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.service.CreateLocation(r.Context(), req.PartID, req.Warehouse, req.BinLocation,
		req.MinimumLevel, req.MaximumLevel, req.ReorderQuantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (h *Handler) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := locationID(w, r)
	if !ok {
		return
	}

	inv, err := h.service.GetLocation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		*Inventory
		Available  int  `json:"available"`
		LowStock   bool `json:"low_stock"`
		OutOfStock bool `json:"out_of_stock"`
	}{inv, inv.Available(), inv.IsLowStock(), inv.IsOutOfStock()})
}

func (h *Handler) handleLedger(w http.ResponseWriter, r *http.Request) {
	id, ok := locationID(w, r)
	if !ok {
		return
	}

	entries, err := h.service.Ledger(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type movementRequest struct {
	Quantity        int       `json:"quantity"`
	WorkOrderID     uuid.UUID `json:"work_order_id"`
	Actor           string    `json:"actor"`
	ReferenceNumber string    `json:"reference_number"`
}

func (h *Handler) handleReserve(w http.ResponseWriter, r *http.Request) {
	h.handleMovement(w, r, h.service.ReserveParts)
}

func (h *Handler) handleRelease(w http.ResponseWriter, r *http.Request) {
	h.handleMovement(w, r, h.service.ReleaseReservation)
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	h.handleMovement(w, r, h.service.IssueParts)
}

func (h *Handler) handleMovement(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, id uuid.UUID, quantity int, workOrderID uuid.UUID, actor string) (*Inventory, error)) {
	id, ok := locationID(w, r)
	if !ok {
		return
	}

	var req movementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := op(r.Context(), id, req.Quantity, req.WorkOrderID, req.Actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *Handler) handleReceive(w http.ResponseWriter, r *http.Request) {
	id, ok := locationID(w, r)
	if !ok {
		return
	}

	var req movementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.service.ReceiveParts(r.Context(), id, req.Quantity, req.Actor, req.ReferenceNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *Handler) handleAdjust(w http.ResponseWriter, r *http.Request) {
	id, ok := locationID(w, r)
	if !ok {
		return
	}

	var req struct {
		NewQuantity int    `json:"new_quantity"`
		Reason      string `json:"reason"`
		Actor       string `json:"actor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.service.AdjustQuantity(r.Context(), id, req.NewQuantity, req.Reason, req.Actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *Handler) handleUpdateStockLevels(w http.ResponseWriter, r *http.Request) {
	id, ok := locationID(w, r)
	if !ok {
		return
	}

	var req struct {
		MinimumLevel    int `json:"minimum_stock_level"`
		MaximumLevel    int `json:"maximum_stock_level"`
		ReorderQuantity int `json:"reorder_quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.service.UpdateStockLevels(r.Context(), id, req.MinimumLevel, req.MaximumLevel, req.ReorderQuantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *Handler) handleMoveBin(w http.ResponseWriter, r *http.Request) {
	id, ok := locationID(w, r)
	if !ok {
		return
	}

	var req struct {
		BinLocation string `json:"bin_location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.service.MoveToBinLocation(r.Context(), id, req.BinLocation)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := locationID(w, r)
	if !ok {
		return
	}

	inv, err := h.service.Deactivate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}
