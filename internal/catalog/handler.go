// internal/catalog/handler.go
package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/parts", h.handleAddPart)
	r.Get("/parts/{id}", h.handleGetPart)
	r.Patch("/parts/{id}/pricing", h.handleUpdatePricing)
	r.Delete("/parts/{id}", h.handleRetirePart)
	r.Get("/search", h.handleSearch)
	return r
}

func partID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid part ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleAddPart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SKU          string          `json:"sku"`
		Name         string          `json:"name"`
		Description  string          `json:"description"`
		Manufacturer string          `json:"manufacturer"`
		Cost         decimal.Decimal `json:"cost"`
		Price        decimal.Decimal `json:"price"`
		LeadTimeDays int             `json:"lead_time_days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	part, err := h.service.AddPart(r.Context(), req.SKU, req.Name, req.Description, req.Manufacturer,
		req.Cost, req.Price, req.LeadTimeDays)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(part)
}

func (h *Handler) handleGetPart(w http.ResponseWriter, r *http.Request) {
	id, ok := partID(w, r)
	if !ok {
		return
	}

	part, err := h.service.GetPart(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrPartNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(part)
}

func (h *Handler) handleUpdatePricing(w http.ResponseWriter, r *http.Request) {
	id, ok := partID(w, r)
	if !ok {
		return
	}

	var req struct {
		Cost         decimal.Decimal `json:"cost"`
		Price        decimal.Decimal `json:"price"`
		LeadTimeDays int             `json:"lead_time_days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.UpdatePricing(r.Context(), id, req.Cost, req.Price, req.LeadTimeDays); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrPartNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleRetirePart(w http.ResponseWriter, r *http.Request) {
	id, ok := partID(w, r)
	if !ok {
		return
	}

	if err := h.service.RetirePart(r.Context(), id); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrPartNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "missing search query", http.StatusBadRequest)
		return
	}

	parts, err := h.service.Search(r.Context(), query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(parts)
}
