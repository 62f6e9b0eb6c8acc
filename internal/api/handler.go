package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pharmapos/m/domain"
	"pharmapos/m/internal/pos"
	"pharmapos/m/internal/store"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	ledger *pos.Ledger
	store  *store.Store
}

// New constructs a Handler.
func New(ledger *pos.Ledger, st *store.Store) *Handler {
	return &Handler{ledger: ledger, store: st}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Get("/dashboard", h.dashboard)

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", h.listInventory)
		r.Post("/", h.addMedication)
		r.Put("/{name}", h.updateMedication)
		r.Delete("/{name}", h.deleteMedication)
	})

	r.Post("/sell", h.sell)
	r.Get("/sales", h.listSales)

	r.Route("/export", func(r chi.Router) {
		r.Get("/inventory", h.exportInventory)
		r.Get("/sales", h.exportSales)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Inventory handlers

type medicationRequest struct {
	Name                 string  `json:"name"`
	Price                float64 `json:"price"`
	Quantity             int     `json:"quantity"`
	Expiry               string  `json:"expiry"`
	PrescriptionRequired bool    `json:"prescription_required"`
}

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.ledger.Inventory())
}

func (h *Handler) addMedication(w http.ResponseWriter, r *http.Request) {
	var req medicationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	med := domain.Medication{
		Price:                req.Price,
		Quantity:             req.Quantity,
		Expiry:               req.Expiry,
		PrescriptionRequired: req.PrescriptionRequired,
	}
	if err := h.ledger.AddMedication(req.Name, med); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to save inventory")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "medication added"})
}

func (h *Handler) updateMedication(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req medicationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	err := h.ledger.UpdateMedication(name, req.Price, req.Quantity, req.Expiry)
	if errors.Is(err, pos.ErrNotFound) {
		respondError(w, http.StatusNotFound, "medication not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update medication")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) deleteMedication(w http.ResponseWriter, r *http.Request) {
	err := h.ledger.DeleteMedication(chi.URLParam(r, "name"))
	if errors.Is(err, pos.ErrNotFound) {
		respondError(w, http.StatusNotFound, "medication not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete medication")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Sales handlers

type sellRequest struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	PrescriptionID string `json:"prescription_id"`
}

func (h *Handler) sell(w http.ResponseWriter, r *http.Request) {
	var req sellRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "name and a positive quantity are required")
		return
	}

	receipt, err := h.ledger.Sell(req.Name, req.Quantity, req.PrescriptionID)
	var stockErr *pos.InsufficientStockError
	switch {
	case errors.Is(err, pos.ErrNotFound):
		respondError(w, http.StatusNotFound, "medication not found")
	case errors.As(err, &stockErr):
		respondJSON(w, http.StatusConflict, map[string]any{
			"error":     "insufficient stock",
			"available": stockErr.Available,
		})
	case errors.Is(err, pos.ErrPrescriptionRequired):
		respondError(w, http.StatusUnprocessableEntity, "prescription id required")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "unable to complete sale")
	default:
		respondJSON(w, http.StatusCreated, receipt)
	}
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales := h.ledger.Sales()
	if sales == nil {
		sales = []domain.Sale{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"sales": sales,
		"total": pos.TotalRevenue(sales),
	})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ledger.Summary(time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to compute dashboard")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Export handlers serve the persisted files verbatim.

func (h *Handler) exportInventory(w http.ResponseWriter, r *http.Request) {
	serveCSV(w, r, h.store.InventoryPath(), "inventory.csv")
}

func (h *Handler) exportSales(w http.ResponseWriter, r *http.Request) {
	serveCSV(w, r, h.store.SalesPath(), "sales.csv")
}

func serveCSV(w http.ResponseWriter, r *http.Request, path, filename string) {
	if _, err := os.Stat(path); err != nil {
		respondError(w, http.StatusNotFound, "no data to export")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	http.ServeFile(w, r, path)
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
