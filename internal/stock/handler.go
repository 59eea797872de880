package stock

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"ageing-reconciliation-service/pkg/logger"
)

// Storage is the persistence contract the HTTP layer depends on.
type Storage interface {
	List(ctx context.Context) ([]Item, error)
	ReplaceAll(ctx context.Context, items []Item) error
}

// Handler serves the stock sync API.
type Handler struct {
	store Storage
	log   logger.Logger
}

// NewHandler creates a handler over the given storage.
func NewHandler(store Storage) *Handler {
	return &Handler{
		store: store,
		log:   logger.GetGlobalLogger().WithComponent("stock"),
	}
}

// Router builds the mux router with the stock routes mounted.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/stock", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/api/stock", h.handleSync).Methods(http.MethodPost)
	return r
}

type syncResponse struct {
	Success bool   `json:"success"`
	BatchID string `json:"batch_id,omitempty"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to list stock items")
		respondError(w, http.StatusInternalServerError, "failed to list stock items")
		return
	}

	if items == nil {
		items = []Item{}
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	var items []Item
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	for i := range items {
		items[i].Normalize()
		if err := items[i].Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := h.store.ReplaceAll(r.Context(), items); err != nil {
		h.log.WithError(err).Error("Stock sync failed")
		respondError(w, http.StatusInternalServerError, "stock sync failed")
		return
	}

	batchID := uuid.New().String()
	h.log.WithFields(logger.Fields{
		"batch_id": batchID,
		"count":    len(items),
	}).Info("Stock catalog replaced")

	respondJSON(w, http.StatusOK, syncResponse{
		Success: true,
		BatchID: batchID,
		Count:   len(items),
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, syncResponse{Success: false, Error: message})
}
