package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/maltedev/dealwatch/internal/database"
	"github.com/maltedev/dealwatch/internal/models"
)

// ItemStore is the persistence surface the API needs. Implemented by
// database.DB.
type ItemStore interface {
	ListItems(ctx context.Context) ([]*models.WatchItem, error)
	GetItem(ctx context.Context, id int64) (*models.WatchItem, error)
	AddItem(ctx context.Context, item *models.WatchItem) error
}

// PriceFinder runs on-demand lookups. Implemented by
// comparator.Aggregator; the API uses the regional aggregator so the
// caller gets an itemized same-currency breakdown.
type PriceFinder interface {
	FindPrices(ctx context.Context, productName string) *models.AggregatedResult
}

// Refresher triggers a full refresh cycle. Implemented by
// scheduler.Scheduler.
type Refresher interface {
	RefreshAll(ctx context.Context) int
}

type Handlers struct {
	store     ItemStore
	finder    PriceFinder
	refresher Refresher
	logger    *slog.Logger
}

func NewHandlers(store ItemStore, finder PriceFinder, refresher Refresher, logger *slog.Logger) *Handlers {
	return &Handlers{
		store:     store,
		finder:    finder,
		refresher: refresher,
		logger:    logger.With("component", "api"),
	}
}

// Routes mounts all handlers on a router.
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/items", h.ListItems)
		r.Post("/items", h.AddItem)
		r.Get("/items/{id}/prices", h.GetItemPrices)
		r.Post("/refresh", h.Refresh)
	})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListItems(r.Context())
	if err != nil {
		h.logger.Error("failed to list items", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []*models.WatchItem{}
	}
	h.respondJSON(w, http.StatusOK, items)
}

// AddItemRequest is the body of POST /api/v1/items.
type AddItemRequest struct {
	Name        string   `json:"name"`
	TargetPrice *float64 `json:"target_price,omitempty"`
}

func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		h.respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	item := &models.WatchItem{
		Name:        req.Name,
		TargetPrice: req.TargetPrice,
	}
	if err := h.store.AddItem(r.Context(), item); err != nil {
		h.logger.Error("failed to add item", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	h.respondJSON(w, http.StatusCreated, item)
}

// GetItemPrices runs an on-demand lookup for one item and returns the
// per-retailer breakdown with the best match.
func (h *Handlers) GetItemPrices(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	item, err := h.store.GetItem(r.Context(), id)
	if errors.Is(err, database.ErrItemNotFound) {
		h.respondError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get item", "id", id, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to get item")
		return
	}

	result := h.finder.FindPrices(r.Context(), item.Name)
	h.respondJSON(w, http.StatusOK, result)
}

// RefreshResponse reports the outcome of a manual refresh.
type RefreshResponse struct {
	Drops   int    `json:"drops"`
	Message string `json:"message"`
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	drops := h.refresher.RefreshAll(r.Context())
	h.respondJSON(w, http.StatusOK, RefreshResponse{
		Drops:   drops,
		Message: "refresh completed",
	})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
