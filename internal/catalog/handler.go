package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mvcoutinho/storefront-api/internal/domain"
)

// Store is the product storage surface the handler needs.
type Store interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	UpdateDetails(ctx context.Context, id int64, stock int, image, description string) error
	SetHighlight(ctx context.Context, id int64, highlight bool) error
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	store  Store
	logger *slog.Logger
}

func NewHandler(store Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// HandleList is the public product listing: everything, ordered by id.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if products == nil {
		products = []domain.Product{}
	}

	h.writeJSON(w, http.StatusOK, products)
}

// HandleCreate inserts one product from the request body verbatim. Anything
// the store accepts is accepted here.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.Create(r.Context(), &p); err != nil {
		h.logger.Error("failed to create product", "error", err)
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info("product created", "product_id", p.ID, "name", p.Name)
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type updateProductRequest struct {
	Stock       int    `json:"stock"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// HandleUpdate overwrites the stock/image/description fields, nothing else.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.UpdateDetails(r.Context(), id, req.Stock, req.Image, req.Description); err != nil {
		h.logger.Error("failed to update product", "error", err, "product_id", id)
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info("product updated", "product_id", id)
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type highlightRequest struct {
	IsHighlight bool `json:"is_highlight"`
}

func (h *Handler) HandleHighlight(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req highlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.SetHighlight(r.Context(), id, req.IsHighlight); err != nil {
		h.logger.Error("failed to set highlight", "error", err, "product_id", id)
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info("product highlight set", "product_id", id, "highlight", req.IsHighlight)
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// HandleDelete reports success whether or not a row existed.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete product", "error", err, "product_id", id)
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info("product deleted", "product_id", id)
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
