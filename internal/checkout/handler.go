package checkout

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mvcoutinho/storefront-api/internal/domain"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type checkoutRequest struct {
	CustomerInfo domain.CustomerInfo `json:"customerInfo"`
	Cart         []domain.CartItem   `json:"cart"`
	UserID       string              `json:"userId"`
}

// HandleCheckout places an order and responds with the payment page URL.
// Every failure — stock shortfall, store error, processor error — gets the
// same shape: 400 with the message.
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, "invalid request body")
		return
	}

	url, err := h.service.Checkout(r.Context(), Request{
		Customer: req.CustomerInfo,
		Items:    req.Cart,
		UserID:   req.UserID,
	})
	if err != nil {
		h.writeFailure(w, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"paymentUrl": url,
	})
}

// HandleTestCheckout exercises the flow without the payment processor.
func (h *Handler) HandleTestCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, "invalid request body")
		return
	}

	err := h.service.TestCheckout(r.Context(), Request{
		Customer: req.CustomerInfo,
		Items:    req.Cart,
		UserID:   req.UserID,
	})
	if err != nil {
		h.writeFailure(w, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

func (h *Handler) writeFailure(w http.ResponseWriter, message string) {
	h.writeJSON(w, http.StatusBadRequest, map[string]string{
		"status":  "error",
		"message": message,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
