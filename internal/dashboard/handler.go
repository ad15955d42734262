package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// StatsSource reads the rows the summary is computed from.
type StatsSource interface {
	OrderRows(ctx context.Context) ([]OrderRow, error)
	ProductStocks(ctx context.Context) ([]int, error)
}

type Handler struct {
	stats  StatsSource
	logger *slog.Logger
}

func NewHandler(stats StatsSource, logger *slog.Logger) *Handler {
	return &Handler{
		stats:  stats,
		logger: logger,
	}
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	orders, err := h.stats.OrderRows(r.Context())
	if err != nil {
		h.logger.Error("failed to read order rows", "error", err)
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	stocks, err := h.stats.ProductStocks(r.Context())
	if err != nil {
		h.logger.Error("failed to read product stocks", "error", err)
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary := Summarize(orders, stocks)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
