package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mvcoutinho/storefront-api/internal/identity"
)

// AccountClient is the slice of the identity service the account routes use.
type AccountClient interface {
	SignUp(ctx context.Context, email, password, name string) (*identity.User, *identity.Session, error)
	SignIn(ctx context.Context, email, password string) (*identity.User, *identity.Session, error)
}

// Handler serves signup and login. Accounts live in the identity service;
// these routes only relay credentials and hand sessions back.
type Handler struct {
	accounts   AccountClient
	adminEmail string
	logger     *slog.Logger
}

func NewHandler(accounts AccountClient, adminEmail string, logger *slog.Logger) *Handler {
	return &Handler{
		accounts:   accounts,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *Handler) HandleClientSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, session, err := h.accounts.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.logger.Error("signup failed", "error", err)
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if session == nil {
		h.logger.Info("signup pending confirmation", "email", req.Email)
		h.writeJSON(w, http.StatusOK, map[string]any{
			"success":             true,
			"requireConfirmation": true,
		})
		return
	}

	h.logger.Info("client signed up", "user_id", user.ID)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
		"session": session,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleClientLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, session, err := h.accounts.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "incorrect credentials")
		return
	}

	h.logger.Info("client logged in", "user_id", user.ID)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
		"session": session,
	})
}

// HandleAdminLogin gates on the configured admin email before the identity
// service is even consulted, and never says which check failed.
func (h *Handler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email != h.adminEmail {
		h.writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"error":   "invalid credentials",
		})
		return
	}

	_, session, err := h.accounts.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"error":   "invalid credentials",
		})
		return
	}

	h.logger.Info("admin logged in")
	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   session.AccessToken,
	})
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
