package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mvcoutinho/storefront-api/internal/identity"
)

type contextKey struct{}

var userKey contextKey

// TokenResolver resolves a bearer token to the identity it belongs to.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*identity.User, error)
}

// Middleware guards routes. Client mode accepts any resolved identity;
// admin mode additionally requires the identity's email to equal the
// configured admin email.
type Middleware struct {
	resolver   TokenResolver
	adminEmail string
	logger     *slog.Logger
}

func NewMiddleware(resolver TokenResolver, adminEmail string, logger *slog.Logger) *Middleware {
	return &Middleware{
		resolver:   resolver,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// ContextWithUser attaches an identity to the context. The guards use it
// after resolving a token; tests use it to stand in for a guard.
func ContextWithUser(ctx context.Context, user *identity.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom returns the identity a guard attached to the request context.
func UserFrom(ctx context.Context) (*identity.User, bool) {
	user, ok := ctx.Value(userKey).(*identity.User)
	return user, ok
}

func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		if user.Email != m.adminEmail {
			writeError(w, http.StatusForbidden, "access denied")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// authenticate extracts and resolves the bearer token, writing the failure
// response itself when the caller should not proceed.
func (m *Middleware) authenticate(w http.ResponseWriter, r *http.Request) (*identity.User, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		writeError(w, http.StatusUnauthorized, "missing or malformed credentials")
		return nil, false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing or malformed credentials")
		return nil, false
	}

	user, err := m.resolver.Resolve(r.Context(), token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return nil, false
		}
		m.logger.Error("failed to resolve token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}

	return user, true
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
