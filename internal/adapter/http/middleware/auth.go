package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/auth"
)

// Dev auth headers, honored only when token auth is disabled.
const (
	PrincipalHeader = "X-Principal"
	RoleHeader      = "X-Role"
)

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthMiddleware creates an authentication middleware. Tokens whose subject is
// one of the reserved principals are rejected so no caller can act as the
// protocol itself.
func AuthMiddleware(verifier TokenVerifier, reserved ...string) func(http.Handler) http.Handler {
	blocked := reservedSet(reserved)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			// Parse Bearer token
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeAuthError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			p := claims.Principal()
			if blocked[p.ID] {
				writeAuthError(w, http.StatusForbidden, "reserved principal")
				return
			}

			notePrincipal(r.Context(), p.ID)
			next.ServeHTTP(w, r.WithContext(domain.ContextWithPrincipal(r.Context(), p)))
		})
	}
}

// HeaderAuth trusts the X-Principal and X-Role headers. It is meant for local
// development with token auth disabled.
func HeaderAuth(reserved ...string) func(http.Handler) http.Handler {
	blocked := reservedSet(reserved)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(PrincipalHeader))
			if id == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing "+PrincipalHeader+" header")
				return
			}
			if blocked[id] {
				writeAuthError(w, http.StatusForbidden, "reserved principal")
				return
			}

			role := domain.Role(r.Header.Get(RoleHeader))
			if role == "" {
				role = domain.RoleUser
			}
			if !role.IsValid() {
				writeAuthError(w, http.StatusUnauthorized, "invalid role")
				return
			}

			p := &domain.Principal{ID: id, Role: role}
			notePrincipal(r.Context(), p.ID)
			next.ServeHTTP(w, r.WithContext(domain.ContextWithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole creates a middleware that checks for a specific role
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := domain.PrincipalFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			// Admins may do everything users can
			if role == domain.RoleAdmin && p.Role != domain.RoleAdmin {
				writeAuthError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func reservedSet(reserved []string) map[string]bool {
	set := make(map[string]bool, len(reserved))
	for _, id := range reserved {
		if id != "" {
			set[id] = true
		}
	}
	return set
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error: message,
		Class: string(domain.ClassAuthorization),
	})
}
