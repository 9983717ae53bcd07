package handler

import (
	"net/http"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/auth"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		jwtManager: jwtManager,
	}
}

// TokenRequest asks for a token on behalf of a principal
type TokenRequest struct {
	Principal string      `json:"principal"`
	Role      domain.Role `json:"role"`
}

// TokenResponse carries an issued token
type TokenResponse struct {
	Token     string        `json:"token"`
	Principal PrincipalInfo `json:"principal"`
}

// PrincipalInfo represents principal information
type PrincipalInfo struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
}

// IssueToken mints a token for another principal. The route is admin only.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleUser
	}

	p := &domain.Principal{ID: req.Principal, Role: req.Role}
	token, err := h.jwtManager.Generate(p)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to generate token", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		Token:     token,
		Principal: PrincipalInfo{ID: p.ID, Role: p.Role},
	})
}

// Me returns the current authenticated principal
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, PrincipalInfo{ID: p.ID, Role: p.Role})
}
