package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	errorsmod "cosmossdk.io/errors"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError renders err with the status of its class.
func writeDomainError(w http.ResponseWriter, err error) {
	writeJSON(w, mapDomainError(err), dto.ErrorFromDomain(err))
}

// mapDomainError maps error classes to HTTP status codes.
func mapDomainError(err error) int {
	switch domain.ClassOf(err) {
	case domain.ClassAuthorization:
		return http.StatusForbidden
	case domain.ClassValidation:
		return http.StatusBadRequest
	case domain.ClassState:
		return http.StatusConflict
	case domain.ClassArithmetic, domain.ClassInvariant:
		return http.StatusUnprocessableEntity
	case domain.ClassExternalCall:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parsePage reads the start_after and limit query parameters.
func parsePage(r *http.Request) usecase.PageInput {
	return usecase.PageInput{
		StartAfter: r.URL.Query().Get("start_after"),
		Limit:      domain.ValidatePagination(parseIntQuery(r, "limit", 0)),
	}
}

// principal returns the authenticated caller or writes a 401.
func principal(w http.ResponseWriter, r *http.Request) (*domain.Principal, bool) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized,
			dto.ErrorFromDomain(errorsmod.Wrap(domain.ErrUnauthorized, "missing principal")))
		return nil, false
	}
	return p, true
}

// decode reads a JSON body, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}
