package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	errorsmod "cosmossdk.io/errors"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/coins?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/coins?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestParsePage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/coins?start_after=1:uosmo&limit=5", nil)
	page := parsePage(req)
	if page.StartAfter != "1:uosmo" || page.Limit != 5 {
		t.Fatalf("unexpected page: %+v", page)
	}

	req = httptest.NewRequest(http.MethodGet, "/coins?limit=1000", nil)
	if got := parsePage(req).Limit; got != domain.MaxPageLimit {
		t.Fatalf("expected limit clamped to %d, got %d", domain.MaxPageLimit, got)
	}

	req = httptest.NewRequest(http.MethodGet, "/coins", nil)
	if got := parsePage(req).Limit; got != domain.DefaultPageLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"authorization", domain.ErrNotTokenOwner, http.StatusForbidden},
		{"validation", domain.ErrNoAmount, http.StatusBadRequest},
		{"state", errorsmod.Wrap(domain.ErrOnlyOneVaultPositionAllowed, "two vaults"), http.StatusConflict},
		{"arithmetic", domain.ErrOverflow, http.StatusUnprocessableEntity},
		{"invariant", domain.ErrHealthRegressed, http.StatusUnprocessableEntity},
		{"external call", domain.ExternalError(errors.New("timeout"), "oracle"), http.StatusBadGateway},
		{"step error keeps class", &domain.StepError{Index: 2, Kind: "borrow", Err: domain.ErrNotWhitelisted}, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteDomainError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeDomainError(rr, errorsmod.Wrap(domain.ErrNotWhitelisted, "ufoo"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Class != string(domain.ClassValidation) || resp.Error != "creditmanager:21" {
		t.Fatalf("unexpected error response: %+v", resp)
	}
}

func TestPrincipalMissing(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, ok := principal(rr, req); ok {
		t.Fatal("expected no principal")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
