package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/domain"
)

type accountServiceStub struct {
	createFn   func(ctx context.Context, owner string) (string, error)
	transferFn func(ctx context.Context, accountID, from, to string) error
	ownerFn    func(ctx context.Context, accountID string) (string, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, owner string) (string, error) {
	return s.createFn(ctx, owner)
}

func (s *accountServiceStub) TransferAccount(ctx context.Context, accountID, from, to string) error {
	return s.transferFn(ctx, accountID, from, to)
}

func (s *accountServiceStub) OwnerOf(ctx context.Context, accountID string) (string, error) {
	return s.ownerFn(ctx, accountID)
}

func TestAccountHandler_Create_DefaultsOwnerToCaller(t *testing.T) {
	var captured string
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, owner string) (string, error) {
			captured = owner
			return "1", nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", nil)
	req = withPrincipal(req, "alice", domain.RoleUser)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured != "alice" {
		t.Fatalf("expected owner alice, got %s", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccountID != "1" || resp.Owner != "alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAccountHandler_Create_ForOtherOwner(t *testing.T) {
	body, _ := json.Marshal(dto.CreateAccountRequest{Owner: "bob"})

	tests := []struct {
		name     string
		role     domain.Role
		expected int
	}{
		{"admin may open for others", domain.RoleAdmin, http.StatusCreated},
		{"user may not open for others", domain.RoleUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAccountHandler(&accountServiceStub{
				createFn: func(ctx context.Context, owner string) (string, error) {
					if owner != "bob" {
						t.Fatalf("expected owner bob, got %s", owner)
					}
					return "2", nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
			req = withPrincipal(req, "alice", tt.role)
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, owner string) (string, error) {
			t.Fatal("CreateAccount should not be called for invalid payload")
			return "", nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{invalid json"))
	req = withPrincipal(req, "alice", domain.RoleUser)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_DisallowedPrincipal(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, owner string) (string, error) {
			return "", domain.ErrDisallowedPrincipal
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", nil)
	req = withPrincipal(req, "pool", domain.RoleUser)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAccountHandler_Get(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		ownerFn: func(ctx context.Context, id string) (string, error) {
			if id != "1" {
				t.Fatalf("expected id 1, got %s", id)
			}
			return "alice", nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/1", nil)
	req = setChiURLParam(req, "id", "1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_CollaboratorFailure(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		ownerFn: func(ctx context.Context, id string) (string, error) {
			return "", domain.ExternalError(errors.New("registry down"), "owner of")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/1", nil)
	req = setChiURLParam(req, "id", "1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestAccountHandler_Transfer(t *testing.T) {
	var from, to string
	handler := NewAccountHandler(&accountServiceStub{
		transferFn: func(ctx context.Context, accountID, f, dst string) error {
			from, to = f, dst
			return nil
		},
	})

	body, _ := json.Marshal(dto.TransferAccountRequest{To: "bob"})
	req := httptest.NewRequest(http.MethodPost, "/accounts/1/transfer", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "1")
	req = withPrincipal(req, "alice", domain.RoleUser)
	rec := httptest.NewRecorder()

	handler.Transfer(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if from != "alice" || to != "bob" {
		t.Fatalf("expected alice -> bob, got %s -> %s", from, to)
	}
}

func TestAccountHandler_Transfer_NotOwner(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		transferFn: func(ctx context.Context, accountID, from, to string) error {
			return domain.ErrNotTokenOwner
		},
	})

	body, _ := json.Marshal(dto.TransferAccountRequest{To: "bob"})
	req := httptest.NewRequest(http.MethodPost, "/accounts/1/transfer", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "1")
	req = withPrincipal(req, "mallory", domain.RoleUser)
	rec := httptest.NewRecorder()

	handler.Transfer(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func withPrincipal(r *http.Request, id string, role domain.Role) *http.Request {
	return r.WithContext(domain.ContextWithPrincipal(r.Context(), &domain.Principal{ID: id, Role: role}))
}
