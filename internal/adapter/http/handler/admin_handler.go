package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// Reconciler produces a ledger reconciliation report.
type Reconciler interface {
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// AuditLister reads the audit trail.
type AuditLister interface {
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// AdminHandler serves operator endpoints.
type AdminHandler struct {
	reconciler Reconciler
	audit      AuditLister
}

// NewAdminHandler creates a new AdminHandler. audit may be nil.
func NewAdminHandler(reconciler Reconciler, audit AuditLister) *AdminHandler {
	return &AdminHandler{reconciler: reconciler, audit: audit}
}

// Reconcile runs a reconciliation on demand.
func (h *AdminHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciler.GenerateReconciliationReport(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// AuditLogs lists audit entries, newest first.
func (h *AdminHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		writeError(w, http.StatusNotImplemented, "audit log disabled", "")
		return
	}

	q := r.URL.Query()
	filter := domain.AuditFilter{
		Principal:  q.Get("principal"),
		Action:     q.Get("action"),
		ResourceID: q.Get("account_id"),
		Limit:      parseIntQuery(r, "limit", 50),
		Offset:     parseIntQuery(r, "offset", 0),
	}
	for key, dst := range map[string]**time.Time{"from": &filter.StartDate, "to": &filter.EndDate} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+key, err.Error())
			return
		}
		*dst = &ts
	}

	logs, err := h.audit.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list audit logs", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": logs})
}
