package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// AuditRepository implements audit log persistence. Logs are written outside
// the batch transaction so failed batches are still recorded.
type AuditRepository struct {
	pool querier
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(pool querier) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create inserts a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = ulid.Make().String()
	}

	var request []byte
	if log.Request != nil {
		var err error
		if request, err = json.Marshal(log.Request); err != nil {
			return err
		}
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_logs (
			id, principal, action, resource_type, resource_id, request_id,
			request, status, error_class, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		log.ID,
		log.Principal,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.RequestID,
		request,
		log.Status,
		log.ErrorClass,
		log.ErrorMessage,
		log.CreatedAt,
	)
	return err
}

// List retrieves audit logs with filtering, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.Principal != "" {
		add("principal = $%d", filter.Principal)
	}
	if filter.Action != "" {
		add("action = $%d", filter.Action)
	}
	if filter.ResourceID != "" {
		add("resource_id = $%d", filter.ResourceID)
	}
	if filter.StartDate != nil {
		add("created_at >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("created_at <= $%d", *filter.EndDate)
	}

	query := `
		SELECT id, principal, action, resource_type, resource_id, request_id,
		       request, status, error_class, error_message, created_at
		FROM audit_logs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*domain.AuditLog, 0)
	for rows.Next() {
		var (
			log     domain.AuditLog
			request []byte
		)
		if err := rows.Scan(
			&log.ID,
			&log.Principal,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.RequestID,
			&request,
			&log.Status,
			&log.ErrorClass,
			&log.ErrorMessage,
			&log.CreatedAt,
		); err != nil {
			return nil, err
		}
		if request != nil {
			_ = json.Unmarshal(request, &log.Request)
		}
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}

var _ usecase.AuditRepository = (*AuditRepository)(nil)
