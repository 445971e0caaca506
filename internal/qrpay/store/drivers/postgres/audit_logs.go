package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
	"github.com/jmoiron/sqlx"
)

type auditLogRow struct {
	ID         string    `db:"id"`
	Action     string    `db:"action"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	UserID     string    `db:"user_id"`
	Details    string    `db:"details"`
	CreatedAt  time.Time `db:"created_at"`
}

type auditLogsRepo struct {
	db sqlx.ExtContext
}

func (r *auditLogsRepo) CreateAuditLog(ctx context.Context, a domain.AuditLog) error {
	details := a.Details
	if details == "" {
		details = "{}"
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, action, entity_type, entity_id, user_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)
	`, a.ID, a.Action, a.EntityType, a.EntityID, a.UserID, details, a.CreatedAt.UTC())
	return mapConstraint(err)
}

func (r *auditLogsRepo) ListAuditLogsByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditLog, error) {
	var rows []auditLogRow
	err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT id, action, entity_type, entity_id, user_id, details::text AS details, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at ASC, id ASC
	`, entityType, entityID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AuditLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.AuditLog{
			ID:         row.ID,
			Action:     row.Action,
			EntityType: row.EntityType,
			EntityID:   row.EntityID,
			UserID:     row.UserID,
			Details:    row.Details,
			CreatedAt:  row.CreatedAt.UTC(),
		})
	}
	return out, nil
}
