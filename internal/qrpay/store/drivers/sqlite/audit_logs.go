package sqlite

import (
	"context"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store/drivers/sqlite/gen"
)

type auditLogsRepo struct {
	q *gen.Queries
}

func (r *auditLogsRepo) CreateAuditLog(ctx context.Context, a domain.AuditLog) error {
	details := a.Details
	if details == "" {
		details = "{}"
	}
	err := r.q.CreateAuditLog(ctx, gen.CreateAuditLogParams{
		ID:         a.ID,
		Action:     a.Action,
		EntityType: a.EntityType,
		EntityID:   a.EntityID,
		UserID:     a.UserID,
		Details:    details,
		CreatedAt:  a.CreatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *auditLogsRepo) ListAuditLogsByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditLog, error) {
	rows, err := r.q.ListAuditLogsByEntity(ctx, gen.ListAuditLogsByEntityParams{
		EntityType: entityType,
		EntityID:   entityID,
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.AuditLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapAuditLog(row))
	}
	return out, nil
}
