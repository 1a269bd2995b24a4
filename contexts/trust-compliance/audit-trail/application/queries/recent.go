package queries

import (
	"context"

	"voteguard/contexts/trust-compliance/audit-trail/domain/entities"
	"voteguard/contexts/trust-compliance/audit-trail/ports"
)

const defaultListLimit = 50

type RecentUseCase struct {
	Entries ports.AuditRepository
}

func (uc RecentUseCase) ListRecent(ctx context.Context, limit int) ([]entities.AuditLogEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return uc.Entries.ListRecent(ctx, limit)
}
