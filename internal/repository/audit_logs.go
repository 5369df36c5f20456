package repository

import (
	"encoding/json"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

func (r *Repository) CreateAuditLog(log *domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (actor, action, entity, entity_id, detail)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	detail := log.Detail
	if len(detail) == 0 {
		detail = json.RawMessage("{}")
	}

	ctx, cancel := r.queryContext()
	defer cancel()

	args := []any{log.Actor, log.Action, log.Entity, log.EntityID, []byte(detail)}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&log.ID, &log.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetLatestAuditLogs(limit int) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, actor, action, entity, entity_id, detail, created_at
		FROM audit_logs ORDER BY created_at DESC, id DESC LIMIT $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*domain.AuditLog, 0)
	for rows.Next() {
		log := &domain.AuditLog{}
		var detail []byte
		if err := rows.Scan(&log.ID, &log.Actor, &log.Action, &log.Entity, &log.EntityID, &detail, &log.CreatedAt); err != nil {
			return nil, err
		}
		log.Detail = json.RawMessage(detail)
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}
