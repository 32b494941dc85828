package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
)

func (r *Repository) InsertAuditEvent(event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var payload []byte
	if event.Payload != nil {
		var err error
		if payload, err = json.Marshal(event.Payload); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_events (macro_period_id, kind, payload, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.dbpool.QueryRowContext(ctx, query, event.MacroPeriodID, event.Kind, payload, event.CreatedBy).Scan(&event.ID, &event.CreatedAt)
}

func (r *Repository) GetAuditEvents(periodID int64) ([]*domain.AuditEvent, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, macro_period_id, kind, payload, created_by, created_at
		FROM audit_events
		WHERE macro_period_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*domain.AuditEvent{}
	for rows.Next() {
		event := &domain.AuditEvent{}
		var payload []byte

		dst := []any{&event.ID, &event.MacroPeriodID, &event.Kind, &payload, &event.CreatedBy, &event.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &event.Payload); err != nil {
				return nil, err
			}
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// HasAuditEvent é usado para registrar LINK_VIEWED apenas uma vez.
func (r *Repository) HasAuditEvent(periodID int64, kind domain.EventKind) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	exists := false
	query := `
		SELECT EXISTS (SELECT 1 FROM audit_events WHERE macro_period_id = $1 AND kind = $2)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, periodID, kind).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}
