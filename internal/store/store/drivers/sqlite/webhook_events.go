package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fixthevuln/backend/internal/store/domain"
)

type webhookEventsRepo struct {
	db *sql.DB
}

func (r *webhookEventsRepo) MarkProcessed(ctx context.Context, ev domain.WebhookEvent) (bool, error) {
	// INSERT OR IGNORE makes insert-if-new atomic; a redelivered event id
	// simply affects zero rows.
	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO webhook_events (event_id, event_type, session_id, processed_at)
		VALUES (?, ?, ?, ?)`,
		ev.EventID, ev.EventType, ev.SessionID, ev.ProcessedAt.Unix(),
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *webhookEventsRepo) GetByID(ctx context.Context, eventID string) (domain.WebhookEvent, error) {
	var (
		ev   domain.WebhookEvent
		unix int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT event_id, event_type, session_id, processed_at
		FROM webhook_events WHERE event_id = ?`, eventID,
	).Scan(&ev.EventID, &ev.EventType, &ev.SessionID, &unix)
	if err != nil {
		return domain.WebhookEvent{}, mapNotFound(err)
	}

	ev.ProcessedAt = time.Unix(unix, 0).UTC()
	return ev, nil
}

func (r *webhookEventsRepo) DeleteOlderThan(ctx context.Context, cutoffUnix int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM webhook_events WHERE processed_at < ?`, cutoffUnix)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
