package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fixthevuln/backend/internal/store/domain"
	"github.com/fixthevuln/backend/internal/store/store"
)

type ordersRepo struct {
	db *sql.DB
}

func (r *ordersRepo) CreateOrder(ctx context.Context, o domain.Order) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (id, session_id, customer_email, items, amount_total, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		o.ID, o.SessionID, o.CustomerEmail, o.Items, o.AmountTotal, o.CreatedAt.Unix(),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *ordersRepo) GetOrderBySessionID(ctx context.Context, sessionID string) (domain.Order, error) {
	var (
		o    domain.Order
		unix int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, session_id, customer_email, items, amount_total, created_at
		FROM orders WHERE session_id = ?`, sessionID,
	).Scan(&o.ID, &o.SessionID, &o.CustomerEmail, &o.Items, &o.AmountTotal, &unix)
	if err != nil {
		return domain.Order{}, mapNotFound(err)
	}

	o.CreatedAt = time.Unix(unix, 0).UTC()
	return o, nil
}
