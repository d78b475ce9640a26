package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/hellocard/internal/domain/repository"
)

const orderCols = `id, user_id, card_id, status, address, tracking_id, created_at, updated_at`

func scanOrder(row pgx.Row) (*repository.CardOrder, error) {
	var o repository.CardOrder
	err := row.Scan(&o.ID, &o.UserID, &o.CardID, &o.Status, &o.Address,
		&o.TrackingID, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, o repository.CardOrder) (*repository.CardOrder, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	const q = `
INSERT INTO card_order (id, user_id, card_id, address)
VALUES ($1, $2, $3, $4)
RETURNING ` + orderCols + `;`
	return scanOrder(s.pool.QueryRow(ctx, q, o.ID, o.UserID, o.CardID, o.Address))
}

func (s *Store) GetOrderByID(ctx context.Context, id string) (*repository.CardOrder, error) {
	const q = `SELECT ` + orderCols + ` FROM card_order WHERE id = $1;`
	return scanOrder(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) ListOrders(ctx context.Context, status string, limit, offset int) ([]repository.CardOrder, error) {
	var args []any
	q := `SELECT ` + orderCols + ` FROM card_order`
	if status != "" {
		args = append(args, status)
		q += fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	q += " ORDER BY created_at DESC"
	if limit > 0 {
		args = append(args, limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.CardOrder
	for rows.Next() {
		var o repository.CardOrder
		if err := rows.Scan(&o.ID, &o.UserID, &o.CardID, &o.Status, &o.Address,
			&o.TrackingID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// AdvanceOrder lee el estado actual y avanza al siguiente dentro de la
// misma condición del UPDATE, así dos admins avanzando a la vez no saltean
// un paso.
func (s *Store) AdvanceOrder(ctx context.Context, id, trackingID string) (*repository.CardOrder, error) {
	cur, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := repository.NextOrderStatus(cur.Status)
	if next == "" {
		return nil, repository.ErrInvalidTransition
	}
	const q = `
UPDATE card_order SET
  status = $3,
  tracking_id = CASE WHEN $4 <> '' THEN $4 ELSE tracking_id END,
  updated_at = now()
WHERE id = $1 AND status = $2
RETURNING ` + orderCols + `;`
	o, err := scanOrder(s.pool.QueryRow(ctx, q, id, cur.Status, next, trackingID))
	if errors.Is(err, repository.ErrNotFound) {
		// alguien más lo movió entre la lectura y el update
		return nil, repository.ErrInvalidTransition
	}
	return o, err
}

var _ repository.OrderRepository = (*Store)(nil)
