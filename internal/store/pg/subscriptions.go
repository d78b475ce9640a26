package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/hellocard/internal/domain/repository"
)

const subCols = `id, user_id, plan, status, period_end, cancel_at_end, created_at, updated_at`

func scanSubscription(row pgx.Row) (*repository.Subscription, error) {
	var sub repository.Subscription
	err := row.Scan(&sub.ID, &sub.UserID, &sub.Plan, &sub.Status,
		&sub.PeriodEnd, &sub.CancelAtEnd, &sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) CreateSubscription(ctx context.Context, sub repository.Subscription) (*repository.Subscription, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.Status == "" {
		sub.Status = repository.SubActive
	}
	const q = `
INSERT INTO subscription (id, user_id, plan, status, period_end)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + subCols + `;`
	out, err := scanSubscription(s.pool.QueryRow(ctx, q, sub.ID, sub.UserID, sub.Plan, sub.Status, sub.PeriodEnd))
	if isUniqueViolation(err) {
		return nil, repository.ErrConflict
	}
	return out, err
}

func (s *Store) GetSubscriptionByUser(ctx context.Context, userID string) (*repository.Subscription, error) {
	const q = `
SELECT ` + subCols + ` FROM subscription
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1;`
	return scanSubscription(s.pool.QueryRow(ctx, q, userID))
}

func (s *Store) ListSubscriptions(ctx context.Context, status string, limit, offset int) ([]repository.Subscription, error) {
	var args []any
	q := `SELECT ` + subCols + ` FROM subscription`
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

	var out []repository.Subscription
	for rows.Next() {
		var sub repository.Subscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Plan, &sub.Status,
			&sub.PeriodEnd, &sub.CancelAtEnd, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *Store) CancelSubscription(ctx context.Context, id string, immediate bool) error {
	var q string
	if immediate {
		q = `UPDATE subscription SET status = 'canceled', cancel_at_end = FALSE, updated_at = now()
WHERE id = $1 AND status <> 'canceled';`
	} else {
		q = `UPDATE subscription SET cancel_at_end = TRUE, updated_at = now()
WHERE id = $1 AND status <> 'canceled';`
	}
	tag, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	const check = `SELECT ` + subCols + ` FROM subscription WHERE id = $1;`
	if _, err := scanSubscription(s.pool.QueryRow(ctx, check, id)); err != nil {
		return err
	}
	return repository.ErrInvalidTransition
}

var _ repository.SubscriptionRepository = (*Store)(nil)
