package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dropDatabas3/hellocard/internal/domain/repository"
)

const rewardCols = `id, user_id, referred_id, amount::text, currency, status, reviewed_by, reviewed_at, created_at`

func scanReward(row pgx.Row) (*repository.Reward, error) {
	var (
		r   repository.Reward
		amt string
	)
	err := row.Scan(&r.ID, &r.UserID, &r.ReferredID, &amt, &r.Currency,
		&r.Status, &r.ReviewedBy, &r.ReviewedAt, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if r.Amount, err = decimal.NewFromString(amt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) CreateReward(ctx context.Context, r repository.Reward) (*repository.Reward, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	const q = `
INSERT INTO reward (id, user_id, referred_id, amount, currency)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + rewardCols + `;`
	return scanReward(s.pool.QueryRow(ctx, q, r.ID, r.UserID, r.ReferredID, r.Amount.String(), r.Currency))
}

func (s *Store) GetRewardByID(ctx context.Context, id string) (*repository.Reward, error) {
	const q = `SELECT ` + rewardCols + ` FROM reward WHERE id = $1;`
	return scanReward(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) ListRewards(ctx context.Context, status string, limit, offset int) ([]repository.Reward, error) {
	var args []any
	q := `SELECT ` + rewardCols + ` FROM reward`
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

	var out []repository.Reward
	for rows.Next() {
		var (
			r   repository.Reward
			amt string
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.ReferredID, &amt, &r.Currency,
			&r.Status, &r.ReviewedBy, &r.ReviewedAt, &r.CreatedAt); err != nil {
			return nil, err
		}
		if r.Amount, err = decimal.NewFromString(amt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ResolveReward(ctx context.Context, id, status, reviewerID string, at time.Time) error {
	const q = `
UPDATE reward SET status = $2, reviewed_by = $3, reviewed_at = $4
WHERE id = $1 AND status = 'pending';`
	tag, err := s.pool.Exec(ctx, q, id, status, reviewerID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := s.GetRewardByID(ctx, id); err != nil {
		return err
	}
	return repository.ErrInvalidTransition
}

var _ repository.RewardRepository = (*Store)(nil)
