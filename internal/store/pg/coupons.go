package pg

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dropDatabas3/hellocard/internal/domain/repository"
)

const couponCols = `id, code, percent_off, amount_off::text, currency, max_uses, uses, active, valid_from, valid_until, created_at`

func scanCoupon(row pgx.Row) (*repository.Coupon, error) {
	var (
		c   repository.Coupon
		amt string
	)
	err := row.Scan(&c.ID, &c.Code, &c.PercentOff, &amt, &c.Currency,
		&c.MaxUses, &c.Uses, &c.Active, &c.ValidFrom, &c.ValidUntil, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if c.AmountOff, err = decimal.NewFromString(amt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCoupon(ctx context.Context, in repository.CouponInput) (*repository.Coupon, error) {
	const q = `
INSERT INTO coupon (id, code, percent_off, amount_off, currency, max_uses, active, valid_from, valid_until)
VALUES ($1, UPPER($2), $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + couponCols + `;`
	c, err := scanCoupon(s.pool.QueryRow(ctx, q, uuid.NewString(), in.Code,
		in.PercentOff, in.AmountOff.String(), in.Currency, in.MaxUses,
		in.Active, in.ValidFrom, in.ValidUntil))
	if isUniqueViolation(err) {
		return nil, repository.ErrConflict
	}
	return c, err
}

func (s *Store) GetCouponByCode(ctx context.Context, code string) (*repository.Coupon, error) {
	const q = `SELECT ` + couponCols + ` FROM coupon WHERE code = UPPER($1);`
	return scanCoupon(s.pool.QueryRow(ctx, q, code))
}

func (s *Store) ListCoupons(ctx context.Context, onlyActive bool) ([]repository.Coupon, error) {
	q := `SELECT ` + couponCols + ` FROM coupon`
	if onlyActive {
		q += ` WHERE active`
	}
	q += ` ORDER BY created_at DESC;`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.Coupon
	for rows.Next() {
		var (
			c   repository.Coupon
			amt string
		)
		if err := rows.Scan(&c.ID, &c.Code, &c.PercentOff, &amt, &c.Currency,
			&c.MaxUses, &c.Uses, &c.Active, &c.ValidFrom, &c.ValidUntil, &c.CreatedAt); err != nil {
			return nil, err
		}
		if c.AmountOff, err = decimal.NewFromString(amt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateCoupon(ctx context.Context, id string, in repository.CouponInput) (*repository.Coupon, error) {
	const q = `
UPDATE coupon SET
  code = UPPER($2), percent_off = $3, amount_off = $4, currency = $5,
  max_uses = $6, active = $7, valid_from = $8, valid_until = $9
WHERE id = $1
RETURNING ` + couponCols + `;`
	c, err := scanCoupon(s.pool.QueryRow(ctx, q, id, in.Code, in.PercentOff,
		in.AmountOff.String(), in.Currency, in.MaxUses, in.Active, in.ValidFrom, in.ValidUntil))
	if isUniqueViolation(err) {
		return nil, repository.ErrConflict
	}
	return c, err
}

func (s *Store) DeleteCoupon(ctx context.Context, id string) error {
	const q = `DELETE FROM coupon WHERE id = $1;`
	tag, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.CouponRepository = (*Store)(nil)
