package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dropDatabas3/hellocard/internal/domain/repository"
)

// El monto viaja como numeric y se escanea vía text para no perder
// precisión (decimal no es un tipo nativo de pgx).
const invoiceCols = `id, number, user_id, amount::text, currency, status, checkout_kind, expires_at, paid_at, created_at`

func scanInvoice(row pgx.Row) (*repository.Invoice, error) {
	var (
		inv repository.Invoice
		amt string
	)
	err := row.Scan(&inv.ID, &inv.Number, &inv.UserID, &amt, &inv.Currency,
		&inv.Status, &inv.CheckoutKind, &inv.ExpiresAt, &inv.PaidAt, &inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if inv.Amount, err = decimal.NewFromString(amt); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) CreateInvoice(ctx context.Context, inv repository.Invoice) (*repository.Invoice, error) {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.Status == "" {
		inv.Status = repository.InvoicePending
	}
	const q = `
INSERT INTO invoice (id, number, user_id, amount, currency, status, checkout_kind, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + invoiceCols + `;`
	out, err := scanInvoice(s.pool.QueryRow(ctx, q, inv.ID, inv.Number, inv.UserID,
		inv.Amount.String(), inv.Currency, inv.Status, inv.CheckoutKind, inv.ExpiresAt))
	if isUniqueViolation(err) {
		return nil, repository.ErrConflict
	}
	return out, err
}

func (s *Store) GetInvoiceByID(ctx context.Context, id string) (*repository.Invoice, error) {
	const q = `SELECT ` + invoiceCols + ` FROM invoice WHERE id = $1;`
	return scanInvoice(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) ListInvoices(ctx context.Context, f repository.InvoiceFilter) ([]repository.Invoice, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != "" {
		args = append(args, f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	q := `SELECT ` + invoiceCols + ` FROM invoice`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.Invoice
	for rows.Next() {
		var (
			inv repository.Invoice
			amt string
		)
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.UserID, &amt, &inv.Currency,
			&inv.Status, &inv.CheckoutKind, &inv.ExpiresAt, &inv.PaidAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		if inv.Amount, err = decimal.NewFromString(amt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// transición condicionada por estado actual: 0 filas afectadas puede ser
// "no existe" o "estado incorrecto"; se desambigua con una lectura extra.
func (s *Store) transitionInvoice(ctx context.Context, id, q string, args ...any) error {
	tag, err := s.pool.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := s.GetInvoiceByID(ctx, id); err != nil {
		return err
	}
	return repository.ErrInvalidTransition
}

func (s *Store) MarkInvoicePaid(ctx context.Context, id string, paidAt time.Time) error {
	const q = `UPDATE invoice SET status = 'paid', paid_at = $2 WHERE id = $1 AND status = 'pending';`
	return s.transitionInvoice(ctx, id, q, id, paidAt)
}

func (s *Store) VoidInvoice(ctx context.Context, id string) error {
	const q = `UPDATE invoice SET status = 'void' WHERE id = $1 AND status = 'pending';`
	return s.transitionInvoice(ctx, id, q, id)
}

func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	const q = `DELETE FROM invoice WHERE id = $1;`
	tag, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) ExpirePendingCheckouts(ctx context.Context, now time.Time) (int, error) {
	const q = `
UPDATE invoice SET status = 'expired'
WHERE status = 'pending' AND checkout_kind = 'crypto'
  AND expires_at IS NOT NULL AND expires_at <= $1;`
	tag, err := s.pool.Exec(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

var _ repository.InvoiceRepository = (*Store)(nil)
