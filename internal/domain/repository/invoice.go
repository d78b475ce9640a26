package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de factura. pending → paid | expired | void.
const (
	InvoicePending = "pending"
	InvoicePaid    = "paid"
	InvoiceExpired = "expired"
	InvoiceVoid    = "void"
)

// Tipos de checkout.
const (
	CheckoutFiat   = "fiat"
	CheckoutCrypto = "crypto"
)

// Invoice es una factura de suscripción/pedido. Amount usa decimal para
// no acumular error binario en montos.
type Invoice struct {
	ID           string
	Number       string
	UserID       string
	Amount       decimal.Decimal
	Currency     string
	Status       string
	CheckoutKind string // fiat | crypto
	ExpiresAt    *time.Time
	PaidAt       *time.Time
	CreatedAt    time.Time
}

// InvoiceFilter filtros de listado del admin.
type InvoiceFilter struct {
	UserID string
	Status string
	Limit  int
	Offset int
}

// InvoiceRepository define la persistencia de facturas.
type InvoiceRepository interface {
	CreateInvoice(ctx context.Context, inv Invoice) (*Invoice, error)
	GetInvoiceByID(ctx context.Context, id string) (*Invoice, error)
	ListInvoices(ctx context.Context, f InvoiceFilter) ([]Invoice, error)

	// MarkInvoicePaid: pending → paid. ErrInvalidTransition si no está pending.
	MarkInvoicePaid(ctx context.Context, id string, paidAt time.Time) error

	// VoidInvoice: pending → void. ErrInvalidTransition si no está pending.
	VoidInvoice(ctx context.Context, id string) error

	DeleteInvoice(ctx context.Context, id string) error

	// ExpirePendingCheckouts marca expired toda factura crypto pending cuyo
	// ExpiresAt quedó en el pasado. Retorna cuántas expiró (lo usa el poller).
	ExpirePendingCheckouts(ctx context.Context, now time.Time) (int, error)
}
