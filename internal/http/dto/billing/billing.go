// Package billing contiene los DTOs de facturación del propio usuario.
// A diferencia de las vistas de consola, acá no viaja el user_id: siempre
// es el dueño de la sesión.
package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dropDatabas3/hellocard/internal/domain/repository"
)

// InvoiceView es una factura vista por su dueño.
type InvoiceView struct {
	ID           string          `json:"id"`
	Number       string          `json:"number"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Status       string          `json:"status"`
	CheckoutKind string          `json:"checkout_kind"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func FromInvoice(inv *repository.Invoice) InvoiceView {
	return InvoiceView{
		ID: inv.ID, Number: inv.Number, Amount: inv.Amount, Currency: inv.Currency,
		Status: inv.Status, CheckoutKind: inv.CheckoutKind,
		ExpiresAt: inv.ExpiresAt, PaidAt: inv.PaidAt, CreatedAt: inv.CreatedAt,
	}
}

// SubscriptionView es la suscripción vigente del usuario.
type SubscriptionView struct {
	ID          string    `json:"id"`
	Plan        string    `json:"plan"`
	Status      string    `json:"status"`
	PeriodEnd   time.Time `json:"period_end"`
	CancelAtEnd bool      `json:"cancel_at_end"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromSubscription(s *repository.Subscription) SubscriptionView {
	return SubscriptionView{
		ID: s.ID, Plan: s.Plan, Status: s.Status, PeriodEnd: s.PeriodEnd,
		CancelAtEnd: s.CancelAtEnd, CreatedAt: s.CreatedAt,
	}
}
