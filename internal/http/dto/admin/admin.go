// Package admin contiene los DTOs de la consola de administración.
package admin

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dropDatabas3/hellocard/internal/domain/repository"
)

// ---------- usuarios ----------

// UserSummary es la fila del listado de usuarios.
type UserSummary struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	Verified    bool      `json:"verified"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromUser(u *repository.User) UserSummary {
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return UserSummary{
		ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role,
		Permissions: perms, Verified: u.EmailVerified, Status: u.Status,
		CreatedAt: u.CreatedAt,
	}
}

// UpdateGrantsRequest reemplaza los grants de una cuenta SUBADMIN.
type UpdateGrantsRequest struct {
	Permissions []string `json:"permissions"`
}

// SetStatusRequest habilita o deshabilita una cuenta.
type SetStatusRequest struct {
	Status string `json:"status"` // active | disabled
}

// CreateAdminRequest da de alta una cuenta SUBADMIN con sus grants.
type CreateAdminRequest struct {
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Password    string   `json:"password"`
	Permissions []string `json:"permissions"`
}

// ---------- facturación ----------

// InvoiceView es la fila del listado de facturas.
type InvoiceView struct {
	ID           string          `json:"id"`
	Number       string          `json:"number"`
	UserID       string          `json:"user_id"`
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
		ID: inv.ID, Number: inv.Number, UserID: inv.UserID,
		Amount: inv.Amount, Currency: inv.Currency, Status: inv.Status,
		CheckoutKind: inv.CheckoutKind, ExpiresAt: inv.ExpiresAt,
		PaidAt: inv.PaidAt, CreatedAt: inv.CreatedAt,
	}
}

// ---------- cupones ----------

// CouponRequest crea o edita un cupón.
type CouponRequest struct {
	Code       string          `json:"code"`
	PercentOff int             `json:"percent_off"`
	AmountOff  decimal.Decimal `json:"amount_off"`
	Currency   string          `json:"currency"`
	MaxUses    int             `json:"max_uses"`
	Active     bool            `json:"active"`
	ValidFrom  *time.Time      `json:"valid_from,omitempty"`
	ValidUntil *time.Time      `json:"valid_until,omitempty"`
}

// CouponView es la fila del listado de cupones.
type CouponView struct {
	ID         string          `json:"id"`
	Code       string          `json:"code"`
	PercentOff int             `json:"percent_off"`
	AmountOff  decimal.Decimal `json:"amount_off"`
	Currency   string          `json:"currency"`
	MaxUses    int             `json:"max_uses"`
	Uses       int             `json:"uses"`
	Active     bool            `json:"active"`
	ValidFrom  *time.Time      `json:"valid_from,omitempty"`
	ValidUntil *time.Time      `json:"valid_until,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func FromCoupon(c *repository.Coupon) CouponView {
	return CouponView{
		ID: c.ID, Code: c.Code, PercentOff: c.PercentOff, AmountOff: c.AmountOff,
		Currency: c.Currency, MaxUses: c.MaxUses, Uses: c.Uses, Active: c.Active,
		ValidFrom: c.ValidFrom, ValidUntil: c.ValidUntil, CreatedAt: c.CreatedAt,
	}
}

// ---------- recompensas ----------

// RewardView es la fila del listado de recompensas por referidos.
type RewardView struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	ReferredID string          `json:"referred_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`
	ReviewedBy string          `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func FromReward(r *repository.Reward) RewardView {
	return RewardView{
		ID: r.ID, UserID: r.UserID, ReferredID: r.ReferredID,
		Amount: r.Amount, Currency: r.Currency, Status: r.Status,
		ReviewedBy: r.ReviewedBy, ReviewedAt: r.ReviewedAt, CreatedAt: r.CreatedAt,
	}
}

// ResolveRewardRequest aprueba o rechaza una recompensa pendiente.
type ResolveRewardRequest struct {
	Status string `json:"status"` // approved | rejected
}

// ---------- pedidos NFC ----------

// OrderView es la fila del listado de pedidos.
type OrderView struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CardID     string    `json:"card_id"`
	Status     string    `json:"status"`
	Address    string    `json:"address"`
	TrackingID string    `json:"tracking_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func FromOrder(o *repository.CardOrder) OrderView {
	return OrderView{
		ID: o.ID, UserID: o.UserID, CardID: o.CardID, Status: o.Status,
		Address: o.Address, TrackingID: o.TrackingID,
		CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt,
	}
}

// AdvanceOrderRequest avanza el pedido a su siguiente estado.
type AdvanceOrderRequest struct {
	TrackingID string `json:"tracking_id,omitempty"`
}

// ---------- suscripciones ----------

// SubscriptionView es la fila del listado de suscripciones.
type SubscriptionView struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Plan        string    `json:"plan"`
	Status      string    `json:"status"`
	PeriodEnd   time.Time `json:"period_end"`
	CancelAtEnd bool      `json:"cancel_at_end"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromSubscription(s *repository.Subscription) SubscriptionView {
	return SubscriptionView{
		ID: s.ID, UserID: s.UserID, Plan: s.Plan, Status: s.Status,
		PeriodEnd: s.PeriodEnd, CancelAtEnd: s.CancelAtEnd, CreatedAt: s.CreatedAt,
	}
}

// CancelSubscriptionRequest cancela (inmediato o al fin del período).
type CancelSubscriptionRequest struct {
	Immediate bool `json:"immediate"`
}
