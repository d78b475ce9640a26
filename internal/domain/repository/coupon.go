package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Coupon es un cupón de descuento. PercentOff y AmountOff son excluyentes
// (uno de los dos en cero).
type Coupon struct {
	ID         string
	Code       string
	PercentOff int
	AmountOff  decimal.Decimal
	Currency   string
	MaxUses    int
	Uses       int
	Active     bool
	ValidFrom  *time.Time
	ValidUntil *time.Time
	CreatedAt  time.Time
}

// CouponInput datos para crear/actualizar un cupón.
type CouponInput struct {
	Code       string
	PercentOff int
	AmountOff  decimal.Decimal
	Currency   string
	MaxUses    int
	Active     bool
	ValidFrom  *time.Time
	ValidUntil *time.Time
}

// CouponRepository define la persistencia de cupones.
type CouponRepository interface {
	CreateCoupon(ctx context.Context, in CouponInput) (*Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (*Coupon, error)
	ListCoupons(ctx context.Context, onlyActive bool) ([]Coupon, error)
	UpdateCoupon(ctx context.Context, id string, in CouponInput) (*Coupon, error)
	DeleteCoupon(ctx context.Context, id string) error
}
