package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de recompensa. pending → approved | rejected.
const (
	RewardPending  = "pending"
	RewardApproved = "approved"
	RewardRejected = "rejected"
)

// Reward es una recompensa por referido, pendiente de revisión manual.
type Reward struct {
	ID         string
	UserID     string
	ReferredID string
	Amount     decimal.Decimal
	Currency   string
	Status     string
	ReviewedBy string // user_id del admin que resolvió
	ReviewedAt *time.Time
	CreatedAt  time.Time
}

// RewardRepository define la persistencia de recompensas.
type RewardRepository interface {
	CreateReward(ctx context.Context, r Reward) (*Reward, error)
	GetRewardByID(ctx context.Context, id string) (*Reward, error)
	ListRewards(ctx context.Context, status string, limit, offset int) ([]Reward, error)

	// ResolveReward: pending → approved|rejected, registrando el revisor.
	// ErrInvalidTransition si ya fue resuelta.
	ResolveReward(ctx context.Context, id, status, reviewerID string, at time.Time) error
}
