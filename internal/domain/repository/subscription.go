package repository

import (
	"context"
	"time"
)

// Estados de suscripción.
const (
	SubActive   = "active"
	SubPastDue  = "past_due"
	SubCanceled = "canceled"
)

// Subscription es la suscripción del usuario a un plan.
type Subscription struct {
	ID          string
	UserID      string
	Plan        string // free | pro | business
	Status      string
	PeriodEnd   time.Time
	CancelAtEnd bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SubscriptionRepository define la persistencia de suscripciones.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, s Subscription) (*Subscription, error)
	GetSubscriptionByUser(ctx context.Context, userID string) (*Subscription, error)
	ListSubscriptions(ctx context.Context, status string, limit, offset int) ([]Subscription, error)

	// CancelSubscription marca la cancelación (efectiva al fin del período o
	// inmediata). ErrInvalidTransition si ya está cancelada.
	CancelSubscription(ctx context.Context, id string, immediate bool) error
}
