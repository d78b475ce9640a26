package repository

import (
	"context"
	"time"
)

// Estados de pedido NFC. La fulfillment avanza en un solo sentido:
// new → printing → shipped → delivered.
const (
	OrderNew       = "new"
	OrderPrinting  = "printing"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
)

// orderFlow define el siguiente estado válido de cada estado.
var orderFlow = map[string]string{
	OrderNew:      OrderPrinting,
	OrderPrinting: OrderShipped,
	OrderShipped:  OrderDelivered,
}

// NextOrderStatus retorna el estado siguiente válido ("" si es terminal).
func NextOrderStatus(current string) string {
	return orderFlow[current]
}

// CardOrder es un pedido de tarjeta NFC física asociado a una card.
type CardOrder struct {
	ID         string
	UserID     string
	CardID     string
	Status     string
	Address    string
	TrackingID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderRepository define la persistencia de pedidos NFC.
type OrderRepository interface {
	CreateOrder(ctx context.Context, o CardOrder) (*CardOrder, error)
	GetOrderByID(ctx context.Context, id string) (*CardOrder, error)
	ListOrders(ctx context.Context, status string, limit, offset int) ([]CardOrder, error)

	// AdvanceOrder mueve el pedido a su siguiente estado (con tracking
	// opcional al shippear). ErrInvalidTransition desde un estado terminal.
	AdvanceOrder(ctx context.Context, id, trackingID string) (*CardOrder, error)
}
