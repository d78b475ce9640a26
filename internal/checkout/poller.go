// Package checkout corre el poller que expira checkouts crypto pendientes.
// Un checkout crypto tiene una ventana fija para acreditar el pago; pasada
// la ventana la factura pasa a expired y el frontend deja de mostrar la
// dirección de pago.
package checkout

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/hellocard/internal/domain/repository"
	"github.com/dropDatabas3/hellocard/internal/observability/logger"
)

// Poller barre facturas pendientes vencidas a intervalo fijo.
type Poller struct {
	Invoices repository.InvoiceRepository
	Interval time.Duration
}

func NewPoller(invoices repository.InvoiceRepository, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Poller{Invoices: invoices, Interval: interval}
}

// Run bloquea hasta que el contexto muera. Pensado para correr dentro del
// errgroup del server.
func (p *Poller) Run(ctx context.Context) error {
	log := logger.L().With(logger.Component("checkout.poller"))
	log.Info("checkout poller started", logger.Duration(p.Interval))

	t := time.NewTicker(p.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("checkout poller stopped")
			return ctx.Err()
		case now := <-t.C:
			p.sweep(ctx, now.UTC(), log)
		}
	}
}

func (p *Poller) sweep(ctx context.Context, now time.Time, log *zap.Logger) {
	n, err := p.Invoices.ExpirePendingCheckouts(ctx, now)
	if err != nil {
		// el próximo tick reintenta; no hay nada que propagar
		log.Warn("checkout sweep failed", logger.Err(err))
		return
	}
	if n > 0 {
		log.Info("checkouts expired", logger.Count(n))
	}
}
