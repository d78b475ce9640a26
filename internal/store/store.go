// Package store expone el repositorio agregado y la fábrica de drivers.
package store

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/hellocard/internal/domain/repository"
	"github.com/dropDatabas3/hellocard/internal/store/memory"
	"github.com/dropDatabas3/hellocard/internal/store/pg"
)

// Repository agrupa todos los contratos de persistencia del dominio.
type Repository interface {
	repository.UserRepository
	repository.CardRepository
	repository.InvoiceRepository
	repository.CouponRepository
	repository.RewardRepository
	repository.OrderRepository
	repository.SubscriptionRepository

	Ping(ctx context.Context) error
	Close()
}

// Config de la fábrica.
type Config struct {
	Driver string // "postgres" | "memory"
	DSN    string
	PG     pg.PoolConfig
}

// New crea el repositorio según configuración. DSN vacío cae a memory
// (modo dev sin base): el server levanta igual y los datos viven en RAM.
func New(ctx context.Context, cfg Config) (Repository, error) {
	switch cfg.Driver {
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("store: driver postgres requiere DSN")
		}
		return pg.New(ctx, cfg.DSN, cfg.PG)
	case "memory", "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("store: driver desconocido %q", cfg.Driver)
	}
}
