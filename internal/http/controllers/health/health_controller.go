// Package health expone los health checks del servicio.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/hellocard/internal/cache"
	"github.com/dropDatabas3/hellocard/internal/http/helpers"
)

// Pinger es lo mínimo que health necesita del store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Controller maneja /healthz y /readyz.
type Controller struct {
	store Pinger
	cache cache.Client
}

func NewController(store Pinger, c cache.Client) *Controller {
	return &Controller{store: store, cache: c}
}

// Live maneja GET /healthz: el proceso responde.
func (c *Controller) Live(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready maneja GET /readyz: el proceso puede atender tráfico real.
// Reporta cada dependencia por separado para diagnóstico.
func (c *Controller) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := map[string]string{"store": "ok", "cache": "ok"}
	healthy := true

	if err := c.store.Ping(ctx); err != nil {
		deps["store"] = err.Error()
		healthy = false
	}
	if c.cache != nil {
		if err := c.cache.Ping(ctx); err != nil {
			deps["cache"] = err.Error()
			healthy = false
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	helpers.WriteJSON(w, status, map[string]any{"healthy": healthy, "deps": deps})
}
