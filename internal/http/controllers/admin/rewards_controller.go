package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/hellocard/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/http/helpers"
	"github.com/dropDatabas3/hellocard/internal/http/middlewares"
	"github.com/dropDatabas3/hellocard/internal/observability/logger"
)

// ListRewards maneja GET /v1/admin/rewards
func (c *Controller) ListRewards(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.ListRewards(r.Context(),
		r.URL.Query().Get("status"),
		helpers.QueryInt(r, "limit", 50),
		helpers.QueryInt(r, "offset", 0),
	)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, result)
}

// ResolveReward maneja POST /v1/admin/rewards/{id}/resolve. Registra qué
// admin resolvió la recompensa.
func (c *Controller) ResolveReward(w http.ResponseWriter, r *http.Request) {
	var req dto.ResolveRewardRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	reviewer := middlewares.GetUserID(r.Context())
	if err := c.service.ResolveReward(r.Context(), id, req.Status, reviewer); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	logger.From(r.Context()).Info("reward resolved",
		logger.Layer("controller"), logger.String("reward_id", id), logger.String("status", req.Status))
	w.WriteHeader(http.StatusNoContent)
}
