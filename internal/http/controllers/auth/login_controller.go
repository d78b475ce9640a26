package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/hellocard/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/http/helpers"
	"github.com/dropDatabas3/hellocard/internal/http/middlewares"
	"github.com/dropDatabas3/hellocard/internal/observability/logger"
)

// Login maneja POST /v1/auth/login
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.Login"))

	var req dto.LoginRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}

	result, err := c.service.Login(ctx, req)
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	helpers.WriteJSON(w, http.StatusOK, result)
}

// Refresh maneja POST /v1/auth/refresh
func (c *Controller) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}

	result, err := c.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, result)
}

// Logout maneja POST /v1/auth/logout. Revoca el access vigente y el
// refresh enviado en el body (si hay).
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.RefreshRequest
	// body opcional: un logout sin refresh token también vale
	_ = helpers.DecodeJSONLenient(r, &req)

	if err := c.service.Logout(ctx, middlewares.GetRawToken(ctx), req.RefreshToken); err != nil {
		logger.From(ctx).Warn("logout revocation failed",
			logger.Layer("controller"), logger.Op("auth.Logout"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
