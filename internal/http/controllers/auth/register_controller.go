package auth

import (
	"net/http"
	"strings"

	dto "github.com/dropDatabas3/hellocard/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/http/helpers"
	"github.com/dropDatabas3/hellocard/internal/observability/logger"
)

// Register maneja POST /v1/auth/register
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("auth.Register"))

	var req dto.RegisterRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}

	result, err := c.service.Register(ctx, req)
	if err != nil {
		log.Debug("register failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, result)
}

// VerifyEmail maneja POST /v1/auth/verify-email
func (c *Controller) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyEmailRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}

	if err := c.service.VerifyEmail(r.Context(), req.Token); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResendVerification maneja POST /v1/auth/resend-verification.
// Responde 204 exista o no la cuenta.
func (c *Controller) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("email es obligatorio"))
		return
	}

	if err := c.service.ResendVerification(r.Context(), req.Email); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
