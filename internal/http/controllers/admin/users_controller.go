package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hellocard/internal/authz"
	"github.com/dropDatabas3/hellocard/internal/domain/repository"
	dto "github.com/dropDatabas3/hellocard/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/http/helpers"
	"github.com/dropDatabas3/hellocard/internal/http/middlewares"
	"github.com/dropDatabas3/hellocard/internal/observability/logger"
)

// ListUsers maneja GET /v1/admin/users
func (c *Controller) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.UserFilter{
		Role:   q.Get("role"),
		Status: q.Get("status"),
		Query:  q.Get("q"),
		Limit:  helpers.QueryInt(r, "limit", 50),
		Offset: helpers.QueryInt(r, "offset", 0),
	}

	result, err := c.service.ListUsers(r.Context(), f)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	// la columna de grants solo se muestra a quien puede editarlos;
	// el resto de la fila es visible con users:view
	sub := middlewares.GetSubject(r.Context())
	for i := range result {
		result[i].Permissions = authz.Gate(sub,
			[]authz.Permission{authz.PermUsersEdit},
			result[i].Permissions, []string{})
	}
	helpers.WriteJSON(w, http.StatusOK, result)
}

// SetUserStatus maneja PUT /v1/admin/users/{id}/status
func (c *Controller) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.SetStatusRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := c.service.SetUserStatus(r.Context(), id, req.Status); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	logger.From(r.Context()).Info("user status changed",
		logger.Layer("controller"), logger.UserID(id), logger.String("status", req.Status))
	w.WriteHeader(http.StatusNoContent)
}

// UpdateUserGrants maneja PUT /v1/admin/users/{id}/grants
func (c *Controller) UpdateUserGrants(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateGrantsRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	result, err := c.service.UpdateUserGrants(r.Context(), id, req.Permissions)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	logger.From(r.Context()).Info("user grants updated",
		logger.Layer("controller"), logger.UserID(id), logger.Count(len(result.Permissions)))
	helpers.WriteJSON(w, http.StatusOK, result)
}

// CreateAdmin maneja POST /v1/admin/admins
func (c *Controller) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAdminRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}

	result, err := c.service.CreateAdmin(r.Context(), req)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	logger.From(r.Context()).Info("subadmin account created",
		logger.Layer("controller"), logger.UserID(result.ID))
	helpers.WriteJSON(w, http.StatusCreated, result)
}
