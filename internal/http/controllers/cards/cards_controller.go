// Package cards expone los controllers de perfiles: la vista pública por
// slug y el CRUD del dueño.
package cards

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/hellocard/internal/http/dto/cards"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/http/helpers"
	"github.com/dropDatabas3/hellocard/internal/http/middlewares"
	svc "github.com/dropDatabas3/hellocard/internal/http/services/cards"
	"github.com/dropDatabas3/hellocard/internal/observability/logger"
)

// Controller maneja /c/{slug} y /v1/cards.
type Controller struct {
	service svc.Service
}

func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// PublicBySlug maneja GET /c/{slug}. Ruta pública: la única parte del
// sistema que sirve una card sin sesión.
func (c *Controller) PublicBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	result, err := c.service.PublicBySlug(r.Context(), slug)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	logger.From(r.Context()).Debug("public card served", logger.CardSlug(slug))
	helpers.WriteJSON(w, http.StatusOK, result)
}

// Create maneja POST /v1/cards
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CardRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}

	result, err := c.service.Create(r.Context(), middlewares.GetSubject(r.Context()), req)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, result)
}

// ListMine maneja GET /v1/cards
func (c *Controller) ListMine(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.ListMine(r.Context(), middlewares.GetSubject(r.Context()))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, result)
}

// Get maneja GET /v1/cards/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.Get(r.Context(), middlewares.GetSubject(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, result)
}

// Update maneja PUT /v1/cards/{id}
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.CardRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}

	result, err := c.service.Update(r.Context(), middlewares.GetSubject(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, result)
}

// Delete maneja DELETE /v1/cards/{id}
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), middlewares.GetSubject(r.Context()), chi.URLParam(r, "id")); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
