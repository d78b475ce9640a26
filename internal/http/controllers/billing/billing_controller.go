// Package billing expone la facturación del propio usuario bajo /v1/me.
package billing

import (
	"net/http"

	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/http/helpers"
	"github.com/dropDatabas3/hellocard/internal/http/middlewares"
	svc "github.com/dropDatabas3/hellocard/internal/http/services/billing"
)

// Controller maneja /v1/me/invoices y /v1/me/subscription.
type Controller struct {
	service svc.Service
}

func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// ListMyInvoices maneja GET /v1/me/invoices
func (c *Controller) ListMyInvoices(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.ListMyInvoices(
		r.Context(),
		middlewares.GetSubject(r.Context()),
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

// MySubscription maneja GET /v1/me/subscription
func (c *Controller) MySubscription(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.MySubscription(r.Context(), middlewares.GetSubject(r.Context()))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, result)
}
