package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hellocard/internal/domain/repository"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/http/helpers"
	"github.com/dropDatabas3/hellocard/internal/observability/logger"
)

// ListInvoices maneja GET /v1/admin/invoices
func (c *Controller) ListInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.InvoiceFilter{
		UserID: q.Get("user_id"),
		Status: q.Get("status"),
		Limit:  helpers.QueryInt(r, "limit", 50),
		Offset: helpers.QueryInt(r, "offset", 0),
	}

	result, err := c.service.ListInvoices(r.Context(), f)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, result)
}

// VoidInvoice maneja POST /v1/admin/invoices/{id}/void
func (c *Controller) VoidInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := c.service.VoidInvoice(r.Context(), id); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	logger.From(r.Context()).Info("invoice voided", logger.Layer("controller"), logger.InvoiceID(id))
	w.WriteHeader(http.StatusNoContent)
}

// DeleteInvoice maneja DELETE /v1/admin/invoices/{id}
func (c *Controller) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := c.service.DeleteInvoice(r.Context(), id); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	logger.From(r.Context()).Info("invoice deleted", logger.Layer("controller"), logger.InvoiceID(id))
	w.WriteHeader(http.StatusNoContent)
}
