package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/hellocard/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/http/helpers"
)

// ListOrders maneja GET /v1/admin/orders
func (c *Controller) ListOrders(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.ListOrders(r.Context(),
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

// AdvanceOrder maneja POST /v1/admin/orders/{id}/advance. El pedido avanza
// al siguiente estado de fulfillment; al shippear puede sumar tracking.
func (c *Controller) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.AdvanceOrderRequest
	// body opcional
	_ = helpers.DecodeJSONLenient(r, &req)

	result, err := c.service.AdvanceOrder(r.Context(), chi.URLParam(r, "id"), req.TrackingID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, result)
}
