package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/hellocard/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/http/helpers"
)

// ListSubscriptions maneja GET /v1/admin/subscriptions
func (c *Controller) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.ListSubscriptions(r.Context(),
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

// CancelSubscription maneja POST /v1/admin/subscriptions/{id}/cancel
func (c *Controller) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	var req dto.CancelSubscriptionRequest
	// body opcional: default cancela al fin del período
	_ = helpers.DecodeJSONLenient(r, &req)

	if err := c.service.CancelSubscription(r.Context(), chi.URLParam(r, "id"), req.Immediate); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
