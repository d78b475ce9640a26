package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/hellocard/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/http/helpers"
)

// ListCoupons maneja GET /v1/admin/coupons
func (c *Controller) ListCoupons(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("active") == "true"

	result, err := c.service.ListCoupons(r.Context(), onlyActive)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, result)
}

// CreateCoupon maneja POST /v1/admin/coupons
func (c *Controller) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req dto.CouponRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}

	result, err := c.service.CreateCoupon(r.Context(), req)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, result)
}

// UpdateCoupon maneja PUT /v1/admin/coupons/{id}
func (c *Controller) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	var req dto.CouponRequest
	if !helpers.DecodeJSON(w, r, &req) {
		return
	}

	result, err := c.service.UpdateCoupon(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, result)
}

// DeleteCoupon maneja DELETE /v1/admin/coupons/{id}
func (c *Controller) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	if err := c.service.DeleteCoupon(r.Context(), chi.URLParam(r, "id")); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
