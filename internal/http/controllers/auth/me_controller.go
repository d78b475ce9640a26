package auth

import (
	"net/http"

	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/http/helpers"
	"github.com/dropDatabas3/hellocard/internal/http/middlewares"
)

// Me maneja GET /v1/auth/me. El frontend lo consume para armar el Subject
// del guard; por eso siempre devuelve rol, grants y verified frescos.
func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	// no pasa por RouteGuard: una sesión sin verificar también necesita
	// leer su propio snapshot para mostrar el aviso de verificación
	if middlewares.SessionLoading(r.Context()) {
		w.Header().Set("Retry-After", "1")
		httperrors.WriteError(w, httperrors.ErrSessionResolving)
		return
	}
	userID := middlewares.GetUserID(r.Context())
	if userID == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	result, err := c.service.Me(r.Context(), userID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, result)
}
