package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/hellocard/internal/authz"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/http/metrics"
	"github.com/dropDatabas3/hellocard/internal/observability/logger"
)

// RouteGuard aplica authz.Decide a cada request y traduce el veredicto a
// efectos HTTP. La decisión es pura; acá vive solo el efecto:
//
//   - Pending  ⇒ 503 + Retry-After: la sesión no resolvió por una falla
//     transitoria y el guard nunca degrada a anónimo (fail-closed).
//   - Redirect ⇒ 303 See Other + Location (el browser reemplaza, no apila
//     historial). Si el destino es la ruta actual el redirect sería un
//     loop, así que se responde 204 sin cuerpo.
//   - Allow    ⇒ sigue la cadena.
//
// Requiere WithSession antes en la cadena.
func RouteGuard(req authz.Requirement) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := authz.Decide(GetSubject(r.Context()), SessionLoading(r.Context()), req, r.URL.RequestURI())
			metrics.ObserveGuardDecision(d.Outcome.String(), r.URL.Path)

			switch d.Outcome {
			case authz.Pending:
				w.Header().Set("Retry-After", "1")
				httperrors.WriteError(w, httperrors.ErrSessionResolving)
				return

			case authz.Redirect:
				if d.Target == r.URL.Path || d.Target == r.URL.RequestURI() {
					// redirigir a la ruta actual loopearía
					logger.From(r.Context()).Warn("guard redirect loop suppressed",
						logger.Component("middlewares.guard"),
						logger.Path(r.URL.Path),
					)
					w.WriteHeader(http.StatusNoContent)
					return
				}
				w.Header().Set("Cache-Control", "no-store")
				http.Redirect(w, r, d.Target, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated es el guard mínimo: sesión verificada, sin
// restricción de rol ni permisos.
func RequireAuthenticated() Middleware {
	return RouteGuard(authz.Requirement{})
}

// RequireAdminArea exige rol ADMIN o SUBADMIN más el permiso de entrada a
// la consola. Las rutas internas suman sus permisos específicos.
func RequireAdminArea() Middleware {
	return RouteGuard(authz.Requirement{
		AllowedRoles:        []authz.Role{authz.RoleAdmin, authz.RoleSubadmin},
		RequiredPermissions: []authz.Permission{authz.PermAdminAccess},
	})
}
