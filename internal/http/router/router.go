// Package router arma el árbol de rutas del servicio y declara, por grupo,
// los requisitos que el route guard aplica.
package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hellocard/internal/authz"
	adminctrl "github.com/dropDatabas3/hellocard/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/hellocard/internal/http/controllers/auth"
	billingctrl "github.com/dropDatabas3/hellocard/internal/http/controllers/billing"
	cardsctrl "github.com/dropDatabas3/hellocard/internal/http/controllers/cards"
	healthctrl "github.com/dropDatabas3/hellocard/internal/http/controllers/health"
	"github.com/dropDatabas3/hellocard/internal/http/helpers"
	"github.com/dropDatabas3/hellocard/internal/http/metrics"
	mw "github.com/dropDatabas3/hellocard/internal/http/middlewares"
	"github.com/dropDatabas3/hellocard/internal/rate"
	"github.com/dropDatabas3/hellocard/internal/session"
)

// Deps contiene todo lo que el router necesita para armar el árbol.
type Deps struct {
	Sessions *session.Provider

	Auth    *authctrl.Controller
	Cards   *cardsctrl.Controller
	Billing *billingctrl.Controller
	Admin   *adminctrl.Controller
	Health  *healthctrl.Controller

	// MetricsHandler sirve /metrics (nil = no exponer).
	MetricsHandler http.Handler

	// LoginLimiter acota intentos de login/registro por IP (nil = sin límite).
	LoginLimiter rate.Limiter

	CORSAllowedOrigins []string
}

// requirement valida en el armado del router que el destino de denegación
// no sea la ruta guardada: ese par produciría un redirect a sí mismo en
// cada request denegado. Detectarlo acá rompe en el arranque, no en runtime.
func requirement(routePattern string, req authz.Requirement) authz.Requirement {
	denied := req.RedirectTo
	if denied == "" {
		denied = authz.DashboardPath
	}
	if denied == routePattern {
		panic(fmt.Sprintf("router: la ruta %q redirige denegados a sí misma", routePattern))
	}
	return req
}

// navPage sirve el destino de un redirect de denegación. Devuelve el
// nombre de la página y propaga el returnTo para que el cliente pueda
// retomar la navegación tras autenticarse.
func navPage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSON(w, http.StatusOK, map[string]string{
			"page":      name,
			"return_to": r.URL.Query().Get("returnTo"),
		})
	}
}

// New arma el handler raíz con la cadena global de middlewares.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.WithRequestID())
	r.Use(mw.WithRecover())
	r.Use(mw.WithCORS(d.CORSAllowedOrigins))
	r.Use(mw.WithSession(d.Sessions))
	r.Use(mw.WithLogging())
	r.Use(metrics.WithMetrics)

	// ─── infra ───
	r.Get("/healthz", d.Health.Live)
	r.Get("/readyz", d.Health.Ready)
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	// ─── destinos de redirect del guard ───
	// El frontend real renderiza estas páginas; el backend las responde con
	// un placeholder para que un 303 de denegación aterrice en un 200.
	// El mapa deduplica por si la config apunta dos destinos al mismo path.
	pages := map[string]string{
		authz.LoginPath:     "login",
		authz.DashboardPath: "dashboard",
		"/admin":            "admin",
	}
	for path, name := range pages {
		r.Get(path, navPage(name))
	}

	// ─── card pública (link/QR, sin sesión) ───
	r.Group(func(r chi.Router) {
		r.Use(mw.RouteGuard(requirement("/c/{slug}", authz.Requirement{AllowAnonymous: true})))
		r.Get("/c/{slug}", d.Cards.PublicBySlug)
	})

	// ─── auth ───
	r.Route("/v1/auth", func(r chi.Router) {
		// endpoints públicos, con rate limit por IP
		r.Group(func(r chi.Router) {
			r.Use(mw.WithRateLimit(d.LoginLimiter, mw.KeyByIPPath))
			r.Post("/register", d.Auth.Register)
			r.Post("/login", d.Auth.Login)
			r.Post("/refresh", d.Auth.Refresh)
			r.Post("/verify-email", d.Auth.VerifyEmail)
			r.Post("/resend-verification", d.Auth.ResendVerification)
		})

		// requieren sesión pero no guard completo: una cuenta sin verificar
		// también puede leer su snapshot y desloguearse
		r.Get("/me", d.Auth.Me)
		r.Post("/logout", d.Auth.Logout)
	})

	// ─── cards del usuario ───
	r.Route("/v1/cards", func(r chi.Router) {
		r.Use(mw.RouteGuard(requirement("/v1/cards", authz.Requirement{})))
		r.Post("/", d.Cards.Create)
		r.Get("/", d.Cards.ListMine)
		r.Get("/{id}", d.Cards.Get)
		r.Put("/{id}", d.Cards.Update)
		r.Delete("/{id}", d.Cards.Delete)
	})

	// ─── facturación del usuario ───
	r.Route("/v1/me", func(r chi.Router) {
		r.Use(mw.RouteGuard(requirement("/v1/me", authz.Requirement{})))
		r.Get("/invoices", d.Billing.ListMyInvoices)
		r.Get("/subscription", d.Billing.MySubscription)
	})

	// ─── consola admin ───
	registerAdminRoutes(r, d)

	return r
}
