package authz

import "net/url"

// Defaults de navegación del guard. El router puede sobreescribir el
// destino de denegación por ruta vía Requirement.RedirectTo; los globales
// se ajustan una sola vez en el arranque con ConfigureNavigation.
var (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

const ReturnToParam = "returnTo"

// ConfigureNavigation sobreescribe los destinos globales del guard.
// Llamar solo durante el arranque, antes de servir tráfico.
func ConfigureNavigation(login, dashboard string) {
	if login != "" {
		LoginPath = login
	}
	if dashboard != "" {
		DashboardPath = dashboard
	}
}

// Requirement describe lo que una ruta protegida exige. Se crea al
// registrar la ruta y no muta en runtime.
type Requirement struct {
	// AllowedRoles: conjunto de roles admitidos. Vacío = sin restricción de rol.
	AllowedRoles []Role
	// RequiredPermissions: el sujeto debe tener TODOS. Vacío = sin restricción.
	RequiredPermissions []Permission
	// AllowAnonymous: escape hatch para rutas que admiten visitantes sin sesión.
	AllowAnonymous bool
	// RedirectTo: a dónde mandar a un usuario autenticado pero no autorizado.
	// Vacío = DashboardPath.
	RedirectTo string
}

// Outcome es el veredicto del guard.
type Outcome int

const (
	// Pending: la sesión upstream todavía está resolviendo. Mostrar estado
	// de carga, NO redirigir ni renderizar contenido (evita el flicker de
	// redirect antes de conocer la sesión). Fail-closed: si nunca resuelve,
	// nunca se concede acceso.
	Pending Outcome = iota
	// Allow: renderizar el contenido protegido sin cambios.
	Allow
	// Redirect: negado; navegar (replace) a Decision.Target.
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// Decision es el resultado puro de Decide. El efecto de navegación vive en
// el adaptador HTTP (middlewares.RouteGuard), no acá.
type Decision struct {
	Outcome Outcome
	// Target: destino del redirect cuando Outcome == Redirect.
	Target string
}

// Decide computa el veredicto del guard a partir del último snapshot de
// (loading, sujeto, requisitos, path actual). Sin estado, sin caché:
// cada evaluación parte de cero.
//
// Orden de negación (primera que aplique):
//
//	a) sin sesión y la ruta no admite anónimos  ⇒ login con returnTo (path+query, URL-encoded)
//	b) sesión sin verificar                     ⇒ login pelado, sin returnTo
//	c) restricción de rol no satisfecha          ⇒ RedirectTo (default dashboard)
//	d) restricción de permisos no satisfecha     ⇒ RedirectTo (default dashboard)
func Decide(s *Subject, loading bool, req Requirement, currentPath string) Decision {
	if loading {
		return Decision{Outcome: Pending}
	}

	if s == nil {
		if req.AllowAnonymous {
			return Decision{Outcome: Allow}
		}
		return Decision{
			Outcome: Redirect,
			Target:  LoginPath + "?" + ReturnToParam + "=" + url.QueryEscape(currentPath),
		}
	}

	// Identidad sin verificar = no autenticada para efectos de guard,
	// pero sin returnTo: primero tiene que completar la verificación.
	if !s.Verified {
		return Decision{Outcome: Redirect, Target: LoginPath}
	}

	denied := req.RedirectTo
	if denied == "" {
		denied = DashboardPath
	}

	if !HasRole(s, req.AllowedRoles) {
		return Decision{Outcome: Redirect, Target: denied}
	}
	if !CanAll(s, req.RequiredPermissions) {
		return Decision{Outcome: Redirect, Target: denied}
	}

	return Decision{Outcome: Allow}
}
