package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dropDatabas3/hellocard/internal/authz"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("contenido"))
	})
}

// doGuard ejecuta el guard con un estado de sesión inyectado.
func doGuard(t *testing.T, req authz.Requirement, st sessionState, target string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, target, nil)
	r = r.WithContext(withSession(r.Context(), st))
	w := httptest.NewRecorder()
	RouteGuard(req)(okHandler()).ServeHTTP(w, r)
	return w
}

func TestRouteGuard_AnonymousRedirectsToLoginWithReturnTo(t *testing.T) {
	w := doGuard(t, authz.Requirement{}, sessionState{}, "/admin/users?page=2")

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, quería 303", w.Code)
	}
	loc := w.Header().Get("Location")
	want := "/login?returnTo=%2Fadmin%2Fusers%3Fpage%3D2"
	if loc != want {
		t.Fatalf("Location = %q, quería %q", loc, want)
	}
	if w.Body.String() == "contenido" {
		t.Fatal("el contenido protegido no debe renderizarse en un redirect")
	}
}

func TestRouteGuard_AnonymousAllowedWhenRouteIsPublic(t *testing.T) {
	w := doGuard(t, authz.Requirement{AllowAnonymous: true}, sessionState{}, "/c/sofia")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, quería 200", w.Code)
	}
}

func TestRouteGuard_LoadingIsServiceUnavailable(t *testing.T) {
	w := doGuard(t, authz.Requirement{}, sessionState{Loading: true}, "/dashboard")

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, quería 503", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("falta Retry-After en la respuesta de sesión pendiente")
	}
	if w.Header().Get("Location") != "" {
		t.Fatal("una sesión pendiente nunca redirige")
	}
}

func TestRouteGuard_UnverifiedRedirectsToBareLogin(t *testing.T) {
	st := sessionState{Subject: &authz.Subject{ID: "u1", Role: authz.RoleUser, Verified: false}}
	w := doGuard(t, authz.Requirement{}, st, "/dashboard")

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, quería 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("Location = %q, quería /login sin returnTo", loc)
	}
}

func TestRouteGuard_RoleMissRedirectsToDashboard(t *testing.T) {
	st := sessionState{Subject: &authz.Subject{ID: "u1", Role: authz.RoleUser, Verified: true}}
	w := doGuard(t, authz.Requirement{
		AllowedRoles: []authz.Role{authz.RoleAdmin, authz.RoleSubadmin},
	}, st, "/admin")

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, quería 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != authz.DashboardPath {
		t.Fatalf("Location = %q, quería %q", loc, authz.DashboardPath)
	}
}

func TestRouteGuard_PermissionMissUsesCustomRedirect(t *testing.T) {
	st := sessionState{Subject: &authz.Subject{
		ID: "u1", Role: authz.RoleSubadmin, Verified: true,
		Permissions: []authz.Permission{authz.PermAdminAccess},
	}}
	w := doGuard(t, authz.Requirement{
		RequiredPermissions: []authz.Permission{authz.PermUsersDelete},
		RedirectTo:          "/admin",
	}, st, "/admin/users/u9/delete")

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, quería 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin" {
		t.Fatalf("Location = %q, quería /admin", loc)
	}
}

func TestRouteGuard_AdminBypassesPermissionChecks(t *testing.T) {
	st := sessionState{Subject: &authz.Subject{ID: "a1", Role: authz.RoleAdmin, Verified: true}}
	w := doGuard(t, authz.Requirement{
		AllowedRoles:        []authz.Role{authz.RoleAdmin, authz.RoleSubadmin},
		RequiredPermissions: []authz.Permission{authz.PermAdminAccess, authz.PermUsersDelete},
	}, st, "/admin/users/u9/delete")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, quería 200 por bypass de ADMIN", w.Code)
	}
}

func TestRouteGuard_RedirectLoopIsSuppressed(t *testing.T) {
	st := sessionState{Subject: &authz.Subject{ID: "u1", Role: authz.RoleUser, Verified: true}}
	w := doGuard(t, authz.Requirement{
		AllowedRoles: []authz.Role{authz.RoleAdmin},
		RedirectTo:   "/dashboard",
	}, st, "/dashboard")

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, quería 204 (loop suprimido)", w.Code)
	}
	if w.Header().Get("Location") != "" {
		t.Fatal("un loop suprimido no debe emitir Location")
	}
	if w.Body.Len() != 0 {
		t.Fatal("un loop suprimido no debe emitir cuerpo")
	}
}

func TestRouteGuard_SubadminWithGrantsPasses(t *testing.T) {
	st := sessionState{Subject: &authz.Subject{
		ID: "s1", Role: authz.RoleSubadmin, Verified: true,
		Permissions: []authz.Permission{authz.PermAdminAccess, authz.PermUsersView},
	}}
	w := doGuard(t, authz.Requirement{
		AllowedRoles:        []authz.Role{authz.RoleAdmin, authz.RoleSubadmin},
		RequiredPermissions: []authz.Permission{authz.PermAdminAccess, authz.PermUsersView},
	}, st, "/admin/users")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, quería 200", w.Code)
	}
}
