package authz

import "testing"

func TestDecide_LoadingSiemprePending(t *testing.T) {
	// Mientras la sesión resuelve no hay redirect ni contenido, sin importar
	// usuario ni requisitos. Fail-closed: si nunca resuelve, nunca concede.
	reqs := []Requirement{
		{},
		{AllowedRoles: []Role{RoleAdmin}},
		{RequiredPermissions: []Permission{PermUsersView}},
		{AllowAnonymous: true},
	}
	for _, req := range reqs {
		for _, s := range []*Subject{nil, admin(), subadmin()} {
			d := Decide(s, true, req, "/cualquiera")
			if d.Outcome != Pending {
				t.Fatalf("loading=true ⇒ Pending, got %s (req=%+v)", d.Outcome, req)
			}
			if d.Target != "" {
				t.Fatalf("Pending no lleva target, got %q", d.Target)
			}
		}
	}
}

func TestDecide_AnonimoRedirigeALoginConReturnTo(t *testing.T) {
	d := Decide(nil, false, Requirement{AllowedRoles: []Role{RoleAdmin}}, "/admin/users")
	if d.Outcome != Redirect {
		t.Fatalf("anónimo ⇒ Redirect, got %s", d.Outcome)
	}
	if d.Target != "/login?returnTo=%2Fadmin%2Fusers" {
		t.Fatalf("target inesperado: %q", d.Target)
	}
}

func TestDecide_ReturnToIncluyeQueryString(t *testing.T) {
	d := Decide(nil, false, Requirement{}, "/admin/invoices?page=2&status=paid")
	want := "/login?returnTo=" + "%2Fadmin%2Finvoices%3Fpage%3D2%26status%3Dpaid"
	if d.Target != want {
		t.Fatalf("got %q, want %q", d.Target, want)
	}
}

func TestDecide_AnonimoPermitidoConEscapeHatch(t *testing.T) {
	d := Decide(nil, false, Requirement{AllowAnonymous: true}, "/c/juan")
	if d.Outcome != Allow {
		t.Fatalf("AllowAnonymous ⇒ Allow, got %s", d.Outcome)
	}
}

func TestDecide_SinVerificarVaALoginSinReturnTo(t *testing.T) {
	// Aunque rol y permisos alcanzaran, una identidad sin verificar se trata
	// como no autenticada, pero sin returnTo.
	u := &Subject{ID: "u1", Role: RoleAdmin, Verified: false}
	d := Decide(u, false, Requirement{AllowedRoles: []Role{RoleAdmin}}, "/admin/users")
	if d.Outcome != Redirect || d.Target != LoginPath {
		t.Fatalf("got %s → %q, want Redirect → %q", d.Outcome, d.Target, LoginPath)
	}
}

func TestDecide_RolInsuficiente(t *testing.T) {
	u := &Subject{ID: "u1", Role: RoleUser, Verified: true}
	d := Decide(u, false, Requirement{AllowedRoles: []Role{RoleAdmin}}, "/admin/users")
	if d.Outcome != Redirect || d.Target != DashboardPath {
		t.Fatalf("rol USER en ruta ADMIN ⇒ dashboard default, got %s → %q", d.Outcome, d.Target)
	}

	// Con RedirectTo configurado manda ahí.
	d = Decide(u, false, Requirement{AllowedRoles: []Role{RoleAdmin}, RedirectTo: "/inicio"}, "/admin/users")
	if d.Target != "/inicio" {
		t.Fatalf("RedirectTo configurado ignorado: %q", d.Target)
	}
}

func TestDecide_RolSuficienteRenderiza(t *testing.T) {
	d := Decide(admin(), false, Requirement{AllowedRoles: []Role{RoleAdmin}}, "/admin/users")
	if d.Outcome != Allow {
		t.Fatalf("ADMIN en ruta ADMIN ⇒ Allow, got %s", d.Outcome)
	}
}

func TestDecide_PermisosFaltantes(t *testing.T) {
	u := subadmin(PermUsersView)
	d := Decide(u, false, Requirement{RequiredPermissions: []Permission{PermUsersDelete}}, "/admin/users")
	if d.Outcome != Redirect || d.Target != DashboardPath {
		t.Fatalf("permiso faltante ⇒ redirect a dashboard, got %s → %q", d.Outcome, d.Target)
	}
}

func TestDecide_SubadminConGrantPasa(t *testing.T) {
	u := subadmin(PermAdminAccess, PermUsersView)
	req := Requirement{
		AllowedRoles:        []Role{RoleAdmin, RoleSubadmin},
		RequiredPermissions: []Permission{PermAdminAccess, PermUsersView},
	}
	if d := Decide(u, false, req, "/admin/users"); d.Outcome != Allow {
		t.Fatalf("subadmin con grants ⇒ Allow, got %s", d.Outcome)
	}

	// Mismo subadmin, ruta que exige otro permiso ⇒ dashboard.
	req.RequiredPermissions = []Permission{PermAdminAccess, PermUsersDelete}
	d := Decide(u, false, req, "/admin/users")
	if d.Outcome != Redirect || d.Target != DashboardPath {
		t.Fatalf("subadmin sin grant ⇒ dashboard, got %s → %q", d.Outcome, d.Target)
	}
}

func TestDecide_SinRestriccionesPermite(t *testing.T) {
	u := &Subject{ID: "u1", Role: RoleUser, Verified: true}
	if d := Decide(u, false, Requirement{}, "/v1/me"); d.Outcome != Allow {
		t.Fatalf("sin restricciones ⇒ Allow, got %s", d.Outcome)
	}
}
