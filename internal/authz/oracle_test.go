package authz

import "testing"

func admin() *Subject {
	return &Subject{ID: "a1", Role: RoleAdmin, Verified: true}
}

func subadmin(perms ...Permission) *Subject {
	return &Subject{ID: "s1", Role: RoleSubadmin, Permissions: perms, Verified: true}
}

func TestCan_AdminBypass(t *testing.T) {
	// Admin pasa cualquier permiso aunque su lista de grants esté vacía.
	u := admin()
	for _, p := range KnownPermissions() {
		if !Can(u, p) {
			t.Fatalf("admin no pasó %q", p)
		}
	}
	if !Can(u, Permission("no:existe")) {
		t.Fatal("admin debe pasar incluso tokens desconocidos")
	}
}

func TestCan_AdminBypassConRolSinNormalizar(t *testing.T) {
	// El rol llega crudo del backend; el oráculo normaliza en la lectura.
	u := &Subject{ID: "a2", Role: Role("admin"), Verified: true}
	if !Can(u, PermUsersDelete) {
		t.Fatal("rol 'admin' en minúsculas debe normalizar a ADMIN")
	}
}

func TestCan_Membership(t *testing.T) {
	u := subadmin(PermUsersView, PermCouponsView)
	if !Can(u, PermUsersView) {
		t.Fatal("permiso presente debe pasar")
	}
	if Can(u, PermUsersDelete) {
		t.Fatal("permiso ausente no debe pasar")
	}
	if Can(u, Permission("fantasma:x")) {
		t.Fatal("token desconocido evalúa a no-concedido para no-admins")
	}
}

func TestCan_EmptyPermissionAlwaysTrue(t *testing.T) {
	// Sin requisito ⇒ permitido, para cualquier sujeto (incluso nil).
	if !Can(nil, "") {
		t.Fatal("Can(nil, \"\") debe ser true")
	}
	if !Can(subadmin(), "") {
		t.Fatal("Can(user, \"\") debe ser true")
	}
}

func TestCan_NilSubject(t *testing.T) {
	if Can(nil, PermUsersView) {
		t.Fatal("sujeto nil solo pasa checks vacuos")
	}
}

func TestCanAll(t *testing.T) {
	u := subadmin(PermUsersView, PermUsersEdit)

	if !CanAll(nil, nil) {
		t.Fatal("CanAll vacío es vacuamente true, incluso con sujeto nil")
	}
	if !CanAll(u, []Permission{PermUsersView, PermUsersEdit}) {
		t.Fatal("ambos permisos presentes deben pasar")
	}
	if CanAll(u, []Permission{PermUsersView, PermUsersDelete}) {
		t.Fatal("basta un permiso ausente para negar")
	}
}

func TestHasRole(t *testing.T) {
	if !HasRole(nil, nil) {
		t.Fatal("conjunto vacío = sin restricción")
	}
	if HasRole(nil, []Role{RoleAdmin}) {
		t.Fatal("anónimo cuenta como USER")
	}
	if !HasRole(subadmin(), []Role{RoleAdmin, RoleSubadmin}) {
		t.Fatal("subadmin ∈ {ADMIN, SUBADMIN}")
	}
	// Roles del requirement también se normalizan.
	if !HasRole(admin(), []Role{Role("admin")}) {
		t.Fatal("el conjunto permitido se compara normalizado")
	}
}
