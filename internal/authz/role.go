package authz

import "strings"

// Role es el rol grueso de un usuario. Vocabulario cerrado:
// USER (default), SUBADMIN (permisos por cuenta), ADMIN (todo).
type Role string

const (
	RoleUser     Role = "USER"
	RoleSubadmin Role = "SUBADMIN"
	RoleAdmin    Role = "ADMIN"
)

// Roles retorna el vocabulario completo de roles.
func Roles() []Role {
	return []Role{RoleUser, RoleSubadmin, RoleAdmin}
}

// ValidRole indica si el valor ya está en forma canónica.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleSubadmin, RoleAdmin:
		return true
	}
	return false
}

// NormalizeRole normaliza cualquier string a un Role canónico.
// Nunca falla: trim + case-fold contra los tres nombres conocidos,
// y todo lo demás (vacío, basura) degrada a USER.
//
// Regla de oro: un rol imparseable degrada a privilegio MÍNIMO,
// nunca a máximo. El código de autorización no lanza errores.
func NormalizeRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleSubadmin):
		return RoleSubadmin
	case string(RoleUser):
		return RoleUser
	}
	return RoleUser
}

// NormalizeRoleAny acepta valores arbitrarios ya decodificados de JSON/claims
// (nil, números, bools, strings). Cualquier cosa que no sea un string con un
// rol conocido degrada a USER.
func NormalizeRoleAny(v any) Role {
	s, _ := v.(string)
	return NormalizeRole(s)
}
