// Package authz implementa el núcleo de autorización: roles, permisos,
// el oráculo Can/CanAll y la decisión pura del route guard.
//
// Todo acá es puro y tolerante a nil: un guard que lanza pánico tumba la
// vista completa en vez de negar acceso, así que nada en este paquete
// retorna error ni panickea por datos malos.
package authz

// Subject es el snapshot de sesión relevante para autorización.
// Lo arma el session provider después de autenticar; este paquete solo lo lee.
type Subject struct {
	ID          string
	Role        Role
	Permissions []Permission
	Verified    bool
}

// IsAdmin indica si el rol normalizado del sujeto es ADMIN.
// Tolera s == nil (anónimo ⇒ USER).
func (s *Subject) IsAdmin() bool {
	if s == nil {
		return false
	}
	return NormalizeRole(string(s.Role)) == RoleAdmin
}

// Can responde "¿puede este sujeto hacer p?".
//
// Reglas, en orden:
//  1. p vacío ⇒ true (sin requisito no hay negación).
//  2. rol ADMIN ⇒ true incondicional (ignora la lista de grants).
//  3. membership exacta en s.Permissions.
//
// s == nil se trata como USER sin permisos: solo pasan los checks vacuos.
func Can(s *Subject, p Permission) bool {
	if p == "" {
		return true
	}
	if s == nil {
		return false
	}
	if s.IsAdmin() {
		return true
	}
	for _, have := range s.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

// CanAll es la conjunción de Can sobre la lista: vacuamente true con lista vacía.
func CanAll(s *Subject, ps []Permission) bool {
	for _, p := range ps {
		if !Can(s, p) {
			return false
		}
	}
	return true
}

// HasRole indica si el rol normalizado del sujeto está en el conjunto dado.
// Conjunto vacío ⇒ true (sin restricción de rol).
func HasRole(s *Subject, allowed []Role) bool {
	if len(allowed) == 0 {
		return true
	}
	var r Role = RoleUser
	if s != nil {
		r = NormalizeRole(string(s.Role))
	}
	for _, a := range allowed {
		if NormalizeRole(string(a)) == r {
			return true
		}
	}
	return false
}
