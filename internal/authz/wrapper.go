package authz

// Gate es el wrapper inline (no navegacional): decide en render-time qué
// fragmento incluir según capacidades, sin tocar el routing.
//
// Lista vacía ⇒ content (la ausencia de requisito no es negación).
// Si falta algún permiso ⇒ fallback (zero value si el caller pasa el default).
// Asume sesión YA resuelta por un boundary ancestro: acá no hay estado de carga.
func Gate[T any](s *Subject, perms []Permission, content, fallback T) T {
	if CanAll(s, perms) {
		return content
	}
	return fallback
}

// GateOne es la conveniencia para un único permiso.
func GateOne[T any](s *Subject, perm Permission, content, fallback T) T {
	if perm == "" {
		return content
	}
	return Gate(s, []Permission{perm}, content, fallback)
}

// Allowed filtra una lista de permisos dejando solo los que el sujeto tiene.
// Útil para armar listas de acciones habilitadas en respuestas del admin API.
func Allowed(s *Subject, ps []Permission) []Permission {
	out := make([]Permission, 0, len(ps))
	for _, p := range ps {
		if Can(s, p) {
			out = append(out, p)
		}
	}
	return out
}
