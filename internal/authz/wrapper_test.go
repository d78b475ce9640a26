package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGate_SinRequisitoSiempreRenderiza(t *testing.T) {
	// Abierto por default: lista vacía renderiza el contenido, incluso anónimo.
	require.Equal(t, "boton", Gate(nil, nil, "boton", ""))
	require.Equal(t, "boton", Gate(subadmin(), []Permission{}, "boton", ""))
}

func TestGate_FallbackCuandoFaltaPermiso(t *testing.T) {
	u := subadmin(PermUsersView)
	require.Equal(t, "", Gate(u, []Permission{PermUsersDelete}, "boton", ""))
	require.Equal(t, "alt", Gate(u, []Permission{PermUsersDelete}, "boton", "alt"))
}

func TestGate_ContenidoConPermiso(t *testing.T) {
	u := subadmin(PermUsersView)
	require.Equal(t, "fila", Gate(u, []Permission{PermUsersView}, "fila", ""))
	// Admin pasa todo.
	require.Equal(t, "fila", Gate(admin(), []Permission{PermUsersDelete}, "fila", ""))
}

func TestGateOne(t *testing.T) {
	u := subadmin(PermCouponsView)
	require.Equal(t, 1, GateOne(u, PermCouponsView, 1, 0))
	require.Equal(t, 0, GateOne(u, PermCouponsManage, 1, 0))
	require.Equal(t, 1, GateOne(nil, "", 1, 0))
}

func TestAllowed(t *testing.T) {
	u := subadmin(PermUsersView, PermUsersDisable)
	got := Allowed(u, []Permission{PermUsersView, PermUsersEdit, PermUsersDisable})
	require.Equal(t, []Permission{PermUsersView, PermUsersDisable}, got)

	// Admin conserva la lista completa.
	all := []Permission{PermUsersView, PermUsersDelete}
	require.Equal(t, all, Allowed(admin(), all))
}
