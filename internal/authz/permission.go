package authz

// Permission es un token de capacidad de grano fino. El vocabulario es
// cerrado y se conoce en build time; los tokens desconocidos no se
// rechazan, simplemente nadie los tiene (salvo ADMIN, que pasa todo).
type Permission string

// Vocabulario de permisos del panel de administración.
// Mismo formato recurso:acción que los scopes ("users:view").
const (
	PermAdminAccess Permission = "admin:access"

	PermUsersView    Permission = "users:view"
	PermUsersEdit    Permission = "users:edit"
	PermUsersDelete  Permission = "users:delete"
	PermUsersDisable Permission = "users:disable"

	PermInvoicesView   Permission = "invoices:view"
	PermInvoicesVoid   Permission = "invoices:void"
	PermInvoicesDelete Permission = "invoices:delete"

	PermCouponsView   Permission = "coupons:view"
	PermCouponsManage Permission = "coupons:manage"

	PermRewardsView    Permission = "rewards:view"
	PermRewardsApprove Permission = "rewards:approve"

	PermOrdersView   Permission = "orders:view"
	PermOrdersUpdate Permission = "orders:update"

	PermSubscriptionsView   Permission = "subscriptions:view"
	PermSubscriptionsCancel Permission = "subscriptions:cancel"

	PermAdminsCreate Permission = "admins:create"
)

// known es el registro estático permiso → descripción corta.
// La descripción se expone en el admin API para armar formularios de grants.
var known = map[Permission]string{
	PermAdminAccess:         "acceso al área de administración",
	PermUsersView:           "ver usuarios",
	PermUsersEdit:           "editar usuarios",
	PermUsersDelete:         "eliminar usuarios",
	PermUsersDisable:        "deshabilitar/habilitar usuarios",
	PermInvoicesView:        "ver facturas",
	PermInvoicesVoid:        "anular facturas",
	PermInvoicesDelete:      "eliminar facturas",
	PermCouponsView:         "ver cupones",
	PermCouponsManage:       "crear/editar/borrar cupones",
	PermRewardsView:         "ver recompensas",
	PermRewardsApprove:      "aprobar/rechazar recompensas",
	PermOrdersView:          "ver pedidos de tarjetas NFC",
	PermOrdersUpdate:        "avanzar estado de pedidos NFC",
	PermSubscriptionsView:   "ver suscripciones",
	PermSubscriptionsCancel: "cancelar suscripciones",
	PermAdminsCreate:        "crear cuentas admin",
}

// IsKnown indica si el token pertenece al vocabulario.
func IsKnown(p Permission) bool {
	_, ok := known[p]
	return ok
}

// Describe retorna la descripción corta de un permiso conocido ("" si no lo es).
func Describe(p Permission) string {
	return known[p]
}

// KnownPermissions retorna el vocabulario completo en orden estable.
func KnownPermissions() []Permission {
	out := []Permission{
		PermAdminAccess,
		PermUsersView, PermUsersEdit, PermUsersDelete, PermUsersDisable,
		PermInvoicesView, PermInvoicesVoid, PermInvoicesDelete,
		PermCouponsView, PermCouponsManage,
		PermRewardsView, PermRewardsApprove,
		PermOrdersView, PermOrdersUpdate,
		PermSubscriptionsView, PermSubscriptionsCancel,
		PermAdminsCreate,
	}
	return out
}
