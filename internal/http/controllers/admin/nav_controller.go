package admin

import (
	"net/http"

	"github.com/dropDatabas3/hellocard/internal/authz"
	"github.com/dropDatabas3/hellocard/internal/http/helpers"
	"github.com/dropDatabas3/hellocard/internal/http/middlewares"
)

// navSections mapea cada sección del sidebar de la consola al permiso que
// la habilita. El orden es el orden de render.
var navSections = []struct {
	Key  string
	Perm authz.Permission
}{
	{"users", authz.PermUsersView},
	{"invoices", authz.PermInvoicesView},
	{"coupons", authz.PermCouponsView},
	{"rewards", authz.PermRewardsView},
	{"orders", authz.PermOrdersView},
	{"subscriptions", authz.PermSubscriptionsView},
	{"admins", authz.PermAdminsCreate},
}

// Nav maneja GET /v1/admin/nav: devuelve las secciones visibles para el
// sujeto actual. El frontend arma el sidebar con esto en vez de duplicar
// el mapa de permisos.
func (c *Controller) Nav(w http.ResponseWriter, r *http.Request) {
	sub := middlewares.GetSubject(r.Context())

	perms := make([]authz.Permission, len(navSections))
	for i, s := range navSections {
		perms[i] = s.Perm
	}
	granted := make(map[authz.Permission]bool)
	for _, p := range authz.Allowed(sub, perms) {
		granted[p] = true
	}

	sections := make([]string, 0, len(navSections))
	for _, s := range navSections {
		if granted[s.Perm] {
			sections = append(sections, s.Key)
		}
	}
	helpers.WriteJSON(w, http.StatusOK, map[string][]string{"sections": sections})
}
