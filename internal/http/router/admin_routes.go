package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hellocard/internal/authz"
	mw "github.com/dropDatabas3/hellocard/internal/http/middlewares"
)

// adminReq compone el requisito de un recurso de la consola: rol ADMIN o
// SUBADMIN, entrada a la consola, más los permisos del recurso. Un
// SUBADMIN sin el grant rebota a /admin (no al dashboard general): ya está
// dentro de la consola, solo le falta esa sección.
func adminReq(perms ...authz.Permission) authz.Requirement {
	return authz.Requirement{
		AllowedRoles:        []authz.Role{authz.RoleAdmin, authz.RoleSubadmin},
		RequiredPermissions: append([]authz.Permission{authz.PermAdminAccess}, perms...),
		RedirectTo:          "/admin",
	}
}

// registerAdminRoutes declara /v1/admin. Cada subrecurso lleva su propio
// guard con los permisos del registro.
func registerAdminRoutes(root chi.Router, d Deps) {
	root.Route("/v1/admin", func(r chi.Router) {
		// sidebar de la consola: solo pide la entrada, cada sección se
		// filtra por capacidad en la respuesta
		r.Group(func(r chi.Router) {
			r.Use(mw.RouteGuard(requirement("/v1/admin/nav", adminReq())))
			r.Get("/nav", d.Admin.Nav)
		})

		// usuarios
		r.Group(func(r chi.Router) {
			r.Use(mw.RouteGuard(requirement("/v1/admin/users", adminReq(authz.PermUsersView))))
			r.Get("/users", d.Admin.ListUsers)
		})
		r.Group(func(r chi.Router) {
			r.Use(mw.RouteGuard(requirement("/v1/admin/users/{id}/status", adminReq(authz.PermUsersDisable))))
			r.Put("/users/{id}/status", d.Admin.SetUserStatus)
		})
		r.Group(func(r chi.Router) {
			r.Use(mw.RouteGuard(requirement("/v1/admin/users/{id}/grants", adminReq(authz.PermUsersEdit))))
			r.Put("/users/{id}/grants", d.Admin.UpdateUserGrants)
		})
		r.Group(func(r chi.Router) {
			r.Use(mw.RouteGuard(requirement("/v1/admin/admins", adminReq(authz.PermAdminsCreate))))
			r.Post("/admins", d.Admin.CreateAdmin)
		})

		// facturación
		r.Group(func(r chi.Router) {
			r.Use(mw.RouteGuard(requirement("/v1/admin/invoices", adminReq(authz.PermInvoicesView))))
			r.Get("/invoices", d.Admin.ListInvoices)
		})
		r.Group(func(r chi.Router) {
			r.Use(mw.RouteGuard(requirement("/v1/admin/invoices/{id}/void", adminReq(authz.PermInvoicesVoid))))
			r.Post("/invoices/{id}/void", d.Admin.VoidInvoice)
		})
		r.Group(func(r chi.Router) {
			r.Use(mw.RouteGuard(requirement("/v1/admin/invoices/{id}", adminReq(authz.PermInvoicesDelete))))
			r.Delete("/invoices/{id}", d.Admin.DeleteInvoice)
		})

		// cupones
		r.Group(func(r chi.Router) {
			r.Use(mw.RouteGuard(requirement("/v1/admin/coupons", adminReq(authz.PermCouponsView))))
			r.Get("/coupons", d.Admin.ListCoupons)
		})
		r.Group(func(r chi.Router) {
			r.Use(mw.RouteGuard(requirement("/v1/admin/coupons", adminReq(authz.PermCouponsManage))))
			r.Post("/coupons", d.Admin.CreateCoupon)
			r.Put("/coupons/{id}", d.Admin.UpdateCoupon)
			r.Delete("/coupons/{id}", d.Admin.DeleteCoupon)
		})

		// recompensas
		r.Group(func(r chi.Router) {
			r.Use(mw.RouteGuard(requirement("/v1/admin/rewards", adminReq(authz.PermRewardsView))))
			r.Get("/rewards", d.Admin.ListRewards)
		})
		r.Group(func(r chi.Router) {
			r.Use(mw.RouteGuard(requirement("/v1/admin/rewards/{id}/resolve", adminReq(authz.PermRewardsApprove))))
			r.Post("/rewards/{id}/resolve", d.Admin.ResolveReward)
		})

		// pedidos NFC
		r.Group(func(r chi.Router) {
			r.Use(mw.RouteGuard(requirement("/v1/admin/orders", adminReq(authz.PermOrdersView))))
			r.Get("/orders", d.Admin.ListOrders)
		})
		r.Group(func(r chi.Router) {
			r.Use(mw.RouteGuard(requirement("/v1/admin/orders/{id}/advance", adminReq(authz.PermOrdersUpdate))))
			r.Post("/orders/{id}/advance", d.Admin.AdvanceOrder)
		})

		// suscripciones
		r.Group(func(r chi.Router) {
			r.Use(mw.RouteGuard(requirement("/v1/admin/subscriptions", adminReq(authz.PermSubscriptionsView))))
			r.Get("/subscriptions", d.Admin.ListSubscriptions)
		})
		r.Group(func(r chi.Router) {
			r.Use(mw.RouteGuard(requirement("/v1/admin/subscriptions/{id}/cancel", adminReq(authz.PermSubscriptionsCancel))))
			r.Post("/subscriptions/{id}/cancel", d.Admin.CancelSubscription)
		})
	})
}
