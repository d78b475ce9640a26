// Package admin expone los controllers de la consola (/v1/admin). El route
// guard ya filtró rol y permisos antes de llegar acá.
package admin

import (
	svc "github.com/dropDatabas3/hellocard/internal/http/services/admin"
)

// Controller maneja los endpoints de /v1/admin.
type Controller struct {
	service svc.Service
}

func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}
