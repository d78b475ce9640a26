// Package auth expone los controllers de autenticación.
package auth

import (
	svc "github.com/dropDatabas3/hellocard/internal/http/services/auth"
)

// Controller maneja los endpoints de /v1/auth.
type Controller struct {
	service svc.Service
}

func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}
