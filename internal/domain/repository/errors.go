package repository

import "errors"

var (
	// ErrNotFound: la entidad no existe.
	ErrNotFound = errors.New("repository: not found")

	// ErrConflict: violación de unicidad (email, slug, código de cupón).
	ErrConflict = errors.New("repository: conflict")

	// ErrInvalidTransition: la transición de estado pedida no está permitida
	// (ej: anular una factura ya pagada, shippear un pedido sin imprimir).
	ErrInvalidTransition = errors.New("repository: invalid state transition")
)
