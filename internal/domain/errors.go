package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrUnitNotAvailable   = errors.New("unidad no disponible para entrega")
	ErrSerialityMismatch  = errors.New("modo de seriado no coincide con el producto")
	ErrRequestNotPending  = errors.New("la solicitud ya no está en estado pendiente")
	ErrRequestNotApproved = errors.New("la solicitud no está aprobada")
)
