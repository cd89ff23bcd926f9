package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrUserNotFound            = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists      = errors.New("el email ya está registrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrConflict                = errors.New("conflicto con el estado actual")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrQuantityIncrease        = errors.New("la cantidad de un lote no puede aumentar")
	ErrSessionAlreadyOpen      = errors.New("ya existe una sesión de caja abierta")
	ErrSessionNotOpenOrCounted = errors.New("la sesión de caja ya está cerrada")
)
