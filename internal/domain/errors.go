package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrLockTimeout          = errors.New("espera de bloqueo agotada")
	ErrReferentialViolation = errors.New("referencia a dato maestro inexistente")
	ErrSequenceExhausted    = errors.New("secuencia de documentos agotada")
)
