package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrValidation      = errors.New("faltan campos obligatorios para el EDI")
	ErrPartnerNotFound = errors.New("socio comercial no encontrado")
	ErrUOMNotFound     = errors.New("no se pudo asignar UoM: no existe la unidad Units")
)
