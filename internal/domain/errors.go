package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrEmailAlreadyExists = errors.New("el correo ya está registrado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrUnauthorized       = errors.New("no autorizado")

	// Casos concretos de ErrForbidden.
	ErrPrincipalAccount = fmt.Errorf("%w: cuenta principal", ErrForbidden)
	ErrAdminRequired    = fmt.Errorf("%w: se requiere rol admin", ErrForbidden)
)
