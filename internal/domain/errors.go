package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrUsernameExists     = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidCart        = errors.New("carrito inválido")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrBusy               = errors.New("recurso ocupado, reintente")
)

// InsufficientStockError indica qué producto no tiene existencias suficientes.
// errors.Is(err, ErrInsufficientStock) retorna true para este tipo.
type InsufficientStockError struct {
	ProductID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %d", e.ProductID)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ProductNotFoundError indica que el producto referenciado ya no existe.
// errors.Is(err, ErrNotFound) retorna true para este tipo.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("producto %d no encontrado", e.ProductID)
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
