package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem representa un producto del inventario con su cantidad disponible.
// Quantity nunca es negativa: la única mutación fuera del CRUD es el descuento
// por venta dentro de una transacción con bloqueo de fila.
type StockItem struct {
	ProductID  int64
	Name       string
	Quantity   int64
	Price      decimal.Decimal // precio de venta unitario
	Cost       decimal.Decimal
	Category   string
	Expiration time.Time
}
