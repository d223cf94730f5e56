package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill representa una venta completada. Inmutable una vez confirmada.
// ItemsNum es la suma de las cantidades de sus líneas.
type Bill struct {
	ID        int64
	Total     decimal.Decimal
	ItemsNum  int64
	CreatedAt time.Time
}

// BillLineItem es una línea de venta: referencia débil al producto
// (el producto puede borrarse después sin invalidar el historial).
type BillLineItem struct {
	BillID    int64
	ProductID int64
	Quantity  int64
}

// BillLineDetail línea de venta enriquecida con datos del producto (lecturas).
// ProductName y Price pueden venir vacíos si el producto fue borrado.
type BillLineDetail struct {
	ProductID   int64
	ProductName string
	Price       decimal.Decimal
	Quantity    int64
}

// BillWithLines cabecera de venta con sus líneas (lecturas/historial).
type BillWithLines struct {
	Bill  Bill
	Lines []BillLineDetail
}
