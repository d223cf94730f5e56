package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleTotal total de una venta con su fecha (reportes).
type SaleTotal struct {
	Total     decimal.Decimal
	CreatedAt time.Time
}

// BestSeller producto con más unidades vendidas según las líneas de venta.
type BestSeller struct {
	ProductID    int64
	Name         string
	QuantitySold int64
}
