package dto

import "github.com/shopspring/decimal"

// SaleTotalResponse total de una venta con su fecha (DD-MM-YYYY).
type SaleTotalResponse struct {
	Total     decimal.Decimal `json:"total"`
	CreatedAt string          `json:"created_at"`
}

// BestSellerResponse producto con más unidades vendidas.
type BestSellerResponse struct {
	ProductID    int64  `json:"product_id"`
	Name         string `json:"name"`
	QuantitySold int64  `json:"quantity_sold"`
}
