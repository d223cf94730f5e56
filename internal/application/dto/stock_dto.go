package dto

import "github.com/shopspring/decimal"

// CreateStockItemRequest alta de producto en inventario.
type CreateStockItemRequest struct {
	Name       string          `json:"name"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Cost       decimal.Decimal `json:"cost"`
	Category   string          `json:"category"`
	Expiration string          `json:"expiration"` // YYYY-MM-DD
}

// UpdateStockItemRequest actualización completa de un producto.
type UpdateStockItemRequest struct {
	Name       string          `json:"name"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Cost       decimal.Decimal `json:"cost"`
	Category   string          `json:"category"`
	Expiration string          `json:"expiration"` // YYYY-MM-DD
}

// StockItemResponse producto del inventario.
// Expiration se formatea DD-MM-YYYY (formato histórico de la API).
type StockItemResponse struct {
	ProductID  int64           `json:"product_id"`
	Name       string          `json:"name"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Cost       decimal.Decimal `json:"cost"`
	Category   string          `json:"category"`
	Expiration string          `json:"expiration"`
}
