package dto

import "github.com/shopspring/decimal"

// CartLine una línea del carrito: producto y cantidad solicitada.
type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// CreateBillRequest carrito y total declarado por el cliente para una venta.
type CreateBillRequest struct {
	Total decimal.Decimal `json:"total"`
	Cart  []CartLine      `json:"cart"`
}

// BillResponse resultado de una venta confirmada.
type BillResponse struct {
	BillID   int64           `json:"bill_id"`
	Total    decimal.Decimal `json:"total"`
	ItemsNum int64           `json:"items_num"`
}

// BillLineResponse línea de venta con datos del producto.
type BillLineResponse struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
}

// BillWithLinesResponse venta con sus líneas (historial).
type BillWithLinesResponse struct {
	BillID    int64              `json:"bill_id"`
	Total     decimal.Decimal    `json:"total"`
	ItemsNum  int64              `json:"items_num"`
	CreatedAt string             `json:"created_at"` // DD-MM-YYYY
	Lines     []BillLineResponse `json:"lines"`
}
