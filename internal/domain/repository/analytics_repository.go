package repository

import "github.com/tu-usuario/pos-inventario/internal/domain/entity"

// AnalyticsRepository consultas de solo lectura para reportes de ventas.
type AnalyticsRepository interface {
	// SalesTotals devuelve el total y la fecha de cada venta registrada.
	SalesTotals() ([]*entity.SaleTotal, error)
	// BestSellers devuelve los productos con más unidades vendidas.
	BestSellers(limit int) ([]*entity.BestSeller, error)
}
