package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/pos-inventario/internal/domain/entity"
	"github.com/tu-usuario/pos-inventario/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para reportes (siempre sobre el pool).
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de reportes.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// SalesTotals devuelve total y fecha de cada venta.
func (r *AnalyticsRepo) SalesTotals() ([]*entity.SaleTotal, error) {
	query := `SELECT total, created_at FROM bill ORDER BY created_at`
	rows, err := r.pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list sales totals: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleTotal
	for rows.Next() {
		var t entity.SaleTotal
		if err := rows.Scan(&t.Total, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale total: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// BestSellers devuelve los productos con más unidades vendidas, agregando las
// líneas de venta. Solo productos que siguen existiendo en el inventario.
func (r *AnalyticsRepo) BestSellers(limit int) ([]*entity.BestSeller, error) {
	query := `
		SELECT bp.product_id, s.name, SUM(bp.quantity) AS quantity_sold
		FROM bill_products bp
		JOIN stock s ON bp.product_id = s.product_id
		GROUP BY bp.product_id, s.name
		ORDER BY quantity_sold DESC
		LIMIT $1`
	rows, err := r.pool.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("list best sellers: %w", err)
	}
	defer rows.Close()
	var list []*entity.BestSeller
	for rows.Next() {
		var s entity.BestSeller
		if err := rows.Scan(&s.ProductID, &s.Name, &s.QuantitySold); err != nil {
			return nil, fmt.Errorf("scan best seller: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
