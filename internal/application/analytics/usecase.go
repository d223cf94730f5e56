package analytics

import (
	"github.com/tu-usuario/pos-inventario/internal/application/dto"
	"github.com/tu-usuario/pos-inventario/internal/domain/repository"
)

const dateLayout = "02-01-2006"

// UseCase reportes de ventas: totales por venta y productos más vendidos.
type UseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(analyticsRepo repository.AnalyticsRepository) *UseCase {
	return &UseCase{analyticsRepo: analyticsRepo}
}

// SalesSummary devuelve total y fecha de cada venta registrada.
func (uc *UseCase) SalesSummary() ([]dto.SaleTotalResponse, error) {
	totals, err := uc.analyticsRepo.SalesTotals()
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleTotalResponse, 0, len(totals))
	for _, t := range totals {
		out = append(out, dto.SaleTotalResponse{
			Total:     t.Total,
			CreatedAt: t.CreatedAt.Format(dateLayout),
		})
	}
	return out, nil
}

// BestSellers devuelve los productos con más unidades vendidas según las
// líneas de venta registradas.
func (uc *UseCase) BestSellers(limit int) ([]dto.BestSellerResponse, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}
	sellers, err := uc.analyticsRepo.BestSellers(limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BestSellerResponse, 0, len(sellers))
	for _, s := range sellers {
		out = append(out, dto.BestSellerResponse{
			ProductID:    s.ProductID,
			Name:         s.Name,
			QuantitySold: s.QuantitySold,
		})
	}
	return out, nil
}
