package billing

import (
	"context"

	"github.com/tu-usuario/pos-inventario/internal/domain"
	"github.com/tu-usuario/pos-inventario/internal/domain/repository"
)

// PDFUseCase genera el recibo PDF de una venta.
type PDFUseCase struct {
	billRepo  repository.BillRepository
	generator BillPDFGenerator
}

// NewPDFUseCase construye el caso de uso de recibos.
func NewPDFUseCase(billRepo repository.BillRepository, generator BillPDFGenerator) *PDFUseCase {
	return &PDFUseCase{billRepo: billRepo, generator: generator}
}

// GetBillPDF carga la venta y sus líneas y devuelve el PDF renderizado.
func (uc *PDFUseCase) GetBillPDF(ctx context.Context, billID int64) ([]byte, error) {
	bill, err := uc.billRepo.GetByID(billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.billRepo.GetLineItems(billID)
	if err != nil {
		return nil, err
	}
	return uc.generator.Generate(bill, lines)
}
