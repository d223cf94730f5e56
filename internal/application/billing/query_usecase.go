package billing

import (
	"context"

	"github.com/tu-usuario/pos-inventario/internal/application/dto"
	"github.com/tu-usuario/pos-inventario/internal/domain"
	"github.com/tu-usuario/pos-inventario/internal/domain/entity"
	"github.com/tu-usuario/pos-inventario/internal/domain/repository"
)

// dateLayout formato histórico de fechas de la API (DD-MM-YYYY).
const dateLayout = "02-01-2006"

// BillQueryUseCase lecturas del historial de ventas.
type BillQueryUseCase struct {
	billRepo repository.BillRepository
}

// NewBillQueryUseCase construye el caso de uso de consultas.
func NewBillQueryUseCase(billRepo repository.BillRepository) *BillQueryUseCase {
	return &BillQueryUseCase{billRepo: billRepo}
}

// ListBills devuelve todas las ventas con sus líneas y datos de producto.
func (uc *BillQueryUseCase) ListBills(ctx context.Context) ([]dto.BillWithLinesResponse, error) {
	bills, err := uc.billRepo.ListWithLines()
	if err != nil {
		return nil, err
	}
	out := make([]dto.BillWithLinesResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, toBillWithLinesResponse(b))
	}
	return out, nil
}

// GetBill devuelve una venta por ID con sus líneas.
func (uc *BillQueryUseCase) GetBill(ctx context.Context, billID int64) (*dto.BillWithLinesResponse, error) {
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
	details := make([]entity.BillLineDetail, 0, len(lines))
	for _, l := range lines {
		details = append(details, *l)
	}
	resp := toBillWithLinesResponse(&entity.BillWithLines{Bill: *bill, Lines: details})
	return &resp, nil
}

func toBillWithLinesResponse(b *entity.BillWithLines) dto.BillWithLinesResponse {
	resp := dto.BillWithLinesResponse{
		BillID:    b.Bill.ID,
		Total:     b.Bill.Total,
		ItemsNum:  b.Bill.ItemsNum,
		CreatedAt: b.Bill.CreatedAt.Format(dateLayout),
		Lines:     make([]dto.BillLineResponse, 0, len(b.Lines)),
	}
	for _, l := range b.Lines {
		resp.Lines = append(resp.Lines, dto.BillLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Price:       l.Price,
			Quantity:    l.Quantity,
		})
	}
	return resp
}
