package billing

import (
	"context"
	"sort"

	"github.com/tu-usuario/pos-inventario/internal/application/dto"
	"github.com/tu-usuario/pos-inventario/internal/domain"
	"github.com/tu-usuario/pos-inventario/internal/domain/entity"
	"github.com/tu-usuario/pos-inventario/internal/domain/repository"
)

// CreateBillUseCase registra una venta: valida el carrito, descuenta el stock
// con bloqueo de fila (SELECT FOR UPDATE) y persiste factura y líneas en una
// sola transacción con Commit/Rollback.
type CreateBillUseCase struct {
	txRunner BillingTxRunner
}

// NewCreateBillUseCase construye el caso de uso.
func NewCreateBillUseCase(txRunner BillingTxRunner) *CreateBillUseCase {
	return &CreateBillUseCase{txRunner: txRunner}
}

// CreateBill procesa una venta completa.
//
// Rechaza el carrito antes de abrir transacción si está vacío o tiene líneas
// con cantidad no positiva. Dentro de la transacción: inserta la cabecera con
// el total declarado por el cliente (comportamiento histórico de la API: el
// total no se recalcula), bloquea y verifica cada producto, descuenta y por
// último inserta las líneas en lote. Cualquier fallo revierte todo.
//
// Las líneas se procesan en orden ascendente de product_id: orden fijo de
// adquisición de bloqueos para que dos ventas concurrentes que comparten
// productos no puedan interbloquearse.
func (uc *CreateBillUseCase) CreateBill(ctx context.Context, in dto.CreateBillRequest) (*dto.BillResponse, error) {
	if len(in.Cart) == 0 {
		return nil, domain.ErrInvalidCart
	}
	for _, line := range in.Cart {
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidCart
		}
	}

	lines := make([]dto.CartLine, len(in.Cart))
	copy(lines, in.Cart)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	var itemsNum int64
	for _, line := range lines {
		itemsNum += line.Quantity
	}

	bill := &entity.Bill{Total: in.Total, ItemsNum: itemsNum}

	err := uc.txRunner.RunBilling(ctx, func(
		stockRepo repository.StockRepository,
		billRepo repository.BillRepository,
	) error {
		if err := billRepo.CreateBill(bill); err != nil {
			return err
		}

		for _, line := range lines {
			available, err := stockRepo.GetQuantityForUpdate(line.ProductID)
			if err != nil {
				return err
			}
			if available < line.Quantity {
				return &domain.InsufficientStockError{ProductID: line.ProductID}
			}
			if err := stockRepo.DecrementQuantity(line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		items := make([]entity.BillLineItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, entity.BillLineItem{
				BillID:    bill.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}
		return billRepo.AddLineItems(bill.ID, items)
	})
	if err != nil {
		return nil, err
	}

	return &dto.BillResponse{BillID: bill.ID, Total: bill.Total, ItemsNum: bill.ItemsNum}, nil
}
