package repository

import "github.com/tu-usuario/pos-inventario/internal/domain/entity"

// BillRepository define el puerto para el registro de ventas (append-only).
// CreateBill y AddLineItems deben ejecutarse en la misma transacción que las
// operaciones de stock de la venta.
type BillRepository interface {
	// CreateBill inserta la cabecera y rellena ID y CreatedAt.
	CreateBill(bill *entity.Bill) error
	// AddLineItems inserta las líneas de la venta en lote.
	AddLineItems(billID int64, lines []entity.BillLineItem) error

	GetByID(billID int64) (*entity.Bill, error)
	GetLineItems(billID int64) ([]*entity.BillLineDetail, error)
	ListWithLines() ([]*entity.BillWithLines, error)
}
