package billing

import (
	"context"

	"github.com/tu-usuario/pos-inventario/internal/domain/entity"
	"github.com/tu-usuario/pos-inventario/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Commit si fn retorna nil, Rollback si retorna error.
// Garantiza atomicidad de la venta: factura, líneas y descuentos de stock
// existen todos o ninguno.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		billRepo repository.BillRepository,
	) error) error
}

// BillPDFGenerator genera la representación PDF de una venta (recibo).
type BillPDFGenerator interface {
	Generate(bill *entity.Bill, lines []*entity.BillLineDetail) ([]byte, error)
}
