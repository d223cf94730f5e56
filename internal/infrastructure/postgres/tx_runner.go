package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/pos-inventario/internal/application/billing"
	"github.com/tu-usuario/pos-inventario/internal/domain/repository"
)

var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunBilling inicia una transacción, ejecuta fn con repos de stock y ventas
// atados a la tx y hace Commit o Rollback. El Rollback diferido cubre todos
// los caminos de salida, incluido el pánico.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	billRepo repository.BillRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stockRepo := NewStockRepository(tx)
	billRepo := NewBillRepository(tx)

	if err := fn(stockRepo, billRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
