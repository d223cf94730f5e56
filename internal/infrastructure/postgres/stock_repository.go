package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-inventario/internal/domain"
	"github.com/tu-usuario/pos-inventario/internal/domain/entity"
	"github.com/tu-usuario/pos-inventario/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// List devuelve todos los productos ordenados por fecha de vencimiento.
func (r *StockRepo) List() ([]*entity.StockItem, error) {
	query := `
		SELECT product_id, name, quantity, price, cost, category, expiration
		FROM stock ORDER BY expiration NULLS LAST, product_id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockItem
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// GetByID obtiene un producto por ID. Nil si no existe.
func (r *StockRepo) GetByID(productID int64) (*entity.StockItem, error) {
	query := `
		SELECT product_id, name, quantity, price, cost, category, expiration
		FROM stock WHERE product_id = $1`
	item, err := scanStockItem(r.q.QueryRow(context.Background(), query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return item, nil
}

// Create inserta un producto y rellena ProductID.
func (r *StockRepo) Create(item *entity.StockItem) error {
	query := `
		INSERT INTO stock (name, quantity, price, cost, category, expiration)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING product_id`
	err := r.q.QueryRow(context.Background(), query,
		item.Name, item.Quantity, item.Price, item.Cost, item.Category, nullTime(item.Expiration),
	).Scan(&item.ProductID)
	if err != nil {
		return fmt.Errorf("insert stock item: %w", err)
	}
	return nil
}

// Update reemplaza todos los campos de un producto.
func (r *StockRepo) Update(item *entity.StockItem) error {
	query := `
		UPDATE stock
		SET name = $2, quantity = $3, price = $4, cost = $5, category = $6, expiration = $7
		WHERE product_id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ProductID, item.Name, item.Quantity, item.Price, item.Cost, item.Category, nullTime(item.Expiration),
	)
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.ProductNotFoundError{ProductID: item.ProductID}
	}
	return nil
}

// Delete elimina un producto por ID.
func (r *StockRepo) Delete(productID int64) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM stock WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.ProductNotFoundError{ProductID: productID}
	}
	return nil
}

// GetQuantityForUpdate bloquea la fila del producto (SELECT FOR UPDATE) y
// devuelve la cantidad actual. El bloqueo dura hasta el Commit/Rollback de la
// transacción: otra venta sobre el mismo producto espera aquí.
func (r *StockRepo) GetQuantityForUpdate(productID int64) (int64, error) {
	query := `SELECT quantity FROM stock WHERE product_id = $1 FOR UPDATE`
	var quantity int64
	err := r.q.QueryRow(context.Background(), query, productID).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &domain.ProductNotFoundError{ProductID: productID}
		}
		if isLockNotAvailable(err) {
			return 0, fmt.Errorf("lock stock row %d: %w", productID, domain.ErrBusy)
		}
		return 0, fmt.Errorf("get quantity for update: %w", err)
	}
	return quantity, nil
}

// DecrementQuantity descuenta unidades. Solo válido tras verificar la
// disponibilidad bajo el bloqueo de GetQuantityForUpdate.
func (r *StockRepo) DecrementQuantity(productID int64, amount int64) error {
	query := `UPDATE stock SET quantity = quantity - $1 WHERE product_id = $2`
	tag, err := r.q.Exec(context.Background(), query, amount, productID)
	if err != nil {
		return fmt.Errorf("decrement quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.ProductNotFoundError{ProductID: productID}
	}
	return nil
}

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var item entity.StockItem
	var expiration *time.Time
	err := row.Scan(
		&item.ProductID, &item.Name, &item.Quantity, &item.Price, &item.Cost,
		&item.Category, &expiration,
	)
	if err != nil {
		return nil, err
	}
	if expiration != nil {
		item.Expiration = *expiration
	}
	return &item, nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
