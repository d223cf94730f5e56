package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-inventario/internal/domain/entity"
	"github.com/tu-usuario/pos-inventario/internal/domain/repository"
)

var _ repository.BillRepository = (*BillRepo)(nil)

// BillRepo implementación de BillRepository sobre PostgreSQL (usable con pool o tx).
type BillRepo struct {
	q Querier
}

// NewBillRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewBillRepository(q Querier) *BillRepo {
	return &BillRepo{q: q}
}

// CreateBill inserta la cabecera de la venta y rellena ID y CreatedAt.
func (r *BillRepo) CreateBill(bill *entity.Bill) error {
	query := `
		INSERT INTO bill (total, items_num)
		VALUES ($1, $2)
		RETURNING bill_id, created_at`
	err := r.q.QueryRow(context.Background(), query, bill.Total, bill.ItemsNum).
		Scan(&bill.ID, &bill.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

// AddLineItems inserta las líneas de la venta en un solo lote (pgx.Batch).
// Los inserts no dependen entre sí; el lote viaja en un único round-trip
// dentro de la misma transacción que la cabecera y los descuentos de stock.
func (r *BillRepo) AddLineItems(billID int64, lines []entity.BillLineItem) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(
			`INSERT INTO bill_products (bill_id, product_id, quantity) VALUES ($1, $2, $3)`,
			billID, line.ProductID, line.Quantity,
		)
	}
	results := r.q.SendBatch(context.Background(), batch)
	defer results.Close()
	for range lines {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert bill line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la cabecera de una venta. Nil si no existe.
func (r *BillRepo) GetByID(billID int64) (*entity.Bill, error) {
	query := `SELECT bill_id, total, items_num, created_at FROM bill WHERE bill_id = $1`
	var b entity.Bill
	err := r.q.QueryRow(context.Background(), query, billID).
		Scan(&b.ID, &b.Total, &b.ItemsNum, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return &b, nil
}

// GetLineItems obtiene las líneas de una venta con nombre y precio del producto.
// LEFT JOIN: el producto puede haber sido borrado después de la venta.
func (r *BillRepo) GetLineItems(billID int64) ([]*entity.BillLineDetail, error) {
	query := `
		SELECT bp.product_id, COALESCE(s.name, ''), COALESCE(s.price, 0), bp.quantity
		FROM bill_products bp
		LEFT JOIN stock s ON bp.product_id = s.product_id
		WHERE bp.bill_id = $1
		ORDER BY bp.product_id`
	rows, err := r.q.Query(context.Background(), query, billID)
	if err != nil {
		return nil, fmt.Errorf("list bill lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillLineDetail
	for rows.Next() {
		var d entity.BillLineDetail
		if err := rows.Scan(&d.ProductID, &d.ProductName, &d.Price, &d.Quantity); err != nil {
			return nil, fmt.Errorf("scan bill line: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// ListWithLines devuelve todas las ventas con sus líneas (una consulta con join,
// agrupada en memoria por bill_id).
func (r *BillRepo) ListWithLines() ([]*entity.BillWithLines, error) {
	query := `
		SELECT b.bill_id, b.total, b.items_num, b.created_at,
		       bp.product_id, COALESCE(s.name, ''), COALESCE(s.price, 0), COALESCE(bp.quantity, 0)
		FROM bill b
		LEFT JOIN bill_products bp ON b.bill_id = bp.bill_id
		LEFT JOIN stock s ON bp.product_id = s.product_id
		ORDER BY b.bill_id, bp.product_id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var list []*entity.BillWithLines
	byID := make(map[int64]*entity.BillWithLines)
	for rows.Next() {
		var b entity.Bill
		var productID *int64
		var d entity.BillLineDetail
		if err := rows.Scan(&b.ID, &b.Total, &b.ItemsNum, &b.CreatedAt,
			&productID, &d.ProductName, &d.Price, &d.Quantity); err != nil {
			return nil, fmt.Errorf("scan bill row: %w", err)
		}
		bw, ok := byID[b.ID]
		if !ok {
			bw = &entity.BillWithLines{Bill: b}
			byID[b.ID] = bw
			list = append(list, bw)
		}
		// productID nil: venta sin líneas (fila del LEFT JOIN sin match)
		if productID != nil {
			d.ProductID = *productID
			bw.Lines = append(bw.Lines, d)
		}
	}
	return list, rows.Err()
}
