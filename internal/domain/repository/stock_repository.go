package repository

import "github.com/tu-usuario/pos-inventario/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar el inventario.
// GetQuantityForUpdate y DecrementQuantity se usan dentro de transacciones
// para garantizar consistencia (la cantidad nunca baja de cero).
type StockRepository interface {
	List() ([]*entity.StockItem, error)
	GetByID(productID int64) (*entity.StockItem, error)
	Create(item *entity.StockItem) error
	Update(item *entity.StockItem) error
	Delete(productID int64) error
	// GetQuantityForUpdate bloquea la fila del producto (SELECT FOR UPDATE)
	// y devuelve la cantidad actual. El bloqueo dura hasta el fin de la tx.
	GetQuantityForUpdate(productID int64) (int64, error)
	// DecrementQuantity descuenta unidades; solo válido tras verificar
	// disponibilidad bajo el bloqueo de GetQuantityForUpdate.
	DecrementQuantity(productID int64, amount int64) error
}
