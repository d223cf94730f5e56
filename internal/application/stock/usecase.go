package stock

import (
	"time"

	"github.com/tu-usuario/pos-inventario/internal/application/dto"
	"github.com/tu-usuario/pos-inventario/internal/domain"
	"github.com/tu-usuario/pos-inventario/internal/domain/entity"
	"github.com/tu-usuario/pos-inventario/internal/domain/repository"
)

// Formatos de fecha: entrada ISO, salida DD-MM-YYYY (formato histórico de la API).
const (
	inputDateLayout  = "2006-01-02"
	outputDateLayout = "02-01-2006"
)

// UseCase CRUD de productos del inventario.
// El descuento por venta NO pasa por aquí: solo por el caso de uso de facturación,
// dentro de una transacción con bloqueo de fila.
type UseCase struct {
	stockRepo repository.StockRepository
}

// NewUseCase construye el caso de uso de inventario.
func NewUseCase(stockRepo repository.StockRepository) *UseCase {
	return &UseCase{stockRepo: stockRepo}
}

// List devuelve todos los productos ordenados por fecha de vencimiento.
func (uc *UseCase) List() ([]dto.StockItemResponse, error) {
	items, err := uc.stockRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	return out, nil
}

// GetByID devuelve un producto por ID. Nil si no existe.
func (uc *UseCase) GetByID(productID int64) (*dto.StockItemResponse, error) {
	item, err := uc.stockRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	resp := toResponse(item)
	return &resp, nil
}

// Create da de alta un producto. La cantidad inicial no puede ser negativa.
func (uc *UseCase) Create(in dto.CreateStockItemRequest) (*dto.StockItemResponse, error) {
	if in.Name == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	expiration, err := parseExpiration(in.Expiration)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	item := &entity.StockItem{
		Name:       in.Name,
		Quantity:   in.Quantity,
		Price:      in.Price,
		Cost:       in.Cost,
		Category:   in.Category,
		Expiration: expiration,
	}
	if err := uc.stockRepo.Create(item); err != nil {
		return nil, err
	}
	resp := toResponse(item)
	return &resp, nil
}

// Update reemplaza todos los campos de un producto existente.
func (uc *UseCase) Update(productID int64, in dto.UpdateStockItemRequest) (*dto.StockItemResponse, error) {
	if in.Name == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	expiration, err := parseExpiration(in.Expiration)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.stockRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	item := &entity.StockItem{
		ProductID:  productID,
		Name:       in.Name,
		Quantity:   in.Quantity,
		Price:      in.Price,
		Cost:       in.Cost,
		Category:   in.Category,
		Expiration: expiration,
	}
	if err := uc.stockRepo.Update(item); err != nil {
		return nil, err
	}
	resp := toResponse(item)
	return &resp, nil
}

// Delete elimina un producto. El historial de ventas no se toca (referencia débil).
func (uc *UseCase) Delete(productID int64) error {
	return uc.stockRepo.Delete(productID)
}

func parseExpiration(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(inputDateLayout, s)
}

func toResponse(item *entity.StockItem) dto.StockItemResponse {
	expiration := ""
	if !item.Expiration.IsZero() {
		expiration = item.Expiration.Format(outputDateLayout)
	}
	return dto.StockItemResponse{
		ProductID:  item.ProductID,
		Name:       item.Name,
		Quantity:   item.Quantity,
		Price:      item.Price,
		Cost:       item.Cost,
		Category:   item.Category,
		Expiration: expiration,
	}
}
