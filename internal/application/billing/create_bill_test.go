package billing_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-inventario/internal/application/billing"
	"github.com/tu-usuario/pos-inventario/internal/application/dto"
	"github.com/tu-usuario/pos-inventario/internal/domain"
	"github.com/tu-usuario/pos-inventario/internal/domain/entity"
	"github.com/tu-usuario/pos-inventario/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Store en memoria con semántica real de transacción: bloqueo por fila
// (sync.Mutex por producto, retenido hasta Commit/Rollback), escrituras en
// buffer que solo se aplican al confirmar, y descarte total al revertir.
// Permite probar el coordinador de ventas sin PostgreSQL, incluyendo las
// carreras entre ventas concurrentes.
// ──────────────────────────────────────────────────────────────────────────────

type fakeRow struct {
	mu       sync.Mutex // bloqueo de fila; se mantiene hasta el fin de la tx
	quantity int64
}

type fakeStore struct {
	mu        sync.Mutex
	rows      map[int64]*fakeRow
	bills     []*entity.Bill
	lines     map[int64][]entity.BillLineItem
	nextBill  int64
	lockOrder []int64 // orden global de adquisición de bloqueos
	begins    int

	failAddLines bool // simula fallo de escritura en las líneas
}

func newFakeStore(seed map[int64]int64) *fakeStore {
	s := &fakeStore{
		rows:  make(map[int64]*fakeRow),
		lines: make(map[int64][]entity.BillLineItem),
	}
	for id, qty := range seed {
		s.rows[id] = &fakeRow{quantity: qty}
	}
	return s
}

func (s *fakeStore) quantity(t *testing.T, productID int64) int64 {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[productID]
	require.True(t, ok, "producto %d no existe en el store", productID)
	return row.quantity
}

func (s *fakeStore) billCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bills)
}

// fakeTx acumula los efectos de una venta hasta Commit/Rollback.
type fakeTx struct {
	store   *fakeStore
	locked  map[int64]*fakeRow
	pending map[int64]int64 // descuentos aún no aplicados
	bill    *entity.Bill
	items   []entity.BillLineItem
}

func (t *fakeTx) commit() {
	for id, dec := range t.pending {
		t.locked[id].quantity -= dec
	}
	t.store.mu.Lock()
	if t.bill != nil {
		b := *t.bill
		t.store.bills = append(t.store.bills, &b)
		t.store.lines[b.ID] = append([]entity.BillLineItem(nil), t.items...)
	}
	t.store.mu.Unlock()
	for _, row := range t.locked {
		row.mu.Unlock()
	}
}

func (t *fakeTx) rollback() {
	for _, row := range t.locked {
		row.mu.Unlock()
	}
}

type fakeTxRunner struct {
	store *fakeStore
}

func (r *fakeTxRunner) RunBilling(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	billRepo repository.BillRepository,
) error) error {
	r.store.mu.Lock()
	r.store.begins++
	r.store.mu.Unlock()

	tx := &fakeTx{
		store:   r.store,
		locked:  make(map[int64]*fakeRow),
		pending: make(map[int64]int64),
	}
	if err := fn(&fakeStockRepo{tx: tx}, &fakeBillRepo{tx: tx}); err != nil {
		tx.rollback()
		return err
	}
	tx.commit()
	return nil
}

// fakeStockRepo implementa el puerto de stock sobre fakeTx.
type fakeStockRepo struct {
	tx *fakeTx
}

func (r *fakeStockRepo) GetQuantityForUpdate(productID int64) (int64, error) {
	s := r.tx.store
	s.mu.Lock()
	row, ok := s.rows[productID]
	s.mu.Unlock()
	if !ok {
		return 0, &domain.ProductNotFoundError{ProductID: productID}
	}
	if _, already := r.tx.locked[productID]; !already {
		row.mu.Lock() // bloquea hasta commit/rollback, igual que SELECT FOR UPDATE
		r.tx.locked[productID] = row
		s.mu.Lock()
		s.lockOrder = append(s.lockOrder, productID)
		s.mu.Unlock()
	}
	// La propia tx ve sus descuentos pendientes (lectura fresca bajo el bloqueo)
	return row.quantity - r.tx.pending[productID], nil
}

func (r *fakeStockRepo) DecrementQuantity(productID int64, amount int64) error {
	if _, ok := r.tx.locked[productID]; !ok {
		return fmt.Errorf("decremento sin bloqueo de fila para producto %d", productID)
	}
	r.tx.pending[productID] += amount
	return nil
}

func (r *fakeStockRepo) List() ([]*entity.StockItem, error)       { return nil, nil }
func (r *fakeStockRepo) GetByID(int64) (*entity.StockItem, error) { return nil, nil }
func (r *fakeStockRepo) Create(*entity.StockItem) error           { return nil }
func (r *fakeStockRepo) Update(*entity.StockItem) error           { return nil }
func (r *fakeStockRepo) Delete(int64) error                       { return nil }

// fakeBillRepo implementa el puerto de ventas sobre fakeTx.
type fakeBillRepo struct {
	tx *fakeTx
}

func (r *fakeBillRepo) CreateBill(bill *entity.Bill) error {
	s := r.tx.store
	s.mu.Lock()
	s.nextBill++
	bill.ID = s.nextBill
	s.mu.Unlock()
	bill.CreatedAt = time.Now()
	r.tx.bill = bill
	return nil
}

func (r *fakeBillRepo) AddLineItems(billID int64, lines []entity.BillLineItem) error {
	if r.tx.store.failAddLines {
		return errors.New("fallo simulado de escritura")
	}
	r.tx.items = append(r.tx.items, lines...)
	return nil
}

func (r *fakeBillRepo) GetByID(int64) (*entity.Bill, error)                  { return nil, nil }
func (r *fakeBillRepo) GetLineItems(int64) ([]*entity.BillLineDetail, error) { return nil, nil }
func (r *fakeBillRepo) ListWithLines() ([]*entity.BillWithLines, error)      { return nil, nil }

func newUseCase(store *fakeStore) *billing.CreateBillUseCase {
	return billing.NewCreateBillUseCase(&fakeTxRunner{store: store})
}

func cart(lines ...dto.CartLine) []dto.CartLine { return lines }

// ── Validación previa (sin abrir transacción) ────────────────────────────────

func TestCreateBill_CarritoVacio(t *testing.T) {
	store := newFakeStore(map[int64]int64{1: 5})
	uc := newUseCase(store)

	_, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		Total: decimal.NewFromInt(10),
		Cart:  nil,
	})

	require.ErrorIs(t, err, domain.ErrInvalidCart)
	assert.Equal(t, 0, store.begins, "no debe abrirse transacción con carrito vacío")
	assert.EqualValues(t, 5, store.quantity(t, 1))
}

func TestCreateBill_CantidadNoPositiva(t *testing.T) {
	store := newFakeStore(map[int64]int64{1: 5})
	uc := newUseCase(store)

	for _, qty := range []int64{0, -3} {
		_, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
			Total: decimal.NewFromInt(10),
			Cart:  cart(dto.CartLine{ProductID: 1, Quantity: qty}),
		})
		require.ErrorIs(t, err, domain.ErrInvalidCart, "cantidad %d debe rechazarse", qty)
	}
	assert.Equal(t, 0, store.begins)
}

// ── Escenarios de venta ──────────────────────────────────────────────────────

func TestCreateBill_VentaExitosa(t *testing.T) {
	store := newFakeStore(map[int64]int64{1: 5})
	uc := newUseCase(store)

	out, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		Total: decimal.NewFromInt(30),
		Cart:  cart(dto.CartLine{ProductID: 1, Quantity: 3}),
	})

	require.NoError(t, err)
	assert.Positive(t, out.BillID)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(30)))
	assert.EqualValues(t, 3, out.ItemsNum)
	assert.EqualValues(t, 2, store.quantity(t, 1))

	// La suma de las líneas coincide con items_num
	var sum int64
	for _, line := range store.lines[out.BillID] {
		sum += line.Quantity
	}
	assert.EqualValues(t, out.ItemsNum, sum)
}

func TestCreateBill_StockInsuficiente(t *testing.T) {
	store := newFakeStore(map[int64]int64{1: 2})
	uc := newUseCase(store)

	_, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		Total: decimal.NewFromInt(30),
		Cart:  cart(dto.CartLine{ProductID: 1, Quantity: 3}),
	})

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.EqualValues(t, 1, insufficient.ProductID)

	assert.EqualValues(t, 2, store.quantity(t, 1), "la cantidad no debe cambiar")
	assert.Equal(t, 0, store.billCount(), "no debe crearse factura")
}

func TestCreateBill_RollbackTotal(t *testing.T) {
	// El producto 1 pasa su verificación; el 2 falla. Todo debe revertirse.
	store := newFakeStore(map[int64]int64{1: 5, 2: 0})
	uc := newUseCase(store)

	_, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		Total: decimal.NewFromInt(50),
		Cart: cart(
			dto.CartLine{ProductID: 1, Quantity: 2},
			dto.CartLine{ProductID: 2, Quantity: 1},
		),
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.EqualValues(t, 2, insufficient.ProductID)

	assert.EqualValues(t, 5, store.quantity(t, 1), "el descuento del producto 1 debe revertirse")
	assert.EqualValues(t, 0, store.quantity(t, 2))
	assert.Equal(t, 0, store.billCount())
}

func TestCreateBill_ProductoInexistente(t *testing.T) {
	store := newFakeStore(map[int64]int64{1: 5})
	uc := newUseCase(store)

	_, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		Total: decimal.NewFromInt(10),
		Cart: cart(
			dto.CartLine{ProductID: 1, Quantity: 1},
			dto.CartLine{ProductID: 99, Quantity: 1},
		),
	})

	require.ErrorIs(t, err, domain.ErrNotFound)
	var notFound *domain.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.EqualValues(t, 99, notFound.ProductID)

	assert.EqualValues(t, 5, store.quantity(t, 1))
	assert.Equal(t, 0, store.billCount())
}

func TestCreateBill_FalloDeEscritura(t *testing.T) {
	store := newFakeStore(map[int64]int64{1: 5})
	store.failAddLines = true
	uc := newUseCase(store)

	_, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		Total: decimal.NewFromInt(30),
		Cart:  cart(dto.CartLine{ProductID: 1, Quantity: 3}),
	})

	require.Error(t, err)
	assert.EqualValues(t, 5, store.quantity(t, 1), "el fallo de escritura debe revertir el descuento")
	assert.Equal(t, 0, store.billCount())
}

func TestCreateBill_TotalDeclaradoSeRespeta(t *testing.T) {
	// El total lo declara el cliente y se registra tal cual (comportamiento
	// histórico de la API): no se recalcula desde los precios.
	store := newFakeStore(map[int64]int64{1: 5})
	uc := newUseCase(store)

	out, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		Total: decimal.NewFromInt(999),
		Cart:  cart(dto.CartLine{ProductID: 1, Quantity: 1}),
	})

	require.NoError(t, err)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(999)))
}

func TestCreateBill_NoIdempotente(t *testing.T) {
	// Enviar el mismo carrito dos veces genera dos facturas y dos descuentos.
	store := newFakeStore(map[int64]int64{1: 10})
	uc := newUseCase(store)

	req := dto.CreateBillRequest{
		Total: decimal.NewFromInt(20),
		Cart:  cart(dto.CartLine{ProductID: 1, Quantity: 2}),
	}
	first, err := uc.CreateBill(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.CreateBill(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.BillID, second.BillID)
	assert.Equal(t, 2, store.billCount())
	assert.EqualValues(t, 6, store.quantity(t, 1))
}

func TestCreateBill_LineasDuplicadasDelMismoProducto(t *testing.T) {
	// Dos líneas del mismo producto: la segunda verificación ve el descuento
	// pendiente de la primera dentro de la misma tx.
	store := newFakeStore(map[int64]int64{1: 4})
	uc := newUseCase(store)

	_, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		Total: decimal.NewFromInt(60),
		Cart: cart(
			dto.CartLine{ProductID: 1, Quantity: 3},
			dto.CartLine{ProductID: 1, Quantity: 3},
		),
	})

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.EqualValues(t, 4, store.quantity(t, 1))
}

// ── Orden de bloqueo y concurrencia ──────────────────────────────────────────

func TestCreateBill_BloqueaEnOrdenAscendente(t *testing.T) {
	store := newFakeStore(map[int64]int64{2: 5, 5: 5, 9: 5})
	uc := newUseCase(store)

	// Carrito desordenado a propósito
	_, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
		Total: decimal.NewFromInt(30),
		Cart: cart(
			dto.CartLine{ProductID: 9, Quantity: 1},
			dto.CartLine{ProductID: 2, Quantity: 1},
			dto.CartLine{ProductID: 5, Quantity: 1},
		),
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5, 9}, store.lockOrder,
		"los bloqueos deben adquirirse en orden ascendente de product_id")
}

func TestCreateBill_UltimaUnidadConcurrente(t *testing.T) {
	// Dos ventas concurrentes compiten por la última unidad: exactamente una
	// gana, la otra recibe stock insuficiente.
	store := newFakeStore(map[int64]int64{9: 1})
	uc := newUseCase(store)

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
				Total: decimal.NewFromInt(10),
				Cart:  cart(dto.CartLine{ProductID: 9, Quantity: 1}),
			})
			results <- err
		}()
	}

	var successes, insufficients int
	for i := 0; i < 2; i++ {
		err := <-results
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficients++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, insufficients)
	assert.EqualValues(t, 0, store.quantity(t, 9))
	assert.Equal(t, 1, store.billCount())
}

func TestCreateBill_ConcurrenciaProductosDisjuntos(t *testing.T) {
	store := newFakeStore(map[int64]int64{1: 5, 2: 5})
	uc := newUseCase(store)

	var wg sync.WaitGroup
	for _, productID := range []int64{1, 2} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
				Total: decimal.NewFromInt(10),
				Cart:  cart(dto.CartLine{ProductID: id, Quantity: 1}),
			})
			assert.NoError(t, err)
		}(productID)
	}
	wg.Wait()

	assert.EqualValues(t, 4, store.quantity(t, 1))
	assert.EqualValues(t, 4, store.quantity(t, 2))
	assert.Equal(t, 2, store.billCount())
}

func TestCreateBill_ConcurrenciaSolapada(t *testing.T) {
	// 10 ventas concurrentes de 3 unidades sobre 10 en stock: la suma de los
	// descuentos exitosos nunca deja la cantidad por debajo de cero.
	store := newFakeStore(map[int64]int64{7: 10})
	uc := newUseCase(store)

	const attempts = 10
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := uc.CreateBill(context.Background(), dto.CreateBillRequest{
				Total: decimal.NewFromInt(30),
				Cart:  cart(dto.CartLine{ProductID: 7, Quantity: 3}),
			})
			results <- err
		}()
	}

	var successes int
	for i := 0; i < attempts; i++ {
		if err := <-results; err == nil {
			successes++
		} else {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}

	final := store.quantity(t, 7)
	assert.GreaterOrEqual(t, final, int64(0), "la cantidad nunca puede ser negativa")
	assert.EqualValues(t, 10-int64(successes)*3, final)
	assert.Equal(t, 3, successes, "con 10 unidades y ventas de 3 caben exactamente 3 ventas")
	assert.Equal(t, successes, store.billCount())
}
