package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-inventario/internal/application/billing"
	"github.com/tu-usuario/pos-inventario/internal/application/dto"
	"github.com/tu-usuario/pos-inventario/internal/domain"
	"github.com/tu-usuario/pos-inventario/internal/domain/entity"
	"github.com/tu-usuario/pos-inventario/internal/domain/repository"
	apphttp "github.com/tu-usuario/pos-inventario/internal/interfaces/http"
	"github.com/tu-usuario/pos-inventario/pkg/logger"
)

// stubTxRunner ejecuta la venta sobre un mapa producto→cantidad; si el callback
// falla, restaura el estado previo (equivalente al rollback).
type stubTxRunner struct {
	stock  map[int64]int64
	busyID int64 // producto cuyo bloqueo "falla" con ErrBusy
	nextID int64
	bills  int
}

func (r *stubTxRunner) RunBilling(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	billRepo repository.BillRepository,
) error) error {
	snapshot := make(map[int64]int64, len(r.stock))
	for id, qty := range r.stock {
		snapshot[id] = qty
	}
	billsBefore := r.bills
	if err := fn(&stubStockRepo{r: r}, &stubBillRepo{r: r}); err != nil {
		r.stock = snapshot
		r.bills = billsBefore
		return err
	}
	return nil
}

type stubStockRepo struct{ r *stubTxRunner }

func (s *stubStockRepo) GetQuantityForUpdate(productID int64) (int64, error) {
	if productID == s.r.busyID {
		return 0, fmt.Errorf("bloqueo de fila del producto %d: %w", productID, domain.ErrBusy)
	}
	qty, ok := s.r.stock[productID]
	if !ok {
		return 0, &domain.ProductNotFoundError{ProductID: productID}
	}
	return qty, nil
}

func (s *stubStockRepo) DecrementQuantity(productID int64, amount int64) error {
	s.r.stock[productID] -= amount
	return nil
}

func (s *stubStockRepo) List() ([]*entity.StockItem, error)       { return nil, nil }
func (s *stubStockRepo) GetByID(int64) (*entity.StockItem, error) { return nil, nil }
func (s *stubStockRepo) Create(*entity.StockItem) error           { return nil }
func (s *stubStockRepo) Update(*entity.StockItem) error           { return nil }
func (s *stubStockRepo) Delete(int64) error                       { return nil }

type stubBillRepo struct{ r *stubTxRunner }

func (s *stubBillRepo) CreateBill(bill *entity.Bill) error {
	s.r.nextID++
	bill.ID = s.r.nextID
	s.r.bills++
	return nil
}

func (s *stubBillRepo) AddLineItems(int64, []entity.BillLineItem) error      { return nil }
func (s *stubBillRepo) GetByID(int64) (*entity.Bill, error)                  { return nil, nil }
func (s *stubBillRepo) GetLineItems(int64) ([]*entity.BillLineDetail, error) { return nil, nil }
func (s *stubBillRepo) ListWithLines() ([]*entity.BillWithLines, error)      { return nil, nil }

func newBillApp(runner *stubTxRunner) *fiber.App {
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	handler := apphttp.NewBillHandler(billing.NewCreateBillUseCase(runner), nil, nil, log)

	app := fiber.New()
	app.Post("/api/bills", handler.Create)
	return app
}

func postBill(t *testing.T, app *fiber.App, body string) (*http.Response, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/bills", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var errResp dto.ErrorResponse
	_ = json.Unmarshal(raw, &errResp)
	return resp, errResp
}

func TestBillHandler_VentaExitosa(t *testing.T) {
	runner := &stubTxRunner{stock: map[int64]int64{1: 5}}
	app := newBillApp(runner)

	req := httptest.NewRequest(http.MethodPost, "/api/bills",
		bytes.NewBufferString(`{"total":"30","cart":[{"product_id":1,"quantity":3}]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out dto.BillResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Positive(t, out.BillID)
	assert.EqualValues(t, 3, out.ItemsNum)
	assert.EqualValues(t, 2, runner.stock[1])
}

func TestBillHandler_CarritoInvalido(t *testing.T) {
	app := newBillApp(&stubTxRunner{stock: map[int64]int64{}})

	resp, errResp := postBill(t, app, `{"total":"10","cart":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_CART", errResp.Code)
}

func TestBillHandler_StockInsuficiente(t *testing.T) {
	runner := &stubTxRunner{stock: map[int64]int64{1: 2}}
	app := newBillApp(runner)

	resp, errResp := postBill(t, app, `{"total":"30","cart":[{"product_id":1,"quantity":3}]}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)
	assert.Contains(t, errResp.Message, "1", "el mensaje identifica el producto")
	assert.EqualValues(t, 2, runner.stock[1], "rollback: la cantidad no cambia")
}

func TestBillHandler_ProductoInexistente(t *testing.T) {
	app := newBillApp(&stubTxRunner{stock: map[int64]int64{}})

	resp, errResp := postBill(t, app, `{"total":"10","cart":[{"product_id":99,"quantity":1}]}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "PRODUCT_NOT_FOUND", errResp.Code)
}

func TestBillHandler_InventarioOcupado(t *testing.T) {
	app := newBillApp(&stubTxRunner{stock: map[int64]int64{7: 5}, busyID: 7})

	resp, errResp := postBill(t, app, `{"total":"10","cart":[{"product_id":7,"quantity":1}]}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "BUSY", errResp.Code)
}

func TestBillHandler_CuerpoInvalido(t *testing.T) {
	app := newBillApp(&stubTxRunner{stock: map[int64]int64{}})

	resp, errResp := postBill(t, app, `{esto no es json`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", errResp.Code)
}
