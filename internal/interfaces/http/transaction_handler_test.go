package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-transacciones/internal/application/dto"
	"github.com/jhoicas/inventario-transacciones/internal/application/transaction"
	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
	"github.com/jhoicas/inventario-transacciones/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-transacciones/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/inventario-transacciones/internal/interfaces/http"
	"github.com/jhoicas/inventario-transacciones/pkg/logger"
)

// recordingCache caché en memoria que registra las invalidaciones.
type recordingCache struct {
	mu         sync.Mutex
	data       map[string][]byte
	branchID   int64
	productIDs []int64
	calls      int
}

func (r *recordingCache) Get(_ context.Context, key string, dest any) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (r *recordingCache) Set(_ context.Context, key string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.data[key] = b
	return nil
}

func (r *recordingCache) Invalidate(_ context.Context, branchID int64, productIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.branchID = branchID
	r.productIDs = productIDs
	delete(r.data, cache.BranchReportKey(branchID))
	for _, id := range productIDs {
		delete(r.data, cache.ProductReportKey(id))
	}
	return nil
}

func (r *recordingCache) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *recordingCache) has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.data[key]
	return ok
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// buildTransactionApp arma el router completo sobre el almacén en memoria.
func buildTransactionApp(t *testing.T) (*fiber.App, *memory.Store, *recordingCache) {
	t.Helper()
	return buildTransactionAppWith(t, 0, nil)
}

// buildTransactionAppWith permite fijar el segundo borrado de la caché y el logger.
func buildTransactionAppWith(t *testing.T, invalidateDelay time.Duration, log *logger.Logger) (*fiber.App, *memory.Store, *recordingCache) {
	t.Helper()
	store := memory.NewStore()
	store.AddBranch(entity.Branch{ID: 1, Name: "Centro"})
	store.AddProduct(entity.Product{ID: 10, Name: "Arroz 500g", SellingPrice: money("10"), CostPerUnit: money("6")}, 50)

	uc := transaction.NewTransactionUseCase(store, nil, nil, transaction.Config{})
	inv := &recordingCache{data: map[string][]byte{}}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		TransactionUC:   uc,
		ReportCache:     inv,
		InvalidateDelay: invalidateDelay,
		Logger:          log,
		JWTSecret:       testJWTSecret,
	})
	return app, store, inv
}

func send(t *testing.T, app *fiber.App, method, path, role string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func saleBody(qty int) dto.ApplyTransactionRequest {
	return dto.ApplyTransactionRequest{
		BranchID: 1,
		Type:     "SALE",
		Items:    []dto.TransactionItemRequest{{ProductID: 10, ProductName: "Arroz 500g", Quantity: qty}},
	}
}

func TestTransactionHandler_Apply_Created(t *testing.T) {
	app, store, inv := buildTransactionApp(t)

	resp := send(t, app, http.MethodPost, "/api/transactions", "vendedor", saleBody(3))
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.TransactionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "SALE", out.Type)
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(30)))
	require.Len(t, out.Items, 1)

	assert.Equal(t, 47, store.Snapshot().ProductReports[10].Stock)
	assert.Equal(t, 1, inv.calls)
	assert.Equal(t, int64(1), inv.branchID)
	assert.Equal(t, []int64{10}, inv.productIDs)
}

func TestTransactionHandler_Apply_InsufficientStock_400(t *testing.T) {
	app, _, inv := buildTransactionApp(t)

	resp := send(t, app, http.MethodPost, "/api/transactions", "vendedor", saleBody(51))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Code)
	assert.Equal(t, 0, inv.calls)
}

func TestTransactionHandler_Apply_InvalidType_400(t *testing.T) {
	app, _, _ := buildTransactionApp(t)
	body := saleBody(1)
	body.Type = "GIFT"

	resp := send(t, app, http.MethodPost, "/api/transactions", "admin", body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Invalid transaction type.", out.Message)
}

func TestTransactionHandler_Apply_UnknownBranch_404(t *testing.T) {
	app, _, _ := buildTransactionApp(t)
	body := saleBody(1)
	body.BranchID = 99

	resp := send(t, app, http.MethodPost, "/api/transactions", "admin", body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTransactionHandler_Apply_SinToken_401(t *testing.T) {
	app, _, _ := buildTransactionApp(t)

	resp := send(t, app, http.MethodPost, "/api/transactions", "", saleBody(1))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTransactionHandler_Rollback(t *testing.T) {
	app, store, inv := buildTransactionApp(t)

	resp := send(t, app, http.MethodPost, "/api/transactions", "vendedor", saleBody(5))
	var applied dto.TransactionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&applied))
	resp.Body.Close()

	path := "/api/transactions/" + strconv.FormatInt(applied.ID, 10)

	// vendedor no puede revertir
	resp = send(t, app, http.MethodDelete, path, "vendedor", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// tipo equivocado
	resp = send(t, app, http.MethodDelete, path+"?type=PURCHASE", "admin", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = send(t, app, http.MethodDelete, path+"?type=SALE", "admin", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 50, store.Snapshot().ProductReports[10].Stock)
	assert.Equal(t, 2, inv.calls)

	// segunda reversión: ya no existe
	again := send(t, app, http.MethodDelete, path, "admin", nil)
	defer again.Body.Close()
	assert.Equal(t, http.StatusNotFound, again.StatusCode)
}

func TestTransactionHandler_Rollback_InvalidID_400(t *testing.T) {
	app, _, _ := buildTransactionApp(t)

	resp := send(t, app, http.MethodDelete, "/api/transactions/abc", "admin", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransactionHandler_AuditProduct(t *testing.T) {
	app, _, _ := buildTransactionApp(t)

	resp := send(t, app, http.MethodGet, "/api/ledger/products/10/audit", "admin", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.LedgerAuditDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 50, out.ReportStock)
	assert.Equal(t, 50, out.LedgerStock)
	assert.Equal(t, 0, out.Drift)
}

func TestReportHandler_ProductReport_ReadThroughAndInvalidation(t *testing.T) {
	app, _, c := buildTransactionApp(t)

	resp := send(t, app, http.MethodGet, "/api/reports/products/10", "vendedor", nil)
	var first dto.ProductReportDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&first))
	resp.Body.Close()
	assert.Equal(t, 50, first.Stock)
	assert.Contains(t, c.data, cache.ProductReportKey(10), "la lectura llena la caché")

	resp = send(t, app, http.MethodPost, "/api/transactions", "vendedor", saleBody(5))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotContains(t, c.data, cache.ProductReportKey(10), "la venta invalida la clave")

	resp = send(t, app, http.MethodGet, "/api/reports/products/10", "vendedor", nil)
	defer resp.Body.Close()
	var second dto.ProductReportDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&second))
	assert.Equal(t, 45, second.Stock)
	assert.True(t, second.Sales.Equal(decimal.NewFromInt(50)))
	assert.True(t, second.Profit.Equal(decimal.NewFromInt(20)))
}

func TestReportHandler_BranchReport(t *testing.T) {
	app, _, _ := buildTransactionApp(t)

	resp := send(t, app, http.MethodGet, "/api/reports/branches/1", "admin", nil)
	var empty dto.BranchReportDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&empty))
	resp.Body.Close()
	assert.Equal(t, "Centro", empty.BranchName)
	assert.True(t, empty.Sales.IsZero())

	resp = send(t, app, http.MethodGet, "/api/reports/branches/99", "admin", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReportHandler_ListMovements(t *testing.T) {
	app, _, _ := buildTransactionApp(t)

	resp := send(t, app, http.MethodPost, "/api/transactions", "vendedor", saleBody(2))
	resp.Body.Close()

	resp = send(t, app, http.MethodGet, "/api/ledger/products/10/movements?limit=1", "bodeguero", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Total     int                    `json:"total"`
		Movements []dto.StockMovementDTO `json:"movements"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "OUT", out.Movements[0].MovementType)
	assert.Equal(t, "SALE", out.Movements[0].MovementReason)
	assert.Equal(t, 50, out.Movements[0].OldValue)
	assert.Equal(t, 48, out.Movements[0].NewValue)
}

func TestTransactionHandler_DelayedInvalidationEvictsStaleRefill(t *testing.T) {
	app, _, inv := buildTransactionAppWith(t, 20*time.Millisecond, nil)

	resp := send(t, app, http.MethodPost, "/api/transactions", "vendedor", saleBody(2))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, 1, inv.callCount())

	// una lectura que consultó la BD antes del commit vuelve a llenar la clave con el valor viejo
	key := cache.ProductReportKey(10)
	require.NoError(t, inv.Set(context.Background(), key, dto.ProductReportDTO{ProductID: 10, Stock: 50}))

	assert.Eventually(t, func() bool {
		return inv.callCount() == 2 && !inv.has(key)
	}, time.Second, 5*time.Millisecond)
}

func TestTransactionHandler_LogsUserID(t *testing.T) {
	var buf bytes.Buffer
	app, _, _ := buildTransactionAppWith(t, 0, logger.NewWithWriter(&buf, "info"))

	resp := send(t, app, http.MethodPost, "/api/transactions", "admin", saleBody(1))
	var applied dto.TransactionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&applied))
	resp.Body.Close()

	resp = send(t, app, http.MethodDelete, "/api/transactions/"+strconv.FormatInt(applied.ID, 10), "admin", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := buf.String()
	assert.Contains(t, out, `"user_id":"`+testUserID+`"`)
	assert.Contains(t, out, "transacción registrada")
	assert.Contains(t, out, "transacción revertida por usuario")
}
