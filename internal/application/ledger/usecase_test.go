package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/alerts"
	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/ledger"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

const (
	testProductID = "11111111-1111-1111-1111-111111111111"
	testUserID    = "22222222-2222-2222-2222-222222222222"
)

type testEnv struct {
	uc          *ledger.LedgerUseCase
	productRepo *fakeProductRepo
	movRepo     *fakeMovementRepo
	saleRepo    *fakeSaleRepo
	sessionRepo *fakeSessionRepo
	batchRepo   *fakeBatchRepo
	notifRepo   *fakeNotificationRepo
}

// newTestEnv arma el caso de uso con fakes y el motor de alertas real, para que
// los tests cubran también la emisión de notificaciones post-movimiento.
func newTestEnv(t *testing.T, products ...*entity.Product) *testEnv {
	t.Helper()
	productRepo := newFakeProductRepo(products...)
	movRepo := &fakeMovementRepo{}
	saleRepo := &fakeSaleRepo{}
	sessionRepo := newFakeSessionRepo()
	batchRepo := newFakeBatchRepo()
	notifRepo := newFakeNotificationRepo()

	log := logger.New(logger.Config{Env: "development", Level: "error"})
	engine := alerts.NewEngine(productRepo, batchRepo, notifRepo, log, 0)

	runner := &fakeTxRunner{
		movRepo:     movRepo,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		sessionRepo: sessionRepo,
		batchRepo:   batchRepo,
	}
	return &testEnv{
		uc:          ledger.NewLedgerUseCase(runner, productRepo, movRepo, engine, log),
		productRepo: productRepo,
		movRepo:     movRepo,
		saleRepo:    saleRepo,
		sessionRepo: sessionRepo,
		batchRepo:   batchRepo,
		notifRepo:   notifRepo,
	}
}

func testProduct(stock, minStock int64) *entity.Product {
	now := time.Now()
	return &entity.Product{
		ID:        testProductID,
		SKU:       "SKU-001",
		Name:      "Leche entera 1L",
		Stock:     stock,
		MinStock:  minStock,
		CostPrice: decimal.NewFromInt(3200),
		Price:     decimal.NewFromInt(4500),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAppend_ActualizaStockYLedger(t *testing.T) {
	env := newTestEnv(t, testProduct(10, 3))

	out, err := env.uc.Append(context.Background(), testUserID, dto.AppendMovementRequest{
		ProductID:     testProductID,
		Type:          "RETURN_IN",
		QuantityDelta: 5,
		Reason:        "devolución de cliente",
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, int64(10), out.PreviousStock)
	assert.Equal(t, int64(15), out.NewStock)
	assert.Equal(t, int64(5), out.QuantityDelta)
	assert.Equal(t, testUserID, out.CreatedBy)

	p, _ := env.productRepo.GetByID(testProductID)
	assert.Equal(t, int64(15), p.Stock, "el stock cacheado debe reflejar el movimiento")
}

func TestAppend_ReglasDeSigno(t *testing.T) {
	env := newTestEnv(t, testProduct(10, 3))
	ctx := context.Background()

	// REPLENISHMENT con delta negativo
	_, err := env.uc.Append(ctx, testUserID, dto.AppendMovementRequest{
		ProductID: testProductID, Type: "REPLENISHMENT", QuantityDelta: -5, Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// ADJUSTMENT con delta cero
	_, err = env.uc.Append(ctx, testUserID, dto.AppendMovementRequest{
		ProductID: testProductID, Type: "ADJUSTMENT", QuantityDelta: 0, Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Tipo desconocido
	_, err = env.uc.Append(ctx, testUserID, dto.AppendMovementRequest{
		ProductID: testProductID, Type: "TRANSFER", QuantityDelta: 1, Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// SALE directo por esta vía exige delta negativo
	_, err = env.uc.Append(ctx, testUserID, dto.AppendMovementRequest{
		ProductID: testProductID, Type: "SALE", QuantityDelta: 3, Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Nada de lo anterior debe haber tocado el ledger
	sum, _ := env.movRepo.SumDeltasByProduct(testProductID)
	assert.Equal(t, int64(0), sum)
}

func TestAppend_AjusteNegativoBajoCeroEsInvalido(t *testing.T) {
	// Un ADJUSTMENT que dejaría stock negativo no es "stock insuficiente"
	// (el tipo no es saliente), es entrada inválida.
	env := newTestEnv(t, testProduct(3, 1))
	_, err := env.uc.Append(context.Background(), testUserID, dto.AppendMovementRequest{
		ProductID: testProductID, Type: "ADJUSTMENT", QuantityDelta: -5, Reason: "merma",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjust_ConteoDistintoGeneraMovimiento(t *testing.T) {
	env := newTestEnv(t, testProduct(10, 3))

	out, err := env.uc.Adjust(context.Background(), testUserID, dto.AdjustStockRequest{
		ProductID: testProductID,
		NewStock:  7,
		Reason:    "inventario físico",
	})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, int64(-3), out.QuantityDelta)
	assert.Equal(t, "ADJUSTMENT", out.Type)

	p, _ := env.productRepo.GetByID(testProductID)
	assert.Equal(t, int64(7), p.Stock)
	assert.Equal(t, entity.InventoryStatusAdjusted, p.LastInventoryStatus)
	require.NotNil(t, p.LastInventoryDate)
}

func TestAdjust_ConteoCoincideNoEscribeMovimiento(t *testing.T) {
	env := newTestEnv(t, testProduct(10, 3))

	out, err := env.uc.Adjust(context.Background(), testUserID, dto.AdjustStockRequest{
		ProductID: testProductID,
		NewStock:  10,
		Reason:    "inventario físico",
	})
	require.NoError(t, err)
	assert.Nil(t, out, "conteo exacto no debe producir movimiento")

	sum, _ := env.movRepo.SumDeltasByProduct(testProductID)
	assert.Equal(t, int64(0), sum, "el ledger debe quedar intacto")

	p, _ := env.productRepo.GetByID(testProductID)
	assert.Equal(t, entity.InventoryStatusOK, p.LastInventoryStatus,
		"el estado del inventario debe registrarse como OK")
}

func TestVerifyProduct_DetectaDeriva(t *testing.T) {
	env := newTestEnv(t, testProduct(0, 3))
	ctx := context.Background()

	_, err := env.uc.Append(ctx, testUserID, dto.AppendMovementRequest{
		ProductID: testProductID, Type: "REPLENISHMENT", QuantityDelta: 20, Reason: "reposición",
	})
	require.NoError(t, err)

	check, err := env.uc.VerifyProduct(ctx, testProductID)
	require.NoError(t, err)
	assert.True(t, check.Consistent)
	assert.Equal(t, int64(20), check.Stock)
	assert.Equal(t, int64(20), check.LedgerSum)

	// Corromper el cache por fuera del ledger
	require.NoError(t, env.productRepo.UpdateStock(testProductID, 99))

	check, err = env.uc.VerifyProduct(ctx, testProductID)
	require.NoError(t, err)
	assert.False(t, check.Consistent, "stock tocado fuera del ledger debe detectarse")
	assert.Equal(t, int64(99), check.Stock)
	assert.Equal(t, int64(20), check.LedgerSum)
}

func TestRegisterSale_VentaCompleta(t *testing.T) {
	env := newTestEnv(t, testProduct(10, 3))

	out, err := env.uc.RegisterSale(context.Background(), testUserID, dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: testProductID, Quantity: 2},
		},
		PaymentMethod: entity.PaymentCash,
	})
	require.NoError(t, err)
	require.Len(t, out.Movements, 1)

	// Total = 2 × precio del producto (4500)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(9000)), "total esperado 9000, got %s", out.Total)
	assert.Equal(t, int64(-2), out.Movements[0].QuantityDelta)

	p, _ := env.productRepo.GetByID(testProductID)
	assert.Equal(t, int64(8), p.Stock)

	// Pago en efectivo sin sesión abierta: acreditado a la sesión unassigned
	require.NotEmpty(t, out.SessionID)
	s, _ := env.sessionRepo.GetByID(out.SessionID)
	require.NotNil(t, s)
	assert.Equal(t, entity.SessionUnassigned, s.Status)
	assert.True(t, s.TotalSales.Equal(decimal.NewFromInt(9000)))
	assert.Equal(t, int64(1), s.TotalTransactions)
}

func TestRegisterSale_PagoNoEfectivoNoTocaCaja(t *testing.T) {
	env := newTestEnv(t, testProduct(10, 3))

	out, err := env.uc.RegisterSale(context.Background(), testUserID, dto.RegisterSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: testProductID, Quantity: 1}},
		PaymentMethod: entity.PaymentCard,
	})
	require.NoError(t, err)
	assert.Empty(t, out.SessionID, "venta con tarjeta no acredita sesión de caja")

	sessions, _ := env.sessionRepo.List(100, 0)
	assert.Empty(t, sessions)
}

func TestRegisterSale_StockInsuficienteNoEscribeNada(t *testing.T) {
	env := newTestEnv(t, testProduct(5, 2))
	ctx := context.Background()

	// Vender exactamente el stock disponible funciona
	out, err := env.uc.RegisterSale(ctx, testUserID, dto.RegisterSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: testProductID, Quantity: 5}},
		PaymentMethod: entity.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Movements[0].NewStock)

	// El agotamiento debe haber generado una notificación stock_out
	assert.True(t, env.notifRepo.hasUnread(testProductID, entity.NotificationStockOut),
		"vender hasta cero debe emitir stock_out")

	// Una segunda venta falla y no altera stock ni ledger
	_, err = env.uc.RegisterSale(ctx, testUserID, dto.RegisterSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: testProductID, Quantity: 1}},
		PaymentMethod: entity.PaymentCash,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, _ := env.productRepo.GetByID(testProductID)
	assert.Equal(t, int64(0), p.Stock, "el stock nunca baja de cero")
	sum, _ := env.movRepo.SumDeltasByProduct(testProductID)
	assert.Equal(t, int64(-5), sum, "la venta rechazada no debe dejar rastro en el ledger")
}

func TestRegisterSale_PrecioExplicitoPorLinea(t *testing.T) {
	env := newTestEnv(t, testProduct(10, 3))

	override := decimal.NewFromInt(4000)
	out, err := env.uc.RegisterSale(context.Background(), testUserID, dto.RegisterSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: testProductID, Quantity: 3, UnitPrice: &override},
		},
		PaymentMethod: entity.PaymentTransfer,
	})
	require.NoError(t, err)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(12000)))
}

func TestReplenish_ConCostoYLote(t *testing.T) {
	env := newTestEnv(t, testProduct(10, 3))

	unitCost := decimal.NewFromInt(3800)
	expiry := time.Now().Add(20 * 24 * time.Hour)
	out, err := env.uc.Replenish(context.Background(), testUserID, dto.ReplenishRequest{
		ProductID:      testProductID,
		Quantity:       20,
		UnitCost:       &unitCost,
		ExpirationDate: &expiry,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(30), out.Movement.NewStock)
	require.NotNil(t, out.Batch)
	assert.Equal(t, int64(20), out.Batch.OriginalQuantity)
	assert.Equal(t, int64(20), out.Batch.CurrentQuantity)
	assert.True(t, out.Batch.IsActive)
	assert.Equal(t, out.Movement.ID, out.Batch.ReplenishmentID,
		"el lote debe quedar ligado al movimiento de reposición")

	// Costo promedio ponderado: (10×3200 + 20×3800) / 30 = 3600
	p, _ := env.productRepo.GetByID(testProductID)
	assert.True(t, p.CostPrice.Equal(decimal.NewFromInt(3600)), "costo esperado 3600, got %s", p.CostPrice)
}

func TestReplenish_FechaVencidaRechazada(t *testing.T) {
	env := newTestEnv(t, testProduct(10, 3))

	past := time.Now().Add(-24 * time.Hour)
	_, err := env.uc.Replenish(context.Background(), testUserID, dto.ReplenishRequest{
		ProductID:      testProductID,
		Quantity:       5,
		ExpirationDate: &past,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReplenish_SinCostoNoCambiaElCosto(t *testing.T) {
	env := newTestEnv(t, testProduct(10, 3))

	_, err := env.uc.Replenish(context.Background(), testUserID, dto.ReplenishRequest{
		ProductID: testProductID,
		Quantity:  5,
	})
	require.NoError(t, err)

	p, _ := env.productRepo.GetByID(testProductID)
	assert.True(t, p.CostPrice.Equal(decimal.NewFromInt(3200)))
}

func TestAppend_ProductoInexistente(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.uc.Append(context.Background(), testUserID, dto.AppendMovementRequest{
		ProductID: "99999999-9999-9999-9999-999999999999",
		Type:      "REPLENISHMENT", QuantityDelta: 1, Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
