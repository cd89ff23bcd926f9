package alerts_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/alerts"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// Fakes mínimos para el motor de alertas.

type memProductRepo struct {
	products map[string]*entity.Product
}

func (r *memProductRepo) Create(p *entity.Product) error { return nil }

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) { return nil, nil }

func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }

func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

func (r *memProductRepo) UpdateStock(id string, newStock int64) error {
	r.products[id].Stock = newStock
	return nil
}

func (r *memProductRepo) UpdateCost(id string, cost decimal.Decimal) error { return nil }

func (r *memProductRepo) SetInventoryStatus(id string, date time.Time, status string) error {
	return nil
}

type memBatchRepo struct {
	batches []*entity.ExpirationBatch
}

func (r *memBatchRepo) Create(b *entity.ExpirationBatch) error { return nil }

func (r *memBatchRepo) GetByID(id string) (*entity.ExpirationBatch, error) { return nil, nil }

func (r *memBatchRepo) ListActive() ([]*entity.ExpirationBatch, error) {
	out := make([]*entity.ExpirationBatch, 0, len(r.batches))
	for _, b := range r.batches {
		if b.IsActive {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpirationDate.Before(out[j].ExpirationDate) })
	return out, nil
}

func (r *memBatchRepo) ListActiveByProduct(productID string) ([]*entity.ExpirationBatch, error) {
	return nil, nil
}

func (r *memBatchRepo) DecreaseTo(id string, newQuantity int64) (bool, error) { return false, nil }

type memNotifRepo struct {
	notifications []*entity.Notification
}

func (r *memNotifRepo) Create(n *entity.Notification) error {
	cp := *n
	r.notifications = append(r.notifications, &cp)
	return nil
}

func (r *memNotifRepo) ExistsUnread(productID, ntype string) (bool, error) {
	for _, n := range r.notifications {
		if n.ProductID == productID && n.Type == ntype && !n.IsRead {
			return true, nil
		}
	}
	return false, nil
}

func (r *memNotifRepo) List(onlyUnread bool, limit, offset int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range r.notifications {
		if onlyUnread && n.IsRead {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memNotifRepo) MarkRead(id string) error {
	for _, n := range r.notifications {
		if n.ID == id {
			n.IsRead = true
		}
	}
	return nil
}

func (r *memNotifRepo) MarkAllRead() (int64, error) { return 0, nil }

func (r *memNotifRepo) Delete(id string) error { return nil }

func newEngine(products map[string]*entity.Product, batches []*entity.ExpirationBatch) (*alerts.Engine, *memNotifRepo) {
	notifRepo := &memNotifRepo{}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	engine := alerts.NewEngine(
		&memProductRepo{products: products},
		&memBatchRepo{batches: batches},
		notifRepo,
		log,
		0,
	)
	return engine, notifRepo
}

func product(stock, minStock int64) map[string]*entity.Product {
	return map[string]*entity.Product{
		"prod-1": {ID: "prod-1", SKU: "SKU-1", Name: "Leche entera 1L", Stock: stock, MinStock: minStock},
	}
}

func TestEvaluateStock_EmiteLaCondicionMasSevera(t *testing.T) {
	cases := []struct {
		name     string
		stock    int64
		ntype    string
		priority string
	}{
		{"agotado", 0, entity.NotificationStockOut, entity.PriorityCritical},
		{"critico", 2, entity.NotificationStockCritical, entity.PriorityHigh},
		{"bajo", 8, entity.NotificationStockLow, entity.PriorityNormal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine, notifRepo := newEngine(product(tc.stock, 10), nil)
			require.NoError(t, engine.EvaluateStock(context.Background(), "prod-1"))

			require.Len(t, notifRepo.notifications, 1, "debe emitirse exactamente una notificación")
			n := notifRepo.notifications[0]
			assert.Equal(t, tc.ntype, n.Type)
			assert.Equal(t, tc.priority, n.Priority)
			assert.Equal(t, "prod-1", n.ProductID)
			assert.NotEmpty(t, n.Message)
		})
	}
}

func TestEvaluateStock_StockSanoNoEmite(t *testing.T) {
	engine, notifRepo := newEngine(product(50, 10), nil)
	require.NoError(t, engine.EvaluateStock(context.Background(), "prod-1"))
	assert.Empty(t, notifRepo.notifications)
}

func TestEvaluateStock_DedupMientrasNoSeLea(t *testing.T) {
	engine, notifRepo := newEngine(product(0, 10), nil)
	ctx := context.Background()

	// Evaluar dos veces el mismo estado: una sola notificación
	require.NoError(t, engine.EvaluateStock(ctx, "prod-1"))
	require.NoError(t, engine.EvaluateStock(ctx, "prod-1"))
	assert.Len(t, notifRepo.notifications, 1, "la segunda evaluación debe dedupearse")

	// Marcar leída resuelve la alerta: la siguiente evaluación emite otra
	require.NoError(t, notifRepo.MarkRead(notifRepo.notifications[0].ID))
	require.NoError(t, engine.EvaluateStock(ctx, "prod-1"))
	assert.Len(t, notifRepo.notifications, 2)
}

func TestEvaluateExpirations_RespetaHorizonteYPrioridades(t *testing.T) {
	now := time.Now()
	batches := []*entity.ExpirationBatch{
		{ID: "b-exp", ProductID: "p1", CurrentQuantity: 5, ExpirationDate: now.Add(-3 * 24 * time.Hour), IsActive: true},
		{ID: "b-crit", ProductID: "p2", CurrentQuantity: 5, ExpirationDate: now.Add(4 * 24 * time.Hour), IsActive: true},
		{ID: "b-high", ProductID: "p3", CurrentQuantity: 5, ExpirationDate: now.Add(10 * 24 * time.Hour), IsActive: true},
		{ID: "b-norm", ProductID: "p4", CurrentQuantity: 5, ExpirationDate: now.Add(25 * 24 * time.Hour), IsActive: true},
		{ID: "b-lejos", ProductID: "p5", CurrentQuantity: 5, ExpirationDate: now.Add(60 * 24 * time.Hour), IsActive: true},
		{ID: "b-inactivo", ProductID: "p6", CurrentQuantity: 0, ExpirationDate: now.Add(2 * 24 * time.Hour), IsActive: false},
	}
	engine, notifRepo := newEngine(nil, batches)

	created, err := engine.EvaluateExpirations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, created, "fuera del horizonte y lotes inactivos no cuentan")

	priorities := map[string]string{}
	for _, n := range notifRepo.notifications {
		assert.Equal(t, entity.NotificationExpiration, n.Type)
		priorities[n.ProductID] = n.Priority
	}
	assert.Equal(t, entity.PriorityCritical, priorities["p1"], "vencido es crítico")
	assert.Equal(t, entity.PriorityCritical, priorities["p2"])
	assert.Equal(t, entity.PriorityHigh, priorities["p3"])
	assert.Equal(t, entity.PriorityNormal, priorities["p4"])
	assert.NotContains(t, priorities, "p5")
	assert.NotContains(t, priorities, "p6")
}

// Un lote vencido hace horas (menos de un día) debe notificarse como VENCIDO
// con prioridad crítica, no como "vence en 0 días".
func TestEvaluateExpirations_VencidoHaceHorasEsVencido(t *testing.T) {
	now := time.Now()
	batches := []*entity.ExpirationBatch{
		{ID: "b1", ProductID: "p1", CurrentQuantity: 3, ExpirationDate: now.Add(-12 * time.Hour), IsActive: true},
	}
	engine, notifRepo := newEngine(nil, batches)

	created, err := engine.EvaluateExpirations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	require.Len(t, notifRepo.notifications, 1)
	n := notifRepo.notifications[0]
	assert.Equal(t, entity.NotificationExpiration, n.Type)
	assert.Equal(t, entity.PriorityCritical, n.Priority)
	assert.Contains(t, n.Message, "VENCIDO", "el mensaje debe marcar el lote como vencido")
}

func TestEvaluateExpirations_EsIdempotente(t *testing.T) {
	now := time.Now()
	batches := []*entity.ExpirationBatch{
		{ID: "b1", ProductID: "p1", CurrentQuantity: 5, ExpirationDate: now.Add(3 * 24 * time.Hour), IsActive: true},
	}
	engine, notifRepo := newEngine(nil, batches)
	ctx := context.Background()

	created, err := engine.EvaluateExpirations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	created, err = engine.EvaluateExpirations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, created, "el segundo escaneo no debe crear duplicados")
	assert.Len(t, notifRepo.notifications, 1)
}
