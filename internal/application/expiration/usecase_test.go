package expiration_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/expiration"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/ledger"
)

type memBatchRepo struct {
	batches map[string]*entity.ExpirationBatch
}

func newMemBatchRepo(batches ...*entity.ExpirationBatch) *memBatchRepo {
	m := make(map[string]*entity.ExpirationBatch, len(batches))
	for _, b := range batches {
		cp := *b
		m[b.ID] = &cp
	}
	return &memBatchRepo{batches: m}
}

func (r *memBatchRepo) Create(b *entity.ExpirationBatch) error {
	cp := *b
	r.batches[b.ID] = &cp
	return nil
}

func (r *memBatchRepo) GetByID(id string) (*entity.ExpirationBatch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *memBatchRepo) ListActive() ([]*entity.ExpirationBatch, error) {
	var out []*entity.ExpirationBatch
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
	var out []*entity.ExpirationBatch
	for _, b := range r.batches {
		if b.IsActive && b.ProductID == productID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memBatchRepo) DecreaseTo(id string, newQuantity int64) (bool, error) {
	b, ok := r.batches[id]
	if !ok || !b.IsActive || b.CurrentQuantity < newQuantity {
		return false, nil
	}
	b.CurrentQuantity = newQuantity
	if newQuantity == 0 {
		b.IsActive = false
	}
	return true, nil
}

func batchIn(days int, qty int64) *entity.ExpirationBatch {
	return &entity.ExpirationBatch{
		ID:               "batch-1",
		ProductID:        "prod-1",
		ReplenishmentID:  "mov-1",
		OriginalQuantity: 50,
		CurrentQuantity:  qty,
		ExpirationDate:   time.Now().Add(time.Duration(days) * 24 * time.Hour),
		IsActive:         true,
		CreatedAt:        time.Now(),
	}
}

func TestSetQuantity_CorreccionALaBaja(t *testing.T) {
	repo := newMemBatchRepo(batchIn(20, 50))
	uc := expiration.NewBatchUseCase(repo)

	out, err := uc.SetQuantity(context.Background(), "batch-1", 30)
	require.NoError(t, err)
	assert.Equal(t, int64(30), out.CurrentQuantity)
	assert.Equal(t, int64(50), out.OriginalQuantity, "la cantidad original nunca cambia")
	assert.True(t, out.IsActive)
}

func TestSetQuantity_AumentoRechazado(t *testing.T) {
	repo := newMemBatchRepo(batchIn(20, 30))
	uc := expiration.NewBatchUseCase(repo)

	_, err := uc.SetQuantity(context.Background(), "batch-1", 40)
	assert.ErrorIs(t, err, domain.ErrQuantityIncrease)

	b, _ := repo.GetByID("batch-1")
	assert.Equal(t, int64(30), b.CurrentQuantity, "el rechazo no debe tocar la cantidad")
}

func TestSetQuantity_CeroDesactivaElLote(t *testing.T) {
	repo := newMemBatchRepo(batchIn(20, 30))
	uc := expiration.NewBatchUseCase(repo)
	ctx := context.Background()

	out, err := uc.SetQuantity(ctx, "batch-1", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.CurrentQuantity)
	assert.False(t, out.IsActive, "lote en cero queda desactivado")

	// Un lote desactivado sale de las consultas y ya no admite correcciones
	list, err := uc.ListActive(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = uc.SetQuantity(ctx, "batch-1", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetQuantity_NegativaInvalida(t *testing.T) {
	uc := expiration.NewBatchUseCase(newMemBatchRepo(batchIn(20, 30)))
	_, err := uc.SetQuantity(context.Background(), "batch-1", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetQuantity_LoteInexistente(t *testing.T) {
	uc := expiration.NewBatchUseCase(newMemBatchRepo())
	_, err := uc.SetQuantity(context.Background(), "no-existe", 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListActive_ClasificaPorBucket(t *testing.T) {
	expired := batchIn(-2, 10)
	expired.ID = "b-expired"
	critical := batchIn(5, 10)
	critical.ID = "b-critical"
	near := batchIn(25, 10)
	near.ID = "b-near"
	watch := batchIn(60, 10)
	watch.ID = "b-watch"
	ok := batchIn(120, 10)
	ok.ID = "b-ok"

	uc := expiration.NewBatchUseCase(newMemBatchRepo(expired, critical, near, watch, ok))
	ctx := context.Background()

	all, err := uc.ListActive(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	buckets := map[string]string{}
	for _, b := range all {
		buckets[b.ID] = b.Bucket
	}
	assert.Equal(t, ledger.BucketExpired, buckets["b-expired"])
	assert.Equal(t, ledger.BucketCritical, buckets["b-critical"])
	assert.Equal(t, ledger.BucketNear, buckets["b-near"])
	assert.Equal(t, ledger.BucketWatch, buckets["b-watch"])
	assert.Equal(t, ledger.BucketOK, buckets["b-ok"])

	// Filtro por bucket
	onlyCritical, err := uc.ListActive(ctx, "", ledger.BucketCritical)
	require.NoError(t, err)
	require.Len(t, onlyCritical, 1)
	assert.Equal(t, "b-critical", onlyCritical[0].ID)

	// Bucket desconocido
	_, err = uc.ListActive(ctx, "", "pronto")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Un lote vencido hace menos de 24 horas ya es "expired", no "critical".
func TestListActive_VencidoHaceHorasEsExpired(t *testing.T) {
	b := batchIn(0, 10)
	b.ExpirationDate = time.Now().Add(-12 * time.Hour)
	uc := expiration.NewBatchUseCase(newMemBatchRepo(b))
	ctx := context.Background()

	expired, err := uc.ListActive(ctx, "", ledger.BucketExpired)
	require.NoError(t, err)
	require.Len(t, expired, 1, "el lote vencido debe aparecer en bucket=expired")
	assert.Equal(t, ledger.BucketExpired, expired[0].Bucket)
	assert.Negative(t, expired[0].DaysToExpiry)

	critical, err := uc.ListActive(ctx, "", ledger.BucketCritical)
	require.NoError(t, err)
	assert.Empty(t, critical, "un lote ya vencido no puede clasificarse como crítico")
}
