package expiration

import (
	"context"
	"time"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/ledger"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// BatchUseCase gestiona los lotes fechados. Los lotes se crean SOLO desde la
// reposición (ledger.Replenish); aquí vive la corrección manual a la baja y la
// consulta por buckets de vencimiento. "Reabastecer" un lote no existe: eso
// sería un lote nuevo.
type BatchUseCase struct {
	batchRepo repository.ExpirationBatchRepository
}

// NewBatchUseCase construye el caso de uso.
func NewBatchUseCase(batchRepo repository.ExpirationBatchRepository) *BatchUseCase {
	return &BatchUseCase{batchRepo: batchRepo}
}

// SetQuantity corrige la cantidad restante de un lote. La única dirección
// legal es hacia abajo: un intento de aumento falla con ErrQuantityIncrease y
// deja el valor intacto. Al llegar a 0 el lote se desactiva y desaparece de
// las consultas de vencimiento.
func (uc *BatchUseCase) SetQuantity(ctx context.Context, batchID string, newQuantity int64) (*dto.ExpirationBatchResponse, error) {
	if newQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	b, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, err
	}
	if b == nil || !b.IsActive {
		return nil, domain.ErrNotFound
	}
	if newQuantity > b.CurrentQuantity {
		return nil, domain.ErrQuantityIncrease
	}

	// UPDATE condicionado: si otra operación bajó la cantidad entre la lectura
	// y aquí, el guard current_quantity >= $new decide, no la lectura.
	ok, err := uc.batchRepo.DecreaseTo(batchID, newQuantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		b, err = uc.batchRepo.GetByID(batchID)
		if err != nil {
			return nil, err
		}
		if b == nil || !b.IsActive {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrQuantityIncrease
	}

	updated, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	resp := toBatchResponse(updated, time.Now())
	return &resp, nil
}

// Get devuelve un lote por ID (activo o no).
func (uc *BatchUseCase) Get(ctx context.Context, batchID string) (*dto.ExpirationBatchResponse, error) {
	b, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	resp := toBatchResponse(b, time.Now())
	return &resp, nil
}

// ListActive lista los lotes activos con su bucket de vencimiento calculado al
// momento de la consulta. bucket filtra: expired | critical | near | watch |
// ok; vacío devuelve todos. productID vacío = todos los productos.
func (uc *BatchUseCase) ListActive(ctx context.Context, productID, bucket string) ([]dto.ExpirationBatchResponse, error) {
	switch bucket {
	case "", ledger.BucketExpired, ledger.BucketCritical, ledger.BucketNear, ledger.BucketWatch, ledger.BucketOK:
	default:
		return nil, domain.ErrInvalidInput
	}

	var (
		list []*entity.ExpirationBatch
		err  error
	)
	if productID != "" {
		list, err = uc.batchRepo.ListActiveByProduct(productID)
	} else {
		list, err = uc.batchRepo.ListActive()
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]dto.ExpirationBatchResponse, 0, len(list))
	for _, b := range list {
		resp := toBatchResponse(b, now)
		if bucket != "" && resp.Bucket != bucket {
			continue
		}
		out = append(out, resp)
	}
	return out, nil
}

func toBatchResponse(b *entity.ExpirationBatch, now time.Time) dto.ExpirationBatchResponse {
	days := b.DaysToExpiry(now)
	return dto.ExpirationBatchResponse{
		ID:               b.ID,
		ProductID:        b.ProductID,
		SupplierID:       b.SupplierID,
		ReplenishmentID:  b.ReplenishmentID,
		OriginalQuantity: b.OriginalQuantity,
		CurrentQuantity:  b.CurrentQuantity,
		ExpirationDate:   b.ExpirationDate,
		IsActive:         b.IsActive,
		DaysToExpiry:     days,
		Bucket:           ledger.ExpiryBucket(days),
	}
}
