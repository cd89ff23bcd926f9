package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	ledgerdomain "github.com/jhoicas/Tienda-api/internal/domain/ledger"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// Replenish registra una reposición: movimiento REPLENISHMENT (+cantidad),
// recálculo del costo promedio ponderado si viene unit_cost, y creación del
// lote fechado si viene expiration_date — todo en una transacción. El lote
// nace con current_quantity == original_quantity y solo podrá bajar.
func (uc *LedgerUseCase) Replenish(ctx context.Context, userID string, in dto.ReplenishRequest) (*dto.ReplenishResponse, error) {
	if in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.ExpirationDate != nil && in.ExpirationDate.Before(time.Now()) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var (
		mov   *entity.Movement
		batch *entity.ExpirationBatch
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		_ repository.SaleRepository,
		_ repository.CashSessionRepository,
		batchRepo repository.ExpirationBatchRepository,
	) error {
		var (
			product *entity.Product
			err     error
		)
		mov, product, err = appendInTx(movRepo, productRepo, in.ProductID,
			entity.MovementReplenishment, in.Quantity, "reposición", in.Reference, userID, now)
		if err != nil {
			return err
		}
		if in.UnitCost != nil {
			newCost := ledgerdomain.WeightedCost(mov.PreviousStock, product.CostPrice, in.Quantity, *in.UnitCost)
			if err := productRepo.UpdateCost(product.ID, newCost); err != nil {
				return err
			}
		}
		if in.ExpirationDate != nil {
			batch = &entity.ExpirationBatch{
				ID:               uuid.New().String(),
				ProductID:        in.ProductID,
				SupplierID:       in.SupplierID,
				ReplenishmentID:  mov.ID,
				OriginalQuantity: in.Quantity,
				CurrentQuantity:  in.Quantity,
				ExpirationDate:   *in.ExpirationDate,
				IsActive:         true,
				CreatedAt:        now,
			}
			if err := batchRepo.Create(batch); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifyStock(ctx, in.ProductID)

	resp := &dto.ReplenishResponse{Movement: toMovementResponse(mov)}
	if batch != nil {
		resp.Batch = &dto.ExpirationBatchResponse{
			ID:               batch.ID,
			ProductID:        batch.ProductID,
			SupplierID:       batch.SupplierID,
			ReplenishmentID:  batch.ReplenishmentID,
			OriginalQuantity: batch.OriginalQuantity,
			CurrentQuantity:  batch.CurrentQuantity,
			ExpirationDate:   batch.ExpirationDate,
			IsActive:         batch.IsActive,
			DaysToExpiry:     batch.DaysToExpiry(now),
			Bucket:           ledgerdomain.ExpiryBucket(batch.DaysToExpiry(now)),
		}
	}
	return resp, nil
}
