package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// LedgerUseCase registra movimientos de stock de forma transaccional con
// bloqueo de fila (SELECT FOR UPDATE) sobre el producto. Todo cambio de stock
// pasa por aquí: el campo stock del producto es un cache derivado del ledger.
type LedgerUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	alerts       StockAlertNotifier
	log          *logger.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	alerts StockAlertNotifier,
	log *logger.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		alerts:       alerts,
		log:          log,
	}
}

// Append registra un movimiento con delta firmado. Reglas de signo por tipo:
// REPLENISHMENT y RETURN_IN exigen delta positivo, SALE exige delta negativo,
// ADJUSTMENT acepta cualquiera. Un movimiento saliente que dejaría el stock
// negativo falla con ErrInsufficientStock sin escribir nada.
func (uc *LedgerUseCase) Append(ctx context.Context, userID string, in dto.AppendMovementRequest) (*dto.MovementResponse, error) {
	mtype := entity.MovementType(in.Type)
	if !mtype.Valid() || in.ProductID == "" || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	switch mtype {
	case entity.MovementReplenishment, entity.MovementReturnIn:
		if in.QuantityDelta <= 0 {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementSale:
		if in.QuantityDelta >= 0 {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementAdjustment:
		if in.QuantityDelta == 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		_ repository.SaleRepository,
		_ repository.CashSessionRepository,
		_ repository.ExpirationBatchRepository,
	) error {
		var err error
		mov, _, err = appendInTx(movRepo, productRepo, in.ProductID, mtype, in.QuantityDelta, in.Reason, in.Reference, userID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.notifyStock(ctx, in.ProductID)
	resp := toMovementResponse(mov)
	return &resp, nil
}

// Adjust fija el stock de un producto a un valor absoluto no negativo. Es
// azúcar sobre Append: el delta se calcula contra el stock bloqueado dentro de
// la transacción. Actualiza lastInventoryDate y lastInventoryStatus (OK si el
// conteo coincidió, ADJUSTED si hubo que corregir).
func (uc *LedgerUseCase) Adjust(ctx context.Context, userID string, in dto.AdjustStockRequest) (*dto.MovementResponse, error) {
	if in.ProductID == "" || in.NewStock < 0 || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		_ repository.SaleRepository,
		_ repository.CashSessionRepository,
		_ repository.ExpirationBatchRepository,
	) error {
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		delta := in.NewStock - product.Stock
		status := entity.InventoryStatusOK
		if delta != 0 {
			status = entity.InventoryStatusAdjusted
			mov = &entity.Movement{
				ID:            uuid.New().String(),
				ProductID:     product.ID,
				Type:          entity.MovementAdjustment,
				QuantityDelta: delta,
				PreviousStock: product.Stock,
				NewStock:      in.NewStock,
				Reason:        in.Reason,
				CreatedAt:     now,
				CreatedBy:     userID,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			if err := productRepo.UpdateStock(product.ID, in.NewStock); err != nil {
				return err
			}
		}
		return productRepo.SetInventoryStatus(product.ID, now, status)
	})
	if err != nil {
		return nil, err
	}

	uc.notifyStock(ctx, in.ProductID)
	if mov == nil {
		// El conteo coincidió: no hay movimiento que devolver.
		return nil, nil
	}
	resp := toMovementResponse(mov)
	return &resp, nil
}

// VerifyProduct audita la identidad del ledger para un producto:
// stock cacheado == suma firmada de todos sus movimientos.
func (uc *LedgerUseCase) VerifyProduct(ctx context.Context, productID string) (*dto.LedgerCheckResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	sum, err := uc.movementRepo.SumDeltasByProduct(productID)
	if err != nil {
		return nil, err
	}
	return &dto.LedgerCheckResponse{
		ProductID:  productID,
		Stock:      product.Stock,
		LedgerSum:  sum,
		Consistent: product.Stock == sum,
	}, nil
}

// ListMovements lista el historial de un producto (o de todos si productID es
// vacío) en un rango de fechas opcional.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, productID string, from, to *time.Time, page dto.PageRequest) ([]dto.MovementResponse, error) {
	page.DefaultPage()
	var (
		list []*entity.Movement
		err  error
	)
	if productID != "" {
		list, err = uc.movementRepo.ListByProduct(productID, from, to, page.Limit, page.Offset)
	} else {
		list, err = uc.movementRepo.List(from, to, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

// appendInTx hace la lectura-modificación-escritura del stock con la fila del
// producto bloqueada. Devuelve el movimiento creado y el producto bloqueado.
func appendInTx(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	productID string,
	mtype entity.MovementType,
	delta int64,
	reason, reference, userID string,
	now time.Time,
) (*entity.Movement, *entity.Product, error) {
	product, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	newStock := product.Stock + delta
	if newStock < 0 {
		if mtype.Outgoing() {
			return nil, nil, domain.ErrInsufficientStock
		}
		return nil, nil, domain.ErrInvalidInput
	}
	mov := &entity.Movement{
		ID:            uuid.New().String(),
		ProductID:     product.ID,
		Type:          mtype,
		QuantityDelta: delta,
		PreviousStock: product.Stock,
		NewStock:      newStock,
		Reason:        reason,
		Reference:     reference,
		CreatedAt:     now,
		CreatedBy:     userID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, nil, err
	}
	if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
		return nil, nil, err
	}
	return mov, product, nil
}

// notifyStock dispara la re-evaluación de umbrales fuera de la transacción.
// Best-effort: un fallo aquí nunca revierte el movimiento ya confirmado.
func (uc *LedgerUseCase) notifyStock(ctx context.Context, productID string) {
	if uc.alerts == nil {
		return
	}
	if err := uc.alerts.EvaluateStock(ctx, productID); err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Msg("evaluación de alertas de stock falló")
	}
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          string(m.Type),
		QuantityDelta: m.QuantityDelta,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Reason:        m.Reason,
		Reference:     m.Reference,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}
