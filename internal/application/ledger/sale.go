package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// RegisterSale registra una venta completa en UNA transacción: un movimiento
// SALE por línea (con la regla de no-negatividad), la cabecera de venta para
// la conciliación, y — si el pago es en efectivo — el incremento de totales de
// la sesión de caja. O se escribe todo, o no se escribe nada: sin esto la
// conciliación de caja no cuadra con el inventario.
func (uc *LedgerUseCase) RegisterSale(ctx context.Context, userID string, in dto.RegisterSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	switch in.PaymentMethod {
	case entity.PaymentCash, entity.PaymentCard, entity.PaymentTransfer:
	default:
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice != nil && item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	// Validar productos y resolver precios fuera de la tx (solo lectura).
	pricesByID := make(map[string]decimal.Decimal, len(in.Items))
	for _, item := range in.Items {
		if item.UnitPrice != nil {
			pricesByID[item.ProductID] = *item.UnitPrice
			continue
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		pricesByID[item.ProductID] = product.Price
	}

	now := time.Now()
	saleID := uuid.New().String()

	total := decimal.Zero
	for _, item := range in.Items {
		total = total.Add(pricesByID[item.ProductID].Mul(decimal.NewFromInt(item.Quantity)))
	}

	var (
		movements []*entity.Movement
		sessionID string
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		sessionRepo repository.CashSessionRepository,
		_ repository.ExpirationBatchRepository,
	) error {
		for _, item := range in.Items {
			mov, _, err := appendInTx(movRepo, productRepo, item.ProductID,
				entity.MovementSale, -item.Quantity, "venta", saleID, userID, now)
			if err != nil {
				return err
			}
			movements = append(movements, mov)
		}
		sale := &entity.Sale{
			ID:            saleID,
			Total:         total,
			PaymentMethod: in.PaymentMethod,
			SaleDate:      now,
			Reference:     in.Reference,
			CreatedAt:     now,
			CreatedBy:     userID,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		if in.PaymentMethod == entity.PaymentCash {
			// Acredita la sesión abierta, o la unassigned si no hay ninguna.
			id, err := sessionRepo.AddCashSaleToCurrent(total)
			if err != nil {
				return err
			}
			sessionID = id
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Re-evaluar umbrales una vez por producto, fuera de la tx.
	seen := make(map[string]bool, len(in.Items))
	for _, item := range in.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			uc.notifyStock(ctx, item.ProductID)
		}
	}

	resp := &dto.SaleResponse{
		ID:            saleID,
		Total:         total,
		PaymentMethod: in.PaymentMethod,
		SaleDate:      now,
		SessionID:     sessionID,
	}
	for _, m := range movements {
		resp.Movements = append(resp.Movements, toMovementResponse(m))
	}
	return resp, nil
}
