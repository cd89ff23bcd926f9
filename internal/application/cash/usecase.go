package cash

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

// CashSessionUseCase gobierna el ciclo de vida de la sesión de caja:
// open → counted (repetible) → closed. La exclusividad (una sola sesión
// abierta) la hace cumplir el almacenamiento, no estado en memoria.
//
// El incremento de totales por venta en efectivo NO está aquí: ocurre dentro
// de la transacción de la venta, vía CashSessionRepository.AddCashSaleToCurrent.
type CashSessionUseCase struct {
	sessionRepo repository.CashSessionRepository
	saleRepo    repository.SaleRepository
}

// NewCashSessionUseCase construye el caso de uso.
func NewCashSessionUseCase(sessionRepo repository.CashSessionRepository, saleRepo repository.SaleRepository) *CashSessionUseCase {
	return &CashSessionUseCase{sessionRepo: sessionRepo, saleRepo: saleRepo}
}

// Open abre una sesión de caja. Si ya hay una abierta devuelve
// ErrSessionAlreadyOpen junto con la sesión actual, para que el caller pueda
// redirigir al usuario a la acción correcta.
func (uc *CashSessionUseCase) Open(ctx context.Context, cashierName string, in dto.OpenSessionRequest) (*dto.CashSessionResponse, error) {
	if in.OpeningAmount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.CashierName != "" {
		cashierName = in.CashierName
	}
	if cashierName == "" {
		return nil, domain.ErrInvalidInput
	}

	s := &entity.CashSession{
		ID:                uuid.New().String(),
		Status:            entity.SessionOpen,
		OpeningAmount:     in.OpeningAmount,
		TotalSales:        decimal.Zero,
		TotalTransactions: 0,
		ExpectedAmount:    in.OpeningAmount,
		StartTime:         time.Now(),
		CashierName:       cashierName,
	}
	if err := uc.sessionRepo.CreateOpen(s); err != nil {
		if err == domain.ErrSessionAlreadyOpen {
			if current, gerr := uc.sessionRepo.GetOpen(); gerr == nil && current != nil {
				resp := toSessionResponse(current)
				return &resp, domain.ErrSessionAlreadyOpen
			}
		}
		return nil, err
	}
	resp := toSessionResponse(s)
	return &resp, nil
}

// Count registra un arqueo intermedio: recalcula el monto esperado DESDE el
// historial de ventas (no desde el contador incremental, que es solo cache) y
// deja la sesión en counted. Se puede repetir; no termina la sesión.
func (uc *CashSessionUseCase) Count(ctx context.Context, sessionID string, in dto.CountCashRequest) (*dto.CashSessionResponse, error) {
	s, err := uc.loadReconcilable(sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.reconcile(s, in.ActualAmount, in.Notes); err != nil {
		return nil, err
	}
	s.Status = entity.SessionCounted
	if err := uc.sessionRepo.UpdateReconciliation(s); err != nil {
		return nil, err
	}
	resp := toSessionResponse(s)
	return &resp, nil
}

// Close cierra la sesión: misma aritmética de conciliación que Count, más
// end_time y status=closed. Una sesión cerrada es inmutable.
func (uc *CashSessionUseCase) Close(ctx context.Context, sessionID string, in dto.CloseSessionRequest) (*dto.CashSessionResponse, error) {
	s, err := uc.loadReconcilable(sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.reconcile(s, in.ActualAmount, in.Notes); err != nil {
		return nil, err
	}
	now := time.Now()
	s.Status = entity.SessionClosed
	s.EndTime = &now
	if err := uc.sessionRepo.UpdateReconciliation(s); err != nil {
		return nil, err
	}
	resp := toSessionResponse(s)
	return &resp, nil
}

// Recalculate es la operación administrativa de reparación: recomputa
// total_sales, total_transactions y expected_amount desde los registros de
// venta de la ventana de la sesión. Se usa para corregir deriva del contador
// tras correcciones fuera de banda. No cambia el estado de la sesión.
func (uc *CashSessionUseCase) Recalculate(ctx context.Context, sessionID string) (*dto.CashSessionResponse, error) {
	s, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}

	sum, err := uc.saleRepo.SumByPaymentMethod(entity.PaymentCash, s.StartTime, s.EndTime)
	if err != nil {
		return nil, err
	}
	count, err := uc.saleRepo.CountByPaymentMethod(entity.PaymentCash, s.StartTime, s.EndTime)
	if err != nil {
		return nil, err
	}
	s.TotalSales = sum
	s.TotalTransactions = count
	s.ExpectedAmount = s.OpeningAmount.Add(sum)
	if s.Status == entity.SessionCounted || s.Status == entity.SessionClosed {
		s.Difference = s.ExpectedAmount.Sub(s.ActualAmount)
	}
	if err := uc.sessionRepo.UpdateReconciliation(s); err != nil {
		return nil, err
	}
	resp := toSessionResponse(s)
	return &resp, nil
}

// Current devuelve la sesión abierta o nil si no hay ninguna.
func (uc *CashSessionUseCase) Current(ctx context.Context) (*dto.CashSessionResponse, error) {
	s, err := uc.sessionRepo.GetOpen()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	resp := toSessionResponse(s)
	return &resp, nil
}

// Get devuelve una sesión por ID.
func (uc *CashSessionUseCase) Get(ctx context.Context, sessionID string) (*dto.CashSessionResponse, error) {
	s, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	resp := toSessionResponse(s)
	return &resp, nil
}

// List lista sesiones, más recientes primero.
func (uc *CashSessionUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.CashSessionResponse, error) {
	page.DefaultPage()
	list, err := uc.sessionRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CashSessionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSessionResponse(s))
	}
	return out, nil
}

func (uc *CashSessionUseCase) loadReconcilable(sessionID string) (*entity.CashSession, error) {
	s, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.Terminal() {
		return nil, domain.ErrSessionNotOpenOrCounted
	}
	return s, nil
}

// reconcile aplica la identidad de conciliación:
// expected = opening + Σ(ventas en efectivo con sale_date >= start_time)
// difference = expected − actual (positivo = faltante).
func (uc *CashSessionUseCase) reconcile(s *entity.CashSession, actual decimal.Decimal, notes string) error {
	if actual.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	sum, err := uc.saleRepo.SumByPaymentMethod(entity.PaymentCash, s.StartTime, nil)
	if err != nil {
		return err
	}
	s.ExpectedAmount = s.OpeningAmount.Add(sum)
	s.ActualAmount = actual
	s.Difference = s.ExpectedAmount.Sub(actual)
	if notes != "" {
		s.Notes = notes
	}
	return nil
}

func toSessionResponse(s *entity.CashSession) dto.CashSessionResponse {
	return dto.CashSessionResponse{
		ID:                s.ID,
		Status:            s.Status,
		OpeningAmount:     s.OpeningAmount,
		TotalSales:        s.TotalSales,
		TotalTransactions: s.TotalTransactions,
		ExpectedAmount:    s.ExpectedAmount,
		ActualAmount:      s.ActualAmount,
		Difference:        s.Difference,
		Notes:             s.Notes,
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		CashierName:       s.CashierName,
	}
}
