package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/ledger"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// DefaultExpiryThresholdDays es el horizonte por defecto del escaneo de
// vencimientos: solo lotes a este número de días o menos generan notificación.
const DefaultExpiryThresholdDays = 30

// Engine deriva notificaciones de los umbrales de stock y vencimiento.
// Es idempotente: antes de crear cualquier notificación verifica que no exista
// ya una NO leída con el mismo par (productID, type). Evaluarlo dos veces
// sobre el mismo estado produce exactamente una notificación.
type Engine struct {
	productRepo         repository.ProductRepository
	batchRepo           repository.ExpirationBatchRepository
	notifRepo           repository.NotificationRepository
	log                 *logger.Logger
	expiryThresholdDays int
}

// NewEngine construye el motor. thresholdDays <= 0 usa el valor por defecto.
func NewEngine(
	productRepo repository.ProductRepository,
	batchRepo repository.ExpirationBatchRepository,
	notifRepo repository.NotificationRepository,
	log *logger.Logger,
	thresholdDays int,
) *Engine {
	if thresholdDays <= 0 {
		thresholdDays = DefaultExpiryThresholdDays
	}
	return &Engine{
		productRepo:         productRepo,
		batchRepo:           batchRepo,
		notifRepo:           notifRepo,
		log:                 log,
		expiryThresholdDays: thresholdDays,
	}
}

// EvaluateStock re-evalúa los umbrales de stock de un producto y emite a lo
// sumo una notificación: la de la condición más severa aplicable.
func (e *Engine) EvaluateStock(ctx context.Context, productID string) error {
	p, err := e.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}

	ntype, priority, ok := ledger.StockAlert(p.Stock, p.MinStock)
	if !ok {
		return nil
	}

	var message string
	switch ntype {
	case entity.NotificationStockOut:
		message = fmt.Sprintf("Stock agotado: %s", p.Name)
	case entity.NotificationStockCritical:
		message = fmt.Sprintf("Stock crítico: %s (%d unidades)", p.Name, p.Stock)
	default:
		message = fmt.Sprintf("Stock bajo: %s (%d de mínimo %d)", p.Name, p.Stock, p.MinStock)
	}

	metadata, _ := json.Marshal(map[string]any{
		"stock":     p.Stock,
		"min_stock": p.MinStock,
		"sku":       p.SKU,
	})
	_, err = e.createIfNew(ntype, priority, p.ID, message, metadata)
	return err
}

// EvaluateExpirations escanea los lotes activos y emite notificaciones de
// vencimiento para los que estén dentro del horizonte configurado (o ya
// vencidos). Devuelve cuántas notificaciones nuevas se crearon.
func (e *Engine) EvaluateExpirations(ctx context.Context) (int, error) {
	batches, err := e.batchRepo.ListActive()
	if err != nil {
		return 0, err
	}

	now := time.Now()
	created := 0
	for _, b := range batches {
		days := b.DaysToExpiry(now)
		if days > e.expiryThresholdDays {
			continue
		}
		message := fmt.Sprintf("Lote del producto %s vence en %d días (%d unidades restantes)",
			b.ProductID, days, b.CurrentQuantity)
		if b.Expired(now) {
			message = fmt.Sprintf("Lote del producto %s VENCIDO hace %d días (%d unidades restantes)",
				b.ProductID, -days, b.CurrentQuantity)
		}
		metadata, _ := json.Marshal(map[string]any{
			"batch_id":         b.ID,
			"days_to_expiry":   days,
			"expiration_date":  b.ExpirationDate,
			"current_quantity": b.CurrentQuantity,
		})
		isNew, err := e.createIfNew(entity.NotificationExpiration, ledger.ExpiryPriority(days), b.ProductID, message, metadata)
		if err != nil {
			// Best-effort por lote: un fallo no detiene el escaneo.
			e.log.Warn().Err(err).Str("batch_id", b.ID).Msg("creación de notificación de vencimiento falló")
			continue
		}
		if isNew {
			created++
		}
	}
	return created, nil
}

// createIfNew aplica el contrato de dedup: si ya hay una notificación no leída
// del mismo (productID, type), no se crea otra. Devuelve si se creó una nueva.
func (e *Engine) createIfNew(ntype, priority, productID, message string, metadata json.RawMessage) (bool, error) {
	exists, err := e.notifRepo.ExistsUnread(productID, ntype)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	return true, e.notifRepo.Create(&entity.Notification{
		ID:        uuid.New().String(),
		Type:      ntype,
		Priority:  priority,
		ProductID: productID,
		Message:   message,
		Metadata:  metadata,
		IsRead:    false,
		CreatedAt: time.Now(),
	})
}
