package ledger

import "github.com/jhoicas/Tienda-api/internal/domain/entity"

// StockAlert evalúa los umbrales de stock de un producto (servicio de dominio).
// Devuelve el tipo y la prioridad de la condición MÁS severa aplicable, o
// ok=false si el stock está por encima de todos los umbrales. El umbral
// crítico es max(1, floor(MinStock × 0.25)).
func StockAlert(stock, minStock int64) (ntype, priority string, ok bool) {
	if stock == 0 {
		return entity.NotificationStockOut, entity.PriorityCritical, true
	}
	critical := minStock / 4
	if critical < 1 {
		critical = 1
	}
	if stock <= critical {
		return entity.NotificationStockCritical, entity.PriorityHigh, true
	}
	if stock <= minStock {
		return entity.NotificationStockLow, entity.PriorityNormal, true
	}
	return "", "", false
}

// Buckets de vencimiento calculados al momento de la consulta (no se almacenan).
const (
	BucketExpired  = "expired"  // fecha ya pasada
	BucketCritical = "critical" // ≤ 7 días
	BucketNear     = "near"     // ≤ 30 días
	BucketWatch    = "watch"    // ≤ 90 días
	BucketOK       = "ok"
)

// ExpiryBucket clasifica un lote según los días que le faltan para vencer.
func ExpiryBucket(daysToExpiry int) string {
	switch {
	case daysToExpiry < 0:
		return BucketExpired
	case daysToExpiry <= 7:
		return BucketCritical
	case daysToExpiry <= 30:
		return BucketNear
	case daysToExpiry <= 90:
		return BucketWatch
	default:
		return BucketOK
	}
}

// ExpiryPriority asigna la prioridad de la notificación de vencimiento.
func ExpiryPriority(daysToExpiry int) string {
	switch {
	case daysToExpiry <= 7:
		return entity.PriorityCritical
	case daysToExpiry <= 14:
		return entity.PriorityHigh
	default:
		return entity.PriorityNormal
	}
}
