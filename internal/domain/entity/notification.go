package entity

import (
	"encoding/json"
	"time"
)

// Tipos de notificación emitidos por el motor de alertas.
const (
	NotificationStockOut      = "stock_out"
	NotificationStockCritical = "stock_critical"
	NotificationStockLow      = "stock_low"
	NotificationExpiration    = "expiration"
)

// Prioridades de notificación.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityNormal   = "normal"
)

// Notification es una alerta derivada de los umbrales de stock o vencimiento.
// Regla de unicidad: nunca debe existir más de una notificación NO leída con
// el mismo par (ProductID, Type); debe resolverse (leerse) antes de que el
// motor emita otra del mismo tipo.
type Notification struct {
	ID        string
	Type      string
	Priority  string
	ProductID string // vacío para notificaciones no ligadas a un producto
	Message   string
	Metadata  json.RawMessage
	IsRead    bool
	CreatedAt time.Time
}
