package dto

import (
	"encoding/json"
	"time"
)

// NotificationResponse una notificación del motor de alertas.
type NotificationResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Priority  string          `json:"priority"`
	ProductID string          `json:"product_id,omitempty"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	IsRead    bool            `json:"is_read"`
	CreatedAt time.Time       `json:"created_at"`
}
