package dto

import "time"

// SetBatchQuantityRequest body para PUT /api/expiration-batches/:id/quantity.
// Solo se acepta una cantidad menor o igual a la actual (corrección a la baja).
type SetBatchQuantityRequest struct {
	Quantity int64 `json:"quantity" validate:"min=0"`
}

// ExpirationBatchResponse un lote fechado con su clasificación de vencimiento
// calculada al momento de la consulta.
type ExpirationBatchResponse struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	SupplierID       string    `json:"supplier_id,omitempty"`
	ReplenishmentID  string    `json:"replenishment_id"`
	OriginalQuantity int64     `json:"original_quantity"`
	CurrentQuantity  int64     `json:"current_quantity"`
	ExpirationDate   time.Time `json:"expiration_date"`
	IsActive         bool      `json:"is_active"`
	DaysToExpiry     int       `json:"days_to_expiry"`
	Bucket           string    `json:"bucket"` // expired | critical | near | watch | ok
}
