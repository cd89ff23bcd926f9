package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppendMovementRequest body para POST /api/inventory/movements.
// Las ventas no entran por aquí: se registran vía POST /api/sales para que el
// movimiento y los totales de caja queden en la misma transacción.
type AppendMovementRequest struct {
	ProductID     string `json:"product_id" validate:"required,uuid"`
	Type          string `json:"type" validate:"required,oneof=ADJUSTMENT REPLENISHMENT RETURN_IN"`
	QuantityDelta int64  `json:"quantity_delta" validate:"required"`
	Reason        string `json:"reason" validate:"required,max=500"`
	Reference     string `json:"reference,omitempty"`
}

// AdjustStockRequest body para POST /api/inventory/adjust: fija el stock a un
// valor absoluto; el delta se calcula contra el stock bloqueado en la tx.
type AdjustStockRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	NewStock  int64  `json:"new_stock" validate:"min=0"`
	Reason    string `json:"reason" validate:"required,max=500"`
}

// MovementResponse una entrada del ledger.
type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Type          string    `json:"type"`
	QuantityDelta int64     `json:"quantity_delta"`
	PreviousStock int64     `json:"previous_stock"`
	NewStock      int64     `json:"new_stock"`
	Reason        string    `json:"reason"`
	Reference     string    `json:"reference,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by,omitempty"`
}

// LedgerCheckResponse resultado de la auditoría stock-vs-ledger de un producto.
type LedgerCheckResponse struct {
	ProductID  string `json:"product_id"`
	Stock      int64  `json:"stock"`
	LedgerSum  int64  `json:"ledger_sum"`
	Consistent bool   `json:"consistent"`
}

// SaleItemRequest una línea de venta. UnitPrice vacío usa el precio del producto.
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int64            `json:"quantity" validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// RegisterSaleRequest body para POST /api/sales.
type RegisterSaleRequest struct {
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=CASH CARD TRANSFER"`
	Reference     string            `json:"reference,omitempty"`
}

// SaleResponse salida de una venta registrada.
type SaleResponse struct {
	ID            string             `json:"id"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	SaleDate      time.Time          `json:"sale_date"`
	SessionID     string             `json:"session_id,omitempty"` // sesión de caja acreditada (solo efectivo)
	Movements     []MovementResponse `json:"movements"`
}

// ReplenishRequest body para POST /api/inventory/replenishments.
// ExpirationDate opcional: si viene, se crea un lote fechado.
type ReplenishRequest struct {
	ProductID      string           `json:"product_id" validate:"required,uuid"`
	SupplierID     string           `json:"supplier_id,omitempty"`
	Quantity       int64            `json:"quantity" validate:"required,min=1"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	ExpirationDate *time.Time       `json:"expiration_date,omitempty"`
	Reference      string           `json:"reference,omitempty"`
}

// ReplenishResponse movimiento creado y lote fechado (si aplica).
type ReplenishResponse struct {
	Movement MovementResponse         `json:"movement"`
	Batch    *ExpirationBatchResponse `json:"batch,omitempty"`
}
