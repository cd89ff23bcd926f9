package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products. El stock inicial es 0:
// las existencias entran después vía reposición o ajuste, por el ledger.
type CreateProductRequest struct {
	SKU       string          `json:"sku" validate:"required,max=50"`
	Name      string          `json:"name" validate:"required,max=200"`
	MinStock  int64           `json:"min_stock" validate:"min=0"`
	CostPrice decimal.Decimal `json:"cost_price" validate:"min=0"`
	Price     decimal.Decimal `json:"price" validate:"min=0"`
}

// ProductResponse salida de un producto con su cuenta de stock.
type ProductResponse struct {
	ID                  string          `json:"id"`
	SKU                 string          `json:"sku"`
	Name                string          `json:"name"`
	Stock               int64           `json:"stock"`
	MinStock            int64           `json:"min_stock"`
	CostPrice           decimal.Decimal `json:"cost_price"`
	Price               decimal.Decimal `json:"price"`
	LastInventoryDate   *time.Time      `json:"last_inventory_date,omitempty"`
	LastInventoryStatus string          `json:"last_inventory_status,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
