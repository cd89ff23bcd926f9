package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del último inventario físico de un producto.
const (
	InventoryStatusOK       = "OK"       // el conteo coincidió con el stock registrado
	InventoryStatusAdjusted = "ADJUSTED" // el conteo obligó a un ajuste
)

// Product representa un producto del punto de venta.
// Stock es un valor derivado: siempre igual al stock inicial más la suma firmada
// de todos los movimientos del producto. Solo se modifica a través del ledger.
type Product struct {
	ID                  string
	SKU                 string // código único
	Name                string
	Stock               int64           // cantidad actual en existencia (cache del ledger)
	MinStock            int64           // umbral de alerta de stock bajo
	CostPrice           decimal.Decimal // costo promedio ponderado
	Price               decimal.Decimal // precio de venta
	LastInventoryDate   *time.Time
	LastInventoryStatus string // OK | ADJUSTED (vacío si nunca se ha hecho inventario)
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
