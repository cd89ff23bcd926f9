package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia de productos.
// El campo Stock solo debe modificarse dentro de la transacción del ledger.
type ProductRepository interface {
	Create(p *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para la
	// lectura-modificación-escritura del stock dentro de una transacción.
	GetForUpdate(id string) (*entity.Product, error)
	UpdateStock(id string, newStock int64) error
	UpdateCost(id string, cost decimal.Decimal) error
	SetInventoryStatus(id string, date time.Time, status string) error
}
