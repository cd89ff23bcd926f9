package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia de ventas (cabeceras).
// Las sumas por método de pago son la fuente autoritativa de la conciliación
// de caja: el contador incremental de la sesión es solo un cache.
type SaleRepository interface {
	Create(s *entity.Sale) error
	// SumByPaymentMethod suma los totales con sale_date >= from (y <= to si to != nil).
	SumByPaymentMethod(method string, from time.Time, to *time.Time) (decimal.Decimal, error)
	CountByPaymentMethod(method string, from time.Time, to *time.Time) (int64, error)
	ListBetween(from time.Time, to *time.Time, limit, offset int) ([]*entity.Sale, error)
}
