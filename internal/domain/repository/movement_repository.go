package repository

import (
	"time"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del ledger de movimientos.
// La tabla es append-only: no hay Update ni Delete.
type MovementRepository interface {
	Create(m *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	// SumDeltasByProduct devuelve la suma firmada de todos los deltas del
	// producto; se usa para auditar la consistencia del stock cacheado.
	SumDeltasByProduct(productID string) (int64, error)
}
