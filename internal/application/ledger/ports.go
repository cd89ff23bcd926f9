package ledger

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza la atomicidad del ledger: nadie
// observa un movimiento sin su stock actualizado, ni al revés.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		sessionRepo repository.CashSessionRepository,
		batchRepo repository.ExpirationBatchRepository,
	) error) error
}

// StockAlertNotifier re-evalúa los umbrales de stock de un producto después de
// un movimiento. Es best-effort: se invoca fuera de la transacción y sus
// errores se registran en el log sin revertir la mutación que lo disparó.
type StockAlertNotifier interface {
	EvaluateStock(ctx context.Context, productID string) error
}
