package repository

import "github.com/jhoicas/Tienda-api/internal/domain/entity"

// ExpirationBatchRepository define el puerto de persistencia de lotes fechados.
type ExpirationBatchRepository interface {
	Create(b *entity.ExpirationBatch) error
	GetByID(id string) (*entity.ExpirationBatch, error)
	ListActive() ([]*entity.ExpirationBatch, error)
	ListActiveByProduct(productID string) ([]*entity.ExpirationBatch, error)
	// DecreaseTo baja current_quantity a newQuantity con un UPDATE condicionado
	// (is_active AND current_quantity >= newQuantity) y desactiva el lote si
	// llega a 0. Devuelve false si ninguna fila cumplió la condición; el caller
	// reclasifica (inexistente/inactivo vs. intento de aumento).
	DecreaseTo(id string, newQuantity int64) (bool, error)
}
