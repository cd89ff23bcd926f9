package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.ExpirationBatchRepository = (*ExpirationBatchRepo)(nil)

// ExpirationBatchRepo implementación de ExpirationBatchRepository sobre PostgreSQL.
type ExpirationBatchRepo struct {
	q Querier
}

// NewExpirationBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpirationBatchRepository(q Querier) *ExpirationBatchRepo {
	return &ExpirationBatchRepo{q: q}
}

const batchColumns = `id, product_id, COALESCE(supplier_id, ''), COALESCE(replenishment_id, ''),
	original_quantity, current_quantity, expiration_date, is_active, created_at`

// Create inserta un lote nuevo.
func (r *ExpirationBatchRepo) Create(b *entity.ExpirationBatch) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	query := `
		INSERT INTO expiration_batches (id, product_id, supplier_id, replenishment_id,
			original_quantity, current_quantity, expiration_date, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	supplierID := (*string)(nil)
	if b.SupplierID != "" {
		supplierID = &b.SupplierID
	}
	replenishmentID := (*string)(nil)
	if b.ReplenishmentID != "" {
		replenishmentID = &b.ReplenishmentID
	}
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.ProductID, supplierID, replenishmentID,
		b.OriginalQuantity, b.CurrentQuantity, b.ExpirationDate, b.IsActive, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. Devuelve nil, nil si no existe.
func (r *ExpirationBatchRepo) GetByID(id string) (*entity.ExpirationBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM expiration_batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListActive lista los lotes activos, los que vencen primero al frente.
func (r *ExpirationBatchRepo) ListActive() ([]*entity.ExpirationBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM expiration_batches WHERE is_active ORDER BY expiration_date`
	return r.list(query, nil, "list active batches")
}

// ListActiveByProduct lista los lotes activos de un producto.
func (r *ExpirationBatchRepo) ListActiveByProduct(productID string) ([]*entity.ExpirationBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM expiration_batches WHERE is_active AND product_id = $1 ORDER BY expiration_date`
	return r.list(query, []any{productID}, "list active batches by product")
}

// DecreaseTo baja current_quantity a newQuantity en un solo UPDATE condicionado.
// La condición current_quantity >= $2 garantiza la monotonía bajo concurrencia:
// dos decrementos en carrera nunca pueden hacer subir la cantidad.
func (r *ExpirationBatchRepo) DecreaseTo(id string, newQuantity int64) (bool, error) {
	query := `
		UPDATE expiration_batches
		SET current_quantity = $2,
			is_active = CASE WHEN $2 = 0 THEN FALSE ELSE is_active END
		WHERE id = $1 AND is_active AND current_quantity >= $2`
	tag, err := r.q.Exec(context.Background(), query, id, newQuantity)
	if err != nil {
		return false, fmt.Errorf("decrease batch: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ExpirationBatchRepo) list(query string, args []any, op string) ([]*entity.ExpirationBatch, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.ExpirationBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.ExpirationBatch, error) {
	var b entity.ExpirationBatch
	err := row.Scan(
		&b.ID, &b.ProductID, &b.SupplierID, &b.ReplenishmentID,
		&b.OriginalQuantity, &b.CurrentQuantity, &b.ExpirationDate, &b.IsActive, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
