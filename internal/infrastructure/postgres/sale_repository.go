package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
// Las sumas por método de pago alimentan la conciliación de caja.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de una venta.
func (r *SaleRepo) Create(s *entity.Sale) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales (id, total, payment_method, sale_date, reference, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	reference := (*string)(nil)
	if s.Reference != "" {
		reference = &s.Reference
	}
	createdBy := (*string)(nil)
	if s.CreatedBy != "" {
		createdBy = &s.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.Total, s.PaymentMethod, s.SaleDate, reference, s.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// SumByPaymentMethod suma los totales con sale_date >= from (y <= to si aplica).
func (r *SaleRepo) SumByPaymentMethod(method string, from time.Time, to *time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(total), 0) FROM sales WHERE payment_method = $1 AND sale_date >= $2`
	args := []any{method, from}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND sale_date <= $%d", len(args))
	}
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum sales: %w", err)
	}
	return sum, nil
}

// CountByPaymentMethod cuenta las ventas del método en la ventana.
func (r *SaleRepo) CountByPaymentMethod(method string, from time.Time, to *time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM sales WHERE payment_method = $1 AND sale_date >= $2`
	args := []any{method, from}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND sale_date <= $%d", len(args))
	}
	var count int64
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return count, nil
}

// ListBetween lista ventas de la ventana, más recientes primero.
func (r *SaleRepo) ListBetween(from time.Time, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT id, total, payment_method, sale_date, COALESCE(reference, ''), created_at, COALESCE(created_by, '')
		FROM sales WHERE sale_date >= $1`
	args := []any{from}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND sale_date <= $%d", len(args))
	}
	query += fmt.Sprintf(" ORDER BY sale_date DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.Total, &s.PaymentMethod, &s.SaleDate, &s.Reference, &s.CreatedAt, &s.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
