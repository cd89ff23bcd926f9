package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.CashSessionRepository = (*CashSessionRepo)(nil)

// CashSessionRepo implementación de CashSessionRepository sobre PostgreSQL.
//
// La exclusividad de sesión abierta depende de dos índices únicos parciales:
//
//	CREATE UNIQUE INDEX ux_cash_sessions_open ON cash_sessions ((true)) WHERE status = 'open';
//	CREATE UNIQUE INDEX ux_cash_sessions_unassigned ON cash_sessions ((true)) WHERE status = 'unassigned';
//
// Dos opens concurrentes no pueden insertar ambos: el segundo recibe 23505.
type CashSessionRepo struct {
	q Querier
}

// NewCashSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashSessionRepository(q Querier) *CashSessionRepo {
	return &CashSessionRepo{q: q}
}

const sessionColumns = `id, status, opening_amount, total_sales, total_transactions,
	expected_amount, actual_amount, difference, COALESCE(notes, ''), start_time, end_time, cashier_name`

// CreateOpen inserta una sesión con status=open. El índice único parcial
// convierte el check-then-act en un solo acto: si ya hay una abierta, el
// INSERT falla con 23505 y se devuelve ErrSessionAlreadyOpen.
func (r *CashSessionRepo) CreateOpen(s *entity.CashSession) error {
	query := `
		INSERT INTO cash_sessions (id, status, opening_amount, total_sales, total_transactions,
			expected_amount, actual_amount, difference, start_time, cashier_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, entity.SessionOpen, s.OpeningAmount, s.TotalSales, s.TotalTransactions,
		s.ExpectedAmount, s.ActualAmount, s.Difference, s.StartTime, s.CashierName,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSessionAlreadyOpen
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión. Devuelve nil, nil si no existe.
func (r *CashSessionRepo) GetByID(id string) (*entity.CashSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cash_sessions WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get session")
}

// GetOpen devuelve la sesión abierta actual o nil si no hay ninguna.
func (r *CashSessionRepo) GetOpen() (*entity.CashSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cash_sessions WHERE status = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, entity.SessionOpen), "get open session")
}

// AddCashSaleToCurrent incrementa los totales de la sesión abierta; si no hay
// ninguna, usa (o crea) la sesión unassigned. Diseñado para ejecutarse dentro
// de la transacción de la venta.
func (r *CashSessionRepo) AddCashSaleToCurrent(amount decimal.Decimal) (string, error) {
	ctx := context.Background()
	update := `
		UPDATE cash_sessions
		SET total_sales = total_sales + $1, total_transactions = total_transactions + 1
		WHERE status = $2
		RETURNING id`

	var id string
	err := r.q.QueryRow(ctx, update, amount, entity.SessionOpen).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("add cash sale: %w", err)
	}

	// Sin sesión abierta: la venta se estaciona en la sesión unassigned.
	err = r.q.QueryRow(ctx, update, amount, entity.SessionUnassigned).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("add cash sale (unassigned): %w", err)
	}

	id = uuid.New().String()
	insert := `
		INSERT INTO cash_sessions (id, status, opening_amount, total_sales, total_transactions,
			expected_amount, actual_amount, difference, start_time, cashier_name)
		VALUES ($1, $2, 0, $3, 1, 0, 0, 0, $4, 'sistema')`
	if _, err := r.q.Exec(ctx, insert, id, entity.SessionUnassigned, amount, time.Now()); err != nil {
		if isUniqueViolation(err) {
			// Otra tx creó la unassigned entre el UPDATE y el INSERT.
			if err := r.q.QueryRow(ctx, update, amount, entity.SessionUnassigned).Scan(&id); err != nil {
				return "", fmt.Errorf("add cash sale (retry unassigned): %w", err)
			}
			return id, nil
		}
		return "", fmt.Errorf("create unassigned session: %w", err)
	}
	return id, nil
}

// UpdateReconciliation persiste el resultado de count/close/recalculate.
func (r *CashSessionRepo) UpdateReconciliation(s *entity.CashSession) error {
	query := `
		UPDATE cash_sessions
		SET status = $2, total_sales = $3, total_transactions = $4, expected_amount = $5,
			actual_amount = $6, difference = $7, notes = $8, end_time = $9
		WHERE id = $1`
	notes := (*string)(nil)
	if s.Notes != "" {
		notes = &s.Notes
	}
	tag, err := r.q.Exec(context.Background(), query,
		s.ID, s.Status, s.TotalSales, s.TotalTransactions, s.ExpectedAmount,
		s.ActualAmount, s.Difference, notes, s.EndTime,
	)
	if err != nil {
		return fmt.Errorf("update reconciliation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista sesiones, más recientes primero.
func (r *CashSessionRepo) List(limit, offset int) ([]*entity.CashSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cash_sessions ORDER BY start_time DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *CashSessionRepo) scanOne(row pgx.Row, op string) (*entity.CashSession, error) {
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func scanSession(row pgx.Row) (*entity.CashSession, error) {
	var s entity.CashSession
	err := row.Scan(
		&s.ID, &s.Status, &s.OpeningAmount, &s.TotalSales, &s.TotalTransactions,
		&s.ExpectedAmount, &s.ActualAmount, &s.Difference, &s.Notes, &s.StartTime, &s.EndTime, &s.CashierName,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
