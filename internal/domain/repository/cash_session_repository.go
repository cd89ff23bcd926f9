package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// CashSessionRepository define el puerto de persistencia de sesiones de caja.
// La exclusividad (a lo sumo una sesión open) la hace cumplir el almacenamiento
// con un índice único parcial sobre status='open'.
type CashSessionRepository interface {
	// CreateOpen inserta una sesión con status=open. Devuelve
	// domain.ErrSessionAlreadyOpen si el índice único detecta otra abierta.
	CreateOpen(s *entity.CashSession) error
	GetByID(id string) (*entity.CashSession, error)
	// GetOpen devuelve la sesión abierta actual o nil si no hay.
	GetOpen() (*entity.CashSession, error)
	// AddCashSaleToCurrent incrementa total_sales y total_transactions de la
	// sesión abierta; si no hay ninguna, usa (o crea) la sesión unassigned.
	// Devuelve el ID de la sesión afectada. Debe ejecutarse dentro de la misma
	// transacción que registra la venta.
	AddCashSaleToCurrent(amount decimal.Decimal) (string, error)
	// UpdateReconciliation persiste status, totales, expected/actual/difference,
	// notas y end_time tras count/close/recalculate.
	UpdateReconciliation(s *entity.CashSession) error
	List(limit, offset int) ([]*entity.CashSession, error)
}
