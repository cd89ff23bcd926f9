package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de caja.
// open → counted (repetible) → closed. closed es terminal.
// unassigned es una sesión degenerada creada automáticamente para registrar
// ventas en efectivo cuando no hay ninguna sesión abierta.
const (
	SessionOpen       = "open"
	SessionCounted    = "counted"
	SessionClosed     = "closed"
	SessionUnassigned = "unassigned"
)

// CashSession representa el periodo de custodia de la caja por un cajero.
// Invariante global: a lo sumo una sesión con status=open a la vez (se hace
// cumplir en la capa de almacenamiento con un índice único parcial).
type CashSession struct {
	ID                string
	Status            string
	OpeningAmount     decimal.Decimal
	TotalSales        decimal.Decimal // contador incremental de ventas en efectivo (cache)
	TotalTransactions int64
	ExpectedAmount    decimal.Decimal // recalculado desde el historial de ventas en count/close
	ActualAmount      decimal.Decimal // efectivo contado físicamente
	Difference        decimal.Decimal // expected − actual: positivo = faltante
	Notes             string
	StartTime         time.Time
	EndTime           *time.Time
	CashierName       string
}

// Terminal indica si la sesión ya no admite más operaciones de conciliación.
func (s *CashSession) Terminal() bool {
	return s.Status == SessionClosed
}
