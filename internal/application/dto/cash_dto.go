package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenSessionRequest body para POST /api/cash-sessions.
type OpenSessionRequest struct {
	OpeningAmount decimal.Decimal `json:"opening_amount" validate:"min=0"`
	CashierName   string          `json:"cashier_name,omitempty"` // vacío: se usa el nombre del token
}

// CountCashRequest body para POST /api/cash-sessions/:id/count.
type CountCashRequest struct {
	ActualAmount decimal.Decimal `json:"actual_amount" validate:"min=0"`
	Notes        string          `json:"notes,omitempty"`
}

// CloseSessionRequest body para POST /api/cash-sessions/:id/close.
type CloseSessionRequest struct {
	ActualAmount decimal.Decimal `json:"actual_amount" validate:"min=0"`
	Notes        string          `json:"notes,omitempty"`
}

// CashSessionResponse estado de una sesión de caja.
type CashSessionResponse struct {
	ID                string          `json:"id"`
	Status            string          `json:"status"`
	OpeningAmount     decimal.Decimal `json:"opening_amount"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalTransactions int64           `json:"total_transactions"`
	ExpectedAmount    decimal.Decimal `json:"expected_amount"`
	ActualAmount      decimal.Decimal `json:"actual_amount"`
	Difference        decimal.Decimal `json:"difference"` // positivo = faltante de efectivo
	Notes             string          `json:"notes,omitempty"`
	StartTime         time.Time       `json:"start_time"`
	EndTime           *time.Time      `json:"end_time,omitempty"`
	CashierName       string          `json:"cashier_name"`
}
