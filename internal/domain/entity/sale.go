package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago de una venta.
const (
	PaymentCash     = "CASH"
	PaymentCard     = "CARD"
	PaymentTransfer = "TRANSFER"
)

// Sale es el registro contable de una venta (cabecera). Las cantidades por
// producto viven en el ledger de movimientos; aquí queda el total y el método
// de pago, que es lo que la conciliación de caja necesita sumar.
type Sale struct {
	ID            string
	Total         decimal.Decimal
	PaymentMethod string // CASH | CARD | TRANSFER
	SaleDate      time.Time
	Reference     string
	CreatedAt     time.Time
	CreatedBy     string // UserID del cajero
}
