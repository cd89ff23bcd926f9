package entity

import (
	"math"
	"time"
)

// ExpirationBatch es un lote fechado de un producto, originado en una
// reposición. Invariante: 0 ≤ CurrentQuantity ≤ OriginalQuantity y
// CurrentQuantity nunca aumenta — modela el consumo de un lote perecedero.
// Al llegar a 0 el lote se desactiva y sale de las consultas de vencimiento.
type ExpirationBatch struct {
	ID               string
	ProductID        string
	SupplierID       string
	ReplenishmentID  string // movimiento de reposición que originó el lote
	OriginalQuantity int64
	CurrentQuantity  int64
	ExpirationDate   time.Time
	IsActive         bool
	CreatedAt        time.Time
}

// DaysToExpiry devuelve los días (enteros, redondeo hacia abajo) que faltan
// para el vencimiento respecto a now. Negativo si ya venció: un lote vencido
// hace horas devuelve -1, nunca 0, para que la clasificación por buckets
// coincida con Expired.
func (b *ExpirationBatch) DaysToExpiry(now time.Time) int {
	return int(math.Floor(b.ExpirationDate.Sub(now).Hours() / 24))
}

// Expired indica si el lote ya pasó su fecha de vencimiento.
func (b *ExpirationBatch) Expired(now time.Time) bool {
	return b.ExpirationDate.Before(now)
}
