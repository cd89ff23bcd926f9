package entity

import "time"

// MovementType es el tipo cerrado de movimiento de stock. Cada tipo lleva su
// convención de signo explícita: los salientes restan, los entrantes suman.
type MovementType string

const (
	MovementSale          MovementType = "SALE"          // venta: siempre saliente
	MovementAdjustment    MovementType = "ADJUSTMENT"    // ajuste de inventario: delta libre
	MovementReplenishment MovementType = "REPLENISHMENT" // reposición de proveedor: entrante
	MovementReturnIn      MovementType = "RETURN_IN"     // devolución de cliente: entrante
)

// Valid indica si el tipo pertenece a la enumeración.
func (t MovementType) Valid() bool {
	switch t {
	case MovementSale, MovementAdjustment, MovementReplenishment, MovementReturnIn:
		return true
	}
	return false
}

// Outgoing indica si el tipo representa una salida de stock y por tanto
// está sujeto a la regla de no-negatividad (el stock nunca baja de cero).
func (t MovementType) Outgoing() bool {
	return t == MovementSale
}

// Movement es una entrada inmutable del ledger de stock. Nunca se edita ni se
// borra; las correcciones se hacen agregando un movimiento compensatorio.
type Movement struct {
	ID            string
	ProductID     string
	Type          MovementType
	QuantityDelta int64 // firmado: negativo = salida, positivo = entrada
	PreviousStock int64
	NewStock      int64
	Reason        string
	Reference     string // id de venta, nota de ajuste, etc.
	CreatedAt     time.Time
	CreatedBy     string // UserID
}
