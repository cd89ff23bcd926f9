package ledger

import "github.com/shopspring/decimal"

// WeightedCost implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedCost(currentStock int64, currentCost decimal.Decimal, inQty int64, inCost decimal.Decimal) decimal.Decimal {
	stock := decimal.NewFromInt(currentStock)
	qty := decimal.NewFromInt(inQty)
	sum := stock.Add(qty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stock.Mul(currentCost).Add(qty.Mul(inCost))
	return num.Div(sum)
}
