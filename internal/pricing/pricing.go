// Package pricing concentra la aritmética de montos. Todo se calcula en decimal
// y se redondea a centavos antes de volver a float64 para guardarse.
package pricing

import (
	"github.com/shopspring/decimal"

	"marketplace-admin/internal/model"
)

const minorUnits = 2

// Fees son los cargos a nivel de orden que no dependen de los ítems.
type Fees struct {
	Shipping         float64
	ServiceFee       float64
	PriorityDelivery float64
	Tip              float64
	Discount         float64
}

// Totals es el resultado de recalcular una orden completa.
type Totals struct {
	SubTotal   float64
	TotalCosto float64
	TotalApp   float64
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func round(d decimal.Decimal) float64 {
	return d.Round(minorUnits).InexactFloat64()
}

// LineSubtotal = precio unitario × cantidad.
func LineSubtotal(unit float64, qty int) float64 {
	return round(dec(unit).Mul(decimal.NewFromInt(int64(qty))))
}

// PricedTotal suma el monto de tienda y el adicional de la app.
func PricedTotal(store, appAdjustment float64) float64 {
	return round(dec(store).Add(dec(appAdjustment)))
}

// RecomputeItem actualiza los dos subtotales de la línea a partir de sus entradas.
func RecomputeItem(it *model.OrderItem) {
	it.SubtotalApp = LineSubtotal(it.PrecioUnitarioApp, it.Cantidad)
	it.SubtotalTienda = LineSubtotal(it.PrecioUnitarioTnd, it.Cantidad)
}

// OrderTotals suma los subtotales de ambos carriles y aplica los cargos.
func OrderTotals(items []model.OrderItem, fees Fees) Totals {
	sub := decimal.Zero
	cost := decimal.Zero
	for _, it := range items {
		sub = sub.Add(dec(it.PrecioUnitarioApp).Mul(decimal.NewFromInt(int64(it.Cantidad))).Round(minorUnits))
		cost = cost.Add(dec(it.PrecioUnitarioTnd).Mul(decimal.NewFromInt(int64(it.Cantidad))).Round(minorUnits))
	}
	total := sub.
		Add(dec(fees.Shipping)).
		Add(dec(fees.ServiceFee)).
		Add(dec(fees.PriorityDelivery)).
		Add(dec(fees.Tip)).
		Sub(dec(fees.Discount))
	return Totals{SubTotal: round(sub), TotalCosto: round(cost), TotalApp: round(total)}
}

// FeesOf extrae los cargos guardados en la orden.
func FeesOf(o *model.Order) Fees {
	return Fees{
		Shipping:         o.Shipping,
		ServiceFee:       o.ServiceFee,
		PriorityDelivery: o.PriorityDelivery,
		Tip:              o.Tip,
		Discount:         o.Discount,
	}
}

// Profit = total cobrado al cliente − costo de tienda − pago al repartidor.
func Profit(totalApp, totalCosto, driverPayout float64) float64 {
	return round(dec(totalApp).Sub(dec(totalCosto)).Sub(dec(driverPayout)))
}
