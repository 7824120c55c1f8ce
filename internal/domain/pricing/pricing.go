// Package pricing resuelve las conversiones entre representación unitaria y
// por caja de precios y cantidades. Funciones puras, sin I/O.
package pricing

import "github.com/shopspring/decimal"

// ToCasePrice convierte precio unitario a precio por caja.
func ToCasePrice(unitPrice, packQty decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(packQty)
}

// ToUnitPrice convierte precio por caja a precio unitario. Con packQty <= 0
// devuelve el precio sin cambios (identidad).
func ToUnitPrice(casePrice, packQty decimal.Decimal) decimal.Decimal {
	if packQty.Sign() <= 0 {
		return casePrice
	}
	return casePrice.Div(packQty)
}

// WireCaseQty cantidad de cajas a emitir en el intercambio: siempre redondeada
// hacia arriba, porque no se despachan cajas parciales.
func WireCaseQty(rawQty, packQty decimal.Decimal) decimal.Decimal {
	if packQty.Sign() <= 0 {
		return rawQty
	}
	return rawQty.Div(packQty).Ceil()
}

// QtyInCases cantidad en cajas para reporte interno, sin redondear.
func QtyInCases(rawQty, packQty decimal.Decimal) decimal.Decimal {
	if packQty.Sign() <= 0 {
		return rawQty
	}
	return rawQty.Div(packQty)
}

// ResolvePrices deriva precio unitario y precio por caja a partir del precio
// de lista. Cuando la orden viene en cajas, el precio de lista es por caja si
// el socio factura en cajas, o unitario en caso contrario; cuando la orden
// viene en unidades ambos precios coinciden.
func ResolvePrices(pricelistPrice, packQty decimal.Decimal, orderInCases, partnerPricesInCases bool) (unitPrice, casePrice decimal.Decimal) {
	if orderInCases && packQty.Sign() > 0 {
		if partnerPricesInCases {
			return pricelistPrice.Div(packQty), pricelistPrice
		}
		return pricelistPrice, pricelistPrice.Mul(packQty)
	}
	return pricelistPrice, pricelistPrice
}
