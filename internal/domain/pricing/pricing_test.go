package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/edi-pro/internal/domain/pricing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ─────────────────────────────────────────────
// Conversión unidad <-> caja
// ─────────────────────────────────────────────

func TestToCasePrice(t *testing.T) {
	assert.True(t, dec("30").Equal(pricing.ToCasePrice(dec("2.5"), dec("12"))))
}

func TestToUnitPrice(t *testing.T) {
	assert.True(t, dec("2.5").Equal(pricing.ToUnitPrice(dec("30"), dec("12"))))
}

func TestToUnitPriceSinEmpaque(t *testing.T) {
	// packQty <= 0 devuelve el precio sin cambios, nunca divide por cero.
	assert.True(t, dec("30").Equal(pricing.ToUnitPrice(dec("30"), decimal.Zero)))
	assert.True(t, dec("30").Equal(pricing.ToUnitPrice(dec("30"), dec("-1"))))
}

func TestConversionIdaYVuelta(t *testing.T) {
	unit := dec("7.35")
	pack := dec("24")
	assert.True(t, unit.Equal(pricing.ToUnitPrice(pricing.ToCasePrice(unit, pack), pack)))
}

// ─────────────────────────────────────────────
// Cantidades en cajas
// ─────────────────────────────────────────────

func TestWireCaseQtyRedondeaHaciaArriba(t *testing.T) {
	// 25 unidades en cajas de 12 son 3 cajas en el intercambio.
	assert.True(t, dec("3").Equal(pricing.WireCaseQty(dec("25"), dec("12"))))
	assert.True(t, dec("2").Equal(pricing.WireCaseQty(dec("24"), dec("12"))))
}

func TestQtyInCasesSinRedondear(t *testing.T) {
	got := pricing.QtyInCases(dec("25"), dec("12"))
	assert.True(t, dec("25").Div(dec("12")).Equal(got))
}

func TestCantidadesSinEmpaque(t *testing.T) {
	assert.True(t, dec("25").Equal(pricing.WireCaseQty(dec("25"), decimal.Zero)))
	assert.True(t, dec("25").Equal(pricing.QtyInCases(dec("25"), decimal.Zero)))
}

// ─────────────────────────────────────────────
// ResolvePrices
// ─────────────────────────────────────────────

func TestResolvePrices(t *testing.T) {
	tests := []struct {
		name                 string
		pricelist            string
		packQty              string
		orderInCases         bool
		partnerPricesInCases bool
		wantUnit             string
		wantCase             string
	}{
		{
			name:      "orden en unidades: ambos precios iguales",
			pricelist: "5.00", packQty: "12",
			orderInCases: false, partnerPricesInCases: true,
			wantUnit: "5.00", wantCase: "5.00",
		},
		{
			name:      "orden en cajas, socio factura por caja",
			pricelist: "60", packQty: "12",
			orderInCases: true, partnerPricesInCases: true,
			wantUnit: "5", wantCase: "60",
		},
		{
			name:      "orden en cajas, socio factura por unidad",
			pricelist: "5", packQty: "12",
			orderInCases: true, partnerPricesInCases: false,
			wantUnit: "5", wantCase: "60",
		},
		{
			name:      "orden en cajas sin tamaño de empaque",
			pricelist: "5", packQty: "0",
			orderInCases: true, partnerPricesInCases: true,
			wantUnit: "5", wantCase: "5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, casePrice := pricing.ResolvePrices(dec(tt.pricelist), dec(tt.packQty), tt.orderInCases, tt.partnerPricesInCases)
			require.True(t, dec(tt.wantUnit).Equal(unit), "unit: got %s", unit)
			require.True(t, dec(tt.wantCase).Equal(casePrice), "case: got %s", casePrice)
		})
	}
}
