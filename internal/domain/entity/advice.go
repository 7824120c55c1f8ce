package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WarehouseAdvice aviso de despacho de bodega importado desde un 945. El
// motor lo crea una sola vez a partir del archivo; la conciliación contra la
// entrega pendiente es responsabilidad del módulo de inventario.
type WarehouseAdvice struct {
	ID string

	PONumber string
	PODate   *time.Time
	Vendor   string

	ShipmentIdentification string
	BillOfLadingNumber     string
	SourceFile             string

	EDIStatus string
	EDIDate   *time.Time

	CreatedAt time.Time
}

// AdviceLine renglón despachado reportado por la bodega.
type AdviceLine struct {
	ID       string
	AdviceID string

	LineSequenceNumber  string
	BuyerPartNumber     string
	VendorPartNumber    string
	ConsumerPackageCode string

	ShipQty   decimal.Decimal
	UOMCode   string
	PackValue decimal.Decimal

	PalletSerial string // SSCC del PackLevel contenedor, si venía

	CreatedAt time.Time
}
