package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shipment entrega saliente a exportar como 856 (ASN). Los campos de carrier
// y contacto se propagan desde la orden de venta de origen.
type Shipment struct {
	ID   string
	Name string // consecutivo interno (WH-OUT-0009)

	PartnerID     string
	SourceOrderID string
	Origin        string // nombre de la orden de origen

	ScheduledDate *time.Time
	EffectiveDate *time.Time
	CreateDate    time.Time

	ASNStructureCode       string
	CarrierTransMethodCode string
	CarrierAlphaCode       string // SCAC de 4 caracteres, obligatorio
	CarrierRouting         string
	BillOfLadingNumber     string // obligatorio

	Weight       decimal.Decimal
	WeightUOM    string
	ContactName  string
	ContactPhone string
	AllContacts  string

	PackageCount int // número de pallets

	Done      bool // la entrega ya fue validada
	EDIStatus string
	EDIDate   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShipmentLine renglón de la entrega con su pallet de destino asignado.
type ShipmentLine struct {
	ID         string
	ShipmentID string

	ProductID string

	LineSequenceNumber string
	BuyerPartNumber    string
	VendorPartNumber   string

	// PalletName nombre del paquete destino; obligatorio para el ASN.
	// Los renglones con el mismo pallet comparten un bloque PackLevel.
	PalletName string

	QtyDone decimal.Decimal
	UOMCode string // código EDI de la UoM del renglón; obligatorio
	PackQty decimal.Decimal

	Description string

	LotName   string
	LotExpiry *time.Time

	CreatedAt time.Time
}
