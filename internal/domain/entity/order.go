package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order orden de venta creada desde un 850 entrante. Conserva todos los
// calificadores del intercambio para poder devolverlos sin pérdida en el
// 855/810/856 de respuesta.
type Order struct {
	ID   string
	Name string // consecutivo interno (SO0012)

	PartnerID         string // cuenta principal del socio
	ShippingPartnerID string // dirección ST resuelta
	InvoicePartnerID  string // dirección BT resuelta

	PONumber          string
	BackorderOriginID string // orden original cuando esta es un backorder
	TsetPurposeCode   string
	PrimaryPOTypeCode string
	Vendor            string
	Department        string
	OrderDate         time.Time

	// Exactamente una de las tres fechas siguientes queda poblada según el
	// DateTimeQualifier del bloque Dates (002 / 118 / otro).
	DateTimeQualifier   string
	CommitmentDate      *time.Time
	RequestedPickupDate *time.Time
	AdditionalDate      *time.Time

	CarrierTransMethodCode string
	CarrierRouting         string

	ReferenceQual        string
	ReferenceID          string
	ReferenceDescription string
	NoteCode             string
	Note                 string

	PaymentTermID        string
	CustomerPaymentTerms string // blob estructurado de términos de pago
	AllContacts          string // blob de contactos BD/RE deduplicados
	Addresses            string // blob de direcciones del 850

	// ChargeAllowanceIDs cargos/descuentos de cabecera (catálogo append-only).
	ChargeAllowanceIDs []string

	TotalAmount    decimal.Decimal
	TotalLineItems int

	AcknowledgementType string // AC / AP para el 855
	BillOfLadingNumber  string

	Confirmed bool // estado del documento de negocio (venta confirmada)
	EDIStatus string
	EDIDate   *time.Time // timestamp del último cambio de estado exitoso

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AckDate fecha a emitir en el bloque Dates según el calificador registrado;
// fallback a now cuando ninguna quedó poblada.
func (o *Order) AckDate(now time.Time) time.Time {
	var d *time.Time
	switch o.DateTimeQualifier {
	case "002":
		d = o.CommitmentDate
	case "118":
		d = o.RequestedPickupDate
	default:
		d = o.AdditionalDate
	}
	if d == nil {
		return now
	}
	return *d
}

// OrderLine renglón de la orden. IsNote marca las líneas informativas
// (producto no encontrado, sustitución de UoM, discrepancia de precio) que no
// se re-exportan como renglones estructurados.
type OrderLine struct {
	ID      string
	OrderID string

	ProductID string // vacío en líneas de nota
	Name      string
	IsNote    bool

	LineSequenceNumber  string // conserva ceros a la izquierda
	BuyerPartNumber     string
	VendorPartNumber    string
	PartNumber          string
	ConsumerPackageCode string

	Qty       decimal.Decimal // en unidades internas
	UOMID     string
	UOMCode   string // código de intercambio de la UoM asignada
	PackageID string
	PackQty   decimal.Decimal // unidades por caja del empaque asignado (0 si no hay)
	PackSize  decimal.Decimal

	UnitPrice decimal.Decimal // precio bruto unitario
	CasePrice decimal.Decimal // precio bruto por caja
	EDIPrice  decimal.Decimal // precio recibido por el intercambio

	ChargesAllowances string // blob de cargos a nivel línea
	PaymentTerms      string // blob de términos a nivel línea

	TaxCode    string
	TaxPercent string
	TaxID      string

	ItemStatusCode string // IA / IB / IP / IQ

	CreatedAt time.Time
}
