package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice factura de cliente a exportar como 810. Los campos EDI se copian de
// la orden de origen al momento de crearla.
type Invoice struct {
	ID        string
	Name      string // consecutivo interno (INV0045)
	Reference string // referencia externa; si existe, manda en el nombre del archivo

	PartnerID     string
	SourceOrderID string
	Origin        string // nombre de la orden de origen

	InvoiceDate time.Time

	TsetPurposeCode      string
	CustomerPaymentTerms string
	MerchTypeCode        string // obligatorio antes de exportar

	AmountTotal        decimal.Decimal
	AmountResidual     decimal.Decimal
	AmountUndiscounted decimal.Decimal
	AmountUntaxed      decimal.Decimal

	Posted    bool
	EDIStatus string
	EDIDate   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InvoiceLine renglón de factura; hereda los identificadores EDI del renglón
// de la orden que la originó.
type InvoiceLine struct {
	ID        string
	InvoiceID string

	ProductID string
	Name      string
	IsNote    bool

	LineSequenceNumber  string
	BuyerPartNumber     string
	VendorPartNumber    string
	PartNumber          string
	ConsumerPackageCode string

	Qty     decimal.Decimal
	UOMCode string
	PackQty decimal.Decimal // unidades por caja (0 si el producto no tiene empaque)

	UnitPrice decimal.Decimal
	CasePrice decimal.Decimal
	Subtotal  decimal.Decimal

	TaxCode    string
	TaxPercent decimal.Decimal

	CreatedAt time.Time
}

// TaxAmount monto de impuesto del renglón (subtotal × porcentaje).
func (l *InvoiceLine) TaxAmount() decimal.Decimal {
	return l.Subtotal.Mul(l.TaxPercent).Div(decimal.NewFromInt(100)).Round(2)
}
