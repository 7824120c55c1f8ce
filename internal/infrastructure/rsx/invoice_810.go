package rsx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/domain/pricing"
	rsxcode "github.com/tu-usuario/edi-pro/pkg/rsx"
)

// Valores de CarrierInformation del 810. El socio actual factura siempre con
// el mismo transportador de paquetería; si llega otro socio habrá que moverlos
// a la orden.
const (
	invoiceCarrierMethod = "U"
	invoiceCarrierAlpha  = "FDEG"
	invoiceCarrierPro    = "CN"
)

// InvoiceBuildContext datos para construir el 810 de una factura.
type InvoiceBuildContext struct {
	Invoice     *entity.Invoice
	Lines       []*entity.InvoiceLine
	Partner     *entity.Partner // cuenta principal del socio
	SourceOrder *entity.Order   // orden de origen; nil si la factura es manual
	BillTo      *entity.Partner // dirección BT; nil si no existe
	ShipTo      *entity.Partner // dirección ST; nil si no existe
	Company     *entity.Company
	Charges     []*entity.ChargeAllowance  // cargos de cabecera de la orden
	Products    map[string]*entity.Product // por ID

	Now time.Time
}

// invoiceNumber número a emitir: INV + los primeros 12 caracteres del PO de
// la orden de origen; sin orden de origen se emite el consecutivo interno.
func invoiceNumber(inv *entity.Invoice, source *entity.Order) string {
	if source != nil && source.PONumber != "" {
		po := source.PONumber
		if len(po) > 12 {
			po = po[:12]
		}
		return "INV" + po
	}
	return inv.Name
}

// writeInvoicePaymentTerms emite el bloque PaymentTerms desde el blob; con
// blob vacío aplica los defaults Net 30 sobre la fecha de factura.
func writeInvoicePaymentTerms(enc *xml.Encoder, blob string, invoiceDate time.Time) {
	net30 := invoiceDate.AddDate(0, 0, 30).Format(rsxcode.DateFormat)
	values := ParsePaymentTerms(blob)

	pick := func(key, fallback string) string {
		if blob == "" {
			return fallback
		}
		return values[key]
	}

	openEle(enc, "PaymentTerms")
	writeEle(enc, "TermsType", pick(termsTypeKey, ""))
	writeEle(enc, "TermsBasisDateCode", pick(basisDateCodeKey, ""))
	writeEle(enc, "TermsDiscountPercentage", pick(discountPercentageKey, ""))
	writeEle(enc, "TermsDiscountDate", pick(discountDateKey, net30))
	writeEle(enc, "TermsDiscountDueDays", pick(discountDueDaysKey, "30"))
	writeEle(enc, "TermsNetDueDate", pick(netDueDateKey, net30))
	writeEle(enc, "TermsNetDueDays", pick(netDueDaysKey, ""))
	writeEle(enc, "TermsDescription", pick(termsDescriptionKey, "Net 30"))
	closeEle(enc, "PaymentTerms")
}

// EncodeInvoice construye el documento 810 (Invoice) de la factura.
func (c *Codec) EncodeInvoice(ctx *InvoiceBuildContext) ([]byte, error) {
	if ctx == nil || ctx.Invoice == nil || ctx.Partner == nil || ctx.Company == nil {
		return nil, fmt.Errorf("rsx: faltan invoice, partner o company en el contexto")
	}
	inv := ctx.Invoice
	source := ctx.SourceOrder

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	openEle(enc, "Invoice")
	openEle(enc, "Header")

	openEle(enc, "InvoiceHeader")
	writeEle(enc, "TradingPartnerId", ctx.Partner.TradingPartnerID)
	writeEle(enc, "InvoiceNumber", invoiceNumber(inv, source))
	writeEle(enc, "TsetPurposeCode", inv.TsetPurposeCode)
	writeEle(enc, "InvoiceDate", inv.InvoiceDate.Format(rsxcode.DateFormat))
	writeEle(enc, "InvoiceTime", inv.InvoiceDate.Format(rsxcode.TimeFormat))
	if source != nil {
		writeEle(enc, "PurchaseOrderDate", source.OrderDate.Format(rsxcode.DateFormat))
		writeEle(enc, "PurchaseOrderNumber", source.PONumber)
		writeEle(enc, "Department", source.Department)
		writeEle(enc, "Vendor", source.Vendor)
		writeEle(enc, "ShipDate", shipScheduleDate(source, ctx.Now).Format(rsxcode.DateFormat))
	} else {
		writeEle(enc, "PurchaseOrderDate", "")
		writeEle(enc, "PurchaseOrderNumber", "")
		writeEle(enc, "Department", "")
		writeEle(enc, "Vendor", "")
		writeEle(enc, "ShipDate", ctx.Now.Format(rsxcode.DateFormat))
	}
	closeEle(enc, "InvoiceHeader")

	writeInvoicePaymentTerms(enc, inv.CustomerPaymentTerms, inv.InvoiceDate)

	// El 810 siempre reporta la fecha como entrega solicitada, sin importar
	// el calificador que traía el 850.
	openEle(enc, "Dates")
	writeEle(enc, "DateTimeQualifier", rsxcode.DateQualDelivery)
	ackDate := ctx.Now
	if source != nil {
		ackDate = source.AckDate(ctx.Now)
	}
	writeEle(enc, "Date", ackDate.Format(rsxcode.DateFormat))
	closeEle(enc, "Dates")

	fob := ParsePaymentTerms(inv.CustomerPaymentTerms)
	openEle(enc, "FOBRelatedInstruction")
	writeEle(enc, "FOBPayCode", fob[fobPayCodeKey])
	writeEle(enc, "FOBLocationQualifier", fob[fobLocationQualKey])
	writeEle(enc, "FOBLocationDescription", fob[fobLocationDescKey])
	closeEle(enc, "FOBRelatedInstruction")

	openEle(enc, "CarrierInformation")
	writeEle(enc, "CarrierTransMethodCode", invoiceCarrierMethod)
	writeEle(enc, "CarrierAlphaCode", invoiceCarrierAlpha)
	writeEle(enc, "CarrierProNumber", invoiceCarrierPro)
	writeEle(enc, "BillOfLadingNumber", invoiceCarrierPro)
	closeEle(enc, "CarrierInformation")

	// Totales de cantidad sobre los renglones estructurados; la UoM de la
	// primera línea manda para todo el documento.
	var structured []*entity.InvoiceLine
	for _, line := range ctx.Lines {
		if !line.IsNote {
			structured = append(structured, line)
		}
	}
	totalQty := decimal.Zero
	totalUOM := rsxcode.UOMEach
	if len(structured) > 0 {
		totalUOM = structured[0].UOMCode
		if totalUOM == "" {
			totalUOM = rsxcode.UOMEach
		}
		inCases := structured[0].UOMCode == rsxcode.UOMCase
		for _, line := range structured {
			if inCases {
				totalQty = totalQty.Add(pricing.QtyInCases(line.Qty, line.PackQty))
			} else {
				totalQty = totalQty.Add(line.Qty)
			}
		}
	}
	openEle(enc, "QuantityTotals")
	writeEle(enc, "QuantityTotalsQualifier", rsxcode.QuantityTotalsSummary)
	writeEle(enc, "Quantity", totalQty.Ceil().StringFixed(1))
	writeEle(enc, "QuantityUOM", totalUOM)
	closeEle(enc, "QuantityTotals")

	if ctx.BillTo != nil {
		writePartnerAddress(enc, rsxcode.AddressBillTo, ctx.BillTo)
	}
	if ctx.ShipTo != nil {
		writePartnerAddress(enc, rsxcode.AddressShipTo, ctx.ShipTo)
	}
	writeCompanyAddress(enc, rsxcode.AddressRemitTo, ctx.Company)

	openEle(enc, "References")
	writeEle(enc, "ReferenceQual", rsxcode.ReferenceQualMerchType)
	writeEle(enc, "ReferenceID", inv.MerchTypeCode)
	closeEle(enc, "References")

	for _, charge := range ctx.Charges {
		openEle(enc, "ChargesAllowances")
		writeEle(enc, "AllowChrgIndicator", charge.Indicator)
		writeEle(enc, "AllowChrgCode", charge.Code)
		writeEle(enc, "AllowChrgAmt", charge.Amount)
		writeEle(enc, "AllowChrgPercentQual", charge.PercentQualifier)
		writeEle(enc, "AllowChrgPercent", charge.Percent)
		writeEle(enc, "AllowChrgHandlingCode", charge.HandlingCode)
		closeEle(enc, "ChargesAllowances")
	}

	closeEle(enc, "Header")

	lineCount := 0
	for _, line := range structured {
		product := ctx.Products[line.ProductID]

		openEle(enc, "LineItem")

		openEle(enc, "InvoiceLine")
		writeEle(enc, "LineSequenceNumber", line.LineSequenceNumber)
		writeEle(enc, "BuyerPartNumber", line.BuyerPartNumber)
		writeEle(enc, "VendorPartNumber", line.VendorPartNumber)
		barcode := line.ConsumerPackageCode
		if barcode == "" && product != nil {
			barcode = product.Barcode
		}
		if len(barcode) > 13 {
			barcode = barcode[:13]
		}
		writeEle(enc, "ConsumerPackageCode", barcode)
		if product != nil {
			writeEle(enc, "EAN", product.EAN)
			writeEle(enc, "GTIN", product.GTIN)
		} else {
			writeEle(enc, "EAN", "")
			writeEle(enc, "GTIN", "")
		}
		openEle(enc, "ProductID")
		writeEle(enc, "PartNumber", line.PartNumber)
		closeEle(enc, "ProductID")
		qty := line.Qty.String()
		if line.UOMCode == rsxcode.UOMCase {
			qty = pricing.WireCaseQty(line.Qty, line.PackQty).StringFixed(1)
		}
		uom := line.UOMCode
		if uom == "" {
			uom = rsxcode.UOMEach
		}
		writeEle(enc, "InvoiceQty", qty)
		writeEle(enc, "InvoiceQtyUOM", uom)
		price := line.UnitPrice
		if ctx.Partner.PriceInCases {
			price = line.CasePrice
		}
		writeEle(enc, "PurchasePrice", price.StringFixed(2))
		closeEle(enc, "InvoiceLine")

		packSize := "1"
		if line.PackQty.Sign() > 0 {
			packSize = line.PackQty.String()
		}
		openEle(enc, "PhysicalDetails")
		writeEle(enc, "PackSize", packSize)
		writeEle(enc, "PackValue", packSize)
		writeEle(enc, "PackUOM", rsxcode.UOMEach)
		closeEle(enc, "PhysicalDetails")

		taxCode := line.TaxCode
		if taxCode == "" {
			taxCode = rsxcode.TaxCodeLocalSales
		}
		openEle(enc, "Taxes")
		writeEle(enc, "TaxTypeCode", taxCode)
		writeEle(enc, "TaxAmount", line.TaxAmount().StringFixed(2))
		writeEle(enc, "RelationshipCode", "A")
		closeEle(enc, "Taxes")

		openEle(enc, "ProductOrItemDescription")
		writeEle(enc, "ProductCharacteristicCode", rsxcode.ProductCharacteristic)
		desc := line.Name
		if desc == "" {
			desc = "Item Description"
		}
		writeEle(enc, "ProductDescription", desc)
		closeEle(enc, "ProductOrItemDescription")

		closeEle(enc, "LineItem")
		lineCount++
	}

	discount := decimal.Zero
	if source != nil {
		discount = inv.AmountUndiscounted.Sub(inv.AmountUntaxed)
	}
	openEle(enc, "Summary")
	writeEle(enc, "TotalAmount", inv.AmountResidual.StringFixed(2))
	writeEle(enc, "TotalLineItemNumber", fmt.Sprintf("%d", lineCount))
	writeEle(enc, "TotalSalesAmount", inv.AmountTotal.StringFixed(2))
	writeEle(enc, "TotalTermsDiscountAmount", discount.StringFixed(2))
	closeEle(enc, "Summary")

	closeEle(enc, "Invoice")
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
