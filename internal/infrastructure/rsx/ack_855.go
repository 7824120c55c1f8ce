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

// AckBuildContext datos para construir el reconocimiento 855 de una orden.
type AckBuildContext struct {
	Order    *entity.Order
	Lines    []*entity.OrderLine
	Partner  *entity.Partner // cuenta principal del socio
	ShipTo   *entity.Partner // dirección ST; nil si la orden no la tiene
	Company  *entity.Company
	Products map[string]*entity.Product // por ID, para barcode/EAN/GTIN

	Now time.Time
}

// qtyString cantidad a emitir: cajas redondeadas hacia arriba cuando la UoM
// es de cajas o pallets, unidades internas en caso contrario.
func qtyString(qty, packQty decimal.Decimal, uomCode string) string {
	if rsxcode.CaseUOMCodes[uomCode] {
		return pricing.WireCaseQty(qty, packQty).StringFixed(1)
	}
	return qty.String()
}

// priceString precio a emitir: por caja si el socio factura en cajas.
func priceString(line *entity.OrderLine, pricesInCases bool) string {
	price := line.UnitPrice
	if pricesInCases {
		price = line.CasePrice
	}
	return price.StringFixed(2)
}

// shipScheduleDate fecha de agenda del renglón: compromiso, recogida o fecha
// adicional, la primera que exista; fallback a now.
func shipScheduleDate(o *entity.Order, now time.Time) time.Time {
	for _, d := range []*time.Time{o.CommitmentDate, o.RequestedPickupDate, o.AdditionalDate} {
		if d != nil {
			return *d
		}
	}
	return now
}

func writeAddress(enc *xml.Encoder, typeCode, qualifier, locationNumber, name, street, street2, city, state, zip, country string) {
	openEle(enc, "Address")
	writeEle(enc, "AddressTypeCode", typeCode)
	if qualifier == "" {
		qualifier = rsxcode.LocationQualDunsPlus4
	}
	writeEle(enc, "LocationCodeQualifier", qualifier)
	writeEle(enc, "AddressLocationNumber", locationNumber)
	writeEle(enc, "AddressName", name)
	writeEle(enc, "Address1", street)
	writeEle(enc, "Address2", street2)
	writeEle(enc, "City", city)
	writeEle(enc, "State", state)
	writeEle(enc, "PostalCode", zip)
	writeEle(enc, "Country", country)
	closeEle(enc, "Address")
}

func writeCompanyAddress(enc *xml.Encoder, typeCode string, c *entity.Company) {
	name := c.Name
	if name == "" {
		name = "Address Name"
	}
	writeAddress(enc, typeCode, c.LocationCodeQualifier, c.AddressLocationNumber,
		name, c.Street, c.Street2, c.City, c.StateCode, c.Zip, c.CountryCode)
}

func writePartnerAddress(enc *xml.Encoder, typeCode string, p *entity.Partner) {
	writeAddress(enc, typeCode, p.LocationCodeQualifier, p.AddressLocationNumber,
		p.Name, p.Street, p.Street2, p.City, p.StateCode, p.Zip, p.CountryCode)
}

// EncodeAck construye el documento 855 (OrderAck) de la orden.
func (c *Codec) EncodeAck(ctx *AckBuildContext) ([]byte, error) {
	if ctx == nil || ctx.Order == nil || ctx.Partner == nil || ctx.Company == nil {
		return nil, fmt.Errorf("rsx: faltan order, partner o company en el contexto")
	}
	order := ctx.Order

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	openEle(enc, "OrderAck")
	openEle(enc, "Header")

	openEle(enc, "OrderHeader")
	writeEle(enc, "TradingPartnerId", ctx.Partner.TradingPartnerID)
	writeEle(enc, "PurchaseOrderNumber", order.PONumber)
	writeEle(enc, "TsetPurposeCode", order.TsetPurposeCode)
	writeEle(enc, "PurchaseOrderDate", order.OrderDate.Format(rsxcode.DateFormat))
	writeEle(enc, "AcknowledgementNumber", order.Name)
	ackType := order.AcknowledgementType
	if ackType == "" {
		ackType = rsxcode.AckTypeDetailChange
	}
	writeEle(enc, "AcknowledgementType", ackType)
	closeEle(enc, "OrderHeader")

	openEle(enc, "Dates")
	writeEle(enc, "DateTimeQualifier", order.DateTimeQualifier)
	writeEle(enc, "Date", order.AckDate(ctx.Now).Format(rsxcode.DateFormat))
	closeEle(enc, "Dates")

	writeCompanyAddress(enc, rsxcode.AddressShipFrom, ctx.Company)
	if ctx.ShipTo != nil {
		writePartnerAddress(enc, rsxcode.AddressShipTo, ctx.ShipTo)
	}

	closeEle(enc, "Header")

	lineCount := 0
	scheduleDate := shipScheduleDate(order, ctx.Now)
	for _, line := range ctx.Lines {
		if line.IsNote {
			continue
		}
		product := ctx.Products[line.ProductID]

		openEle(enc, "LineItem")

		openEle(enc, "OrderLine")
		writeEle(enc, "LineSequenceNumber", line.LineSequenceNumber)
		writeEle(enc, "BuyerPartNumber", line.BuyerPartNumber)
		writeEle(enc, "VendorPartNumber", line.VendorPartNumber)
		cpc := line.ConsumerPackageCode
		if cpc == "" && product != nil {
			cpc = product.Barcode
		}
		writeEle(enc, "ConsumerPackageCode", cpc)
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
		qty := qtyString(line.Qty, line.PackQty, line.UOMCode)
		uom := line.UOMCode
		if uom == "" {
			uom = rsxcode.UOMEach
		}
		writeEle(enc, "OrderQty", qty)
		writeEle(enc, "OrderQtyUOM", uom)
		writeEle(enc, "PurchasePrice", priceString(line, ctx.Partner.PriceInCases))
		closeEle(enc, "OrderLine")

		openEle(enc, "LineItemAcknowledgement")
		status := line.ItemStatusCode
		if status == "" {
			status = rsxcode.ItemStatusBackordered
		}
		writeEle(enc, "ItemStatusCode", status)
		writeEle(enc, "ItemScheduleQty", qty)
		writeEle(enc, "ItemScheduleUOM", uom)
		writeEle(enc, "ItemScheduleQualifier", rsxcode.ScheduleQualifier)
		writeEle(enc, "ItemScheduleDate", scheduleDate.Format(rsxcode.DateFormat))
		closeEle(enc, "LineItemAcknowledgement")

		openEle(enc, "ProductOrItemDescription")
		writeEle(enc, "ProductCharacteristicCode", rsxcode.ProductCharacteristic)
		desc := line.Name
		if desc == "" && product != nil {
			desc = product.Description
		}
		if desc == "" {
			desc = "Item Description"
		}
		writeEle(enc, "ProductDescription", desc)
		closeEle(enc, "ProductOrItemDescription")

		openEle(enc, "PhysicalDetails")
		writeEle(enc, "PackSize", line.PackQty.String())
		closeEle(enc, "PhysicalDetails")

		closeEle(enc, "LineItem")
		lineCount++
	}

	openEle(enc, "Summary")
	writeEle(enc, "TotalLineItemNumber", fmt.Sprintf("%d", lineCount))
	closeEle(enc, "Summary")

	closeEle(enc, "OrderAck")
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
