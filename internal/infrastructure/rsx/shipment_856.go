package rsx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/domain/pricing"
	"github.com/tu-usuario/edi-pro/pkg/gs1"
	rsxcode "github.com/tu-usuario/edi-pro/pkg/rsx"
)

// ShipmentBuildContext datos para construir el ASN 856 de un despacho.
type ShipmentBuildContext struct {
	Shipment    *entity.Shipment
	Lines       []*entity.ShipmentLine // ordenados por pallet
	Partner     *entity.Partner        // cuenta principal del socio
	ShipTo      *entity.Partner        // destino del despacho
	SourceOrder *entity.Order          // orden de origen; nil si no se encontró
	Company     *entity.Company
	Products    map[string]*entity.Product // por ID

	// CompanyPrefix prefijo GS1 de la compañía para los seriales SSCC-18.
	CompanyPrefix string
	// Location zona horaria local para las fechas del despacho.
	Location *time.Location

	Now time.Time
}

// blobField extrae el valor de una clave "Clave: valor" del blob de contactos.
func blobField(blob, key string) string {
	_, after, found := strings.Cut(blob, key+": ")
	if !found {
		return ""
	}
	value, _, _ := strings.Cut(after, "\n")
	return value
}

func (ctx *ShipmentBuildContext) localTime(t time.Time) time.Time {
	if ctx.Location == nil {
		return t.UTC()
	}
	return t.In(ctx.Location)
}

// EncodeShipment construye el documento 856 (Shipment) del despacho.
func (c *Codec) EncodeShipment(ctx *ShipmentBuildContext) ([]byte, error) {
	if ctx == nil || ctx.Shipment == nil || ctx.Partner == nil || ctx.Company == nil {
		return nil, fmt.Errorf("rsx: faltan shipment, partner o company en el contexto")
	}
	ship := ctx.Shipment
	source := ctx.SourceOrder

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	// El 856 es el único documento saliente que declara el namespace en la raíz.
	_ = enc.EncodeToken(xml.StartElement{
		Name: xml.Name{Local: "Shipment"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: rsxcode.Namespace}},
	})
	openEle(enc, "Header")

	openEle(enc, "ShipmentHeader")
	writeEle(enc, "TradingPartnerId", ctx.Partner.TradingPartnerID)
	ident := "ASN_" + ship.Name
	poNumber := ""
	if source != nil && source.PONumber != "" {
		poNumber = source.PONumber
		ident = "ASN_" + poNumber
	}
	writeEle(enc, "ShipmentIdentification", ident)
	shipDate := ctx.Now
	if ship.ScheduledDate != nil {
		shipDate = ctx.localTime(*ship.ScheduledDate)
	}
	writeEle(enc, "ShipDate", shipDate.Format(rsxcode.DateFormat))
	shipTime := ""
	if ship.EffectiveDate != nil {
		shipTime = ship.EffectiveDate.Format(rsxcode.TimeFormat)
	}
	writeEle(enc, "ShipmentTime", shipTime)
	purpose := ""
	if source != nil {
		purpose = source.TsetPurposeCode
	}
	writeEle(enc, "TsetPurposeCode", purpose)
	writeEle(enc, "ShipNoticeDate", ship.CreateDate.Format(rsxcode.DateFormat))
	writeEle(enc, "ShipNoticeTime", ship.CreateDate.Format(rsxcode.TimeFormat))
	structure := ship.ASNStructureCode
	if structure == "" {
		structure = rsxcode.ASNStructureStandard
	}
	writeEle(enc, "ASNStructureCode", structure)
	writeEle(enc, "CarrierRouting", ship.CarrierRouting)
	writeEle(enc, "BillOfLadingNumber", ship.BillOfLadingNumber)
	writeEle(enc, "CarrierProNumber", ship.BillOfLadingNumber)
	delivery := ""
	deliveryTime := ""
	if source != nil && source.CommitmentDate != nil {
		local := ctx.localTime(*source.CommitmentDate)
		delivery = local.Format(rsxcode.DateFormat)
		deliveryTime = local.Format(rsxcode.TimeFormat)
	}
	writeEle(enc, "CurrentScheduledDeliveryDate", delivery)
	writeEle(enc, "CurrentScheduledDeliveryTime", deliveryTime)
	closeEle(enc, "ShipmentHeader")

	contactType := ctx.Partner.ContactTypeCode
	if contactType == "" {
		contactType = rsxcode.ContactDelivery
	}
	contactName := ship.ContactName
	if contactName == "" {
		contactName = blobField(ship.AllContacts, "Name")
	}
	contactPhone := ship.ContactPhone
	if contactPhone == "" {
		contactPhone = blobField(ship.AllContacts, "Phone")
	}
	openEle(enc, "Contacts")
	writeEle(enc, "ContactTypeCode", contactType)
	writeEle(enc, "ContactName", contactName)
	writeEle(enc, "PrimaryPhone", contactPhone)
	closeEle(enc, "Contacts")

	writeCompanyAddress(enc, rsxcode.AddressShipFrom, ctx.Company)
	if ctx.ShipTo != nil {
		writePartnerAddress(enc, rsxcode.AddressShipTo, ctx.ShipTo)
	}

	openEle(enc, "CarrierInformation")
	writeEle(enc, "CarrierTransMethodCode", rsxcode.CarrierPrivate)
	writeEle(enc, "CarrierAlphaCode", ship.CarrierAlphaCode)
	writeEle(enc, "CarrierRouting", ship.CarrierRouting)
	closeEle(enc, "CarrierInformation")

	// La UoM de la primera línea decide si el total se reporta en cajas.
	totalQty := "0"
	if len(ctx.Lines) > 0 {
		sum := decimal.Zero
		inCases := ctx.Lines[0].UOMCode == rsxcode.UOMCase
		for _, line := range ctx.Lines {
			if inCases {
				sum = sum.Add(pricing.QtyInCases(line.QtyDone, line.PackQty))
			} else {
				sum = sum.Add(line.QtyDone)
			}
		}
		totalQty = sum.String()
	}
	weightUOM := strings.ToUpper(ship.WeightUOM)
	if weightUOM == "" {
		weightUOM = "KG"
	}
	openEle(enc, "QuantityAndWeight")
	writeEle(enc, "LadingQuantity", fmt.Sprintf("%d", ship.PackageCount))
	writeEle(enc, "Weight", ship.Weight.String())
	writeEle(enc, "WeightUOM", weightUOM)
	writeEle(enc, "Quantity", totalQty)
	writeEle(enc, "QuantityTotalsQualifier", rsxcode.QuantityTotalsSummary)
	closeEle(enc, "QuantityAndWeight")

	closeEle(enc, "Header")

	openEle(enc, "OrderLevel")
	openEle(enc, "OrderHeader")
	writeEle(enc, "PurchaseOrderNumber", poNumber)
	poDate := ""
	vendor := ""
	if source != nil {
		poDate = source.OrderDate.Format(rsxcode.DateFormat)
		vendor = source.Vendor
	}
	writeEle(enc, "PurchaseOrderDate", poDate)
	writeEle(enc, "Vendor", vendor)
	closeEle(enc, "OrderHeader")

	lineCount := 0
	currentPallet := ""
	openPack := false
	for _, line := range ctx.Lines {
		if line.PalletName != currentPallet {
			if openPack {
				closeEle(enc, "PackLevel")
			}
			currentPallet = line.PalletName
			openPack = true

			openEle(enc, "PackLevel")
			openEle(enc, "Pack")
			writeEle(enc, "PackLevelType", rsxcode.PackLevelPallet)
			writeEle(enc, "ShippingSerialID", gs1.GenerateSSCC(ctx.CompanyPrefix, currentPallet))
			closeEle(enc, "Pack")
			openEle(enc, "MarksAndNumbersCollection")
			writeEle(enc, "MarksAndNumbersQualifier1", rsxcode.MarksQualifierWarehous)
			writeEle(enc, "MarksAndNumbers1", currentPallet)
			closeEle(enc, "MarksAndNumbersCollection")
		}

		product := ctx.Products[line.ProductID]

		openEle(enc, "ItemLevel")
		openEle(enc, "ShipmentLine")
		writeEle(enc, "LineSequenceNumber", line.LineSequenceNumber)
		writeEle(enc, "BuyerPartNumber", line.BuyerPartNumber)
		writeEle(enc, "VendorPartNumber", line.VendorPartNumber)
		if product != nil {
			writeEle(enc, "ConsumerPackageCode", product.Barcode)
			writeEle(enc, "EAN", product.EAN)
			writeEle(enc, "GTIN", product.GTIN)
		} else {
			writeEle(enc, "ConsumerPackageCode", "")
			writeEle(enc, "EAN", "")
			writeEle(enc, "GTIN", "")
		}
		openEle(enc, "ProductID")
		closeEle(enc, "ProductID")
		qty := line.QtyDone.String()
		if line.UOMCode == rsxcode.UOMCase {
			qty = pricing.QtyInCases(line.QtyDone, line.PackQty).String()
		}
		uom := line.UOMCode
		if uom == "" {
			uom = rsxcode.UOMEach
		}
		writeEle(enc, "ShipQty", qty)
		writeEle(enc, "ShipQtyUOM", uom)
		closeEle(enc, "ShipmentLine")

		packSize := "1"
		if line.PackQty.Sign() > 0 {
			packSize = line.PackQty.String()
		}
		openEle(enc, "PhysicalDetails")
		writeEle(enc, "PackValue", packSize)
		writeEle(enc, "PackSize", packSize)
		writeEle(enc, "PackUOM", uom)
		closeEle(enc, "PhysicalDetails")

		openEle(enc, "ProductOrItemDescription")
		writeEle(enc, "ProductCharacteristicCode", rsxcode.ProductCharacteristic)
		desc := line.Description
		if desc == "" {
			desc = "Item Description"
		}
		writeEle(enc, "ProductDescription", desc)
		closeEle(enc, "ProductOrItemDescription")

		if line.LotExpiry != nil {
			openEle(enc, "Dates")
			writeEle(enc, "DateTimeQualifier", rsxcode.DateQualExpiry)
			writeEle(enc, "Date", ctx.localTime(*line.LotExpiry).Format(rsxcode.DateFormat))
			closeEle(enc, "Dates")
		}
		if line.LotName != "" {
			openEle(enc, "References")
			writeEle(enc, "ReferenceQual", rsxcode.ReferenceQualLot)
			writeEle(enc, "ReferenceID", line.LotName)
			closeEle(enc, "References")
		}

		closeEle(enc, "ItemLevel")
		lineCount++
	}
	if openPack {
		closeEle(enc, "PackLevel")
	}
	closeEle(enc, "OrderLevel")

	openEle(enc, "Summary")
	writeEle(enc, "TotalLineItemNumber", fmt.Sprintf("%d", lineCount))
	closeEle(enc, "Summary")

	closeEle(enc, "Shipment")
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
