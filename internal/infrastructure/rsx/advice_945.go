package rsx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// AdviceDocument aviso de despacho de bodega 945 crudo. Comparte la
// estructura jerárquica del 856: OrderLevel > PackLevel > ItemLevel.
type AdviceDocument struct {
	ShipmentIdentification string
	BillOfLadingNumber     string

	PONumber string
	PODate   string
	Vendor   string

	Lines []AdviceLineItem
}

// AdviceLineItem renglón despachado reportado por la bodega.
type AdviceLineItem struct {
	LineSequenceNumber  string
	BuyerPartNumber     string
	VendorPartNumber    string
	ConsumerPackageCode string
	ShipQty             string
	ShipQtyUOM          string
	PackValue           string

	// PalletSerial SSCC del PackLevel contenedor; vacío si el renglón venía
	// directo bajo el OrderLevel.
	PalletSerial string
}

func decodeAdviceItem(item *etree.Element, palletSerial string) AdviceLineItem {
	shipmentLine := childElement(item, "ShipmentLine")
	physical := childElement(item, "PhysicalDetails")
	return AdviceLineItem{
		LineSequenceNumber:  EleText(shipmentLine, "LineSequenceNumber"),
		BuyerPartNumber:     EleText(shipmentLine, "BuyerPartNumber"),
		VendorPartNumber:    EleText(shipmentLine, "VendorPartNumber"),
		ConsumerPackageCode: EleText(shipmentLine, "ConsumerPackageCode"),
		ShipQty:             EleText(shipmentLine, "ShipQty"),
		ShipQtyUOM:          EleText(shipmentLine, "ShipQtyUOM"),
		PackValue:           EleText(physical, "PackValue"),
		PalletSerial:        palletSerial,
	}
}

// DecodeAdvice decodifica un archivo 945. El 850 entrante comparte
// directorio con el 945 en algunos socios, así que una raíz Orders devuelve
// ErrWrongDocument para que el sincronizador salte el archivo.
func (c *Codec) DecodeAdvice(data []byte) (*AdviceDocument, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("rsx: parsear 945: %w", err)
	}
	root := tree.Root()
	if root == nil {
		return nil, fmt.Errorf("rsx: documento sin raíz")
	}
	if !strings.Contains(root.Tag, "Shipment") {
		return nil, ErrWrongDocument
	}

	header := childElement(root, "Header")
	shipmentHeader := childElement(header, "ShipmentHeader")
	orderLevel := childElement(root, "OrderLevel")
	orderHeader := childElement(orderLevel, "OrderHeader")

	doc := &AdviceDocument{
		ShipmentIdentification: EleText(shipmentHeader, "ShipmentIdentification"),
		BillOfLadingNumber:     EleText(shipmentHeader, "BillOfLadingNumber"),
		PONumber:               EleText(orderHeader, "PurchaseOrderNumber"),
		PODate:                 EleText(orderHeader, "PurchaseOrderDate"),
		Vendor:                 EleText(orderHeader, "Vendor"),
	}

	for _, item := range childElements(orderLevel, "ItemLevel") {
		doc.Lines = append(doc.Lines, decodeAdviceItem(item, ""))
	}
	for _, pack := range childElements(orderLevel, "PackLevel") {
		serial := EleText(childElement(pack, "Pack"), "ShippingSerialID")
		for _, item := range childElements(pack, "ItemLevel") {
			doc.Lines = append(doc.Lines, decodeAdviceItem(item, serial))
		}
	}

	return doc, nil
}
