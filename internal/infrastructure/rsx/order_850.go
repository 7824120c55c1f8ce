package rsx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ErrWrongDocument el archivo es XML válido pero no es del tipo esperado.
// El sincronizador lo usa para saltar archivos de otro documento sin marcar error.
var ErrWrongDocument = errors.New("rsx: el archivo no corresponde al documento esperado")

// OrderDocument orden 850 cruda tal como viene en el archivo. Todos los
// campos son texto sin interpretar; la resolución contra el catálogo local
// es responsabilidad del importador.
type OrderDocument struct {
	TradingPartnerID  string
	PONumber          string
	TsetPurposeCode   string
	PrimaryPOTypeCode string
	Vendor            string
	Department        string
	PODate            string

	Contacts  []OrderContact
	Addresses []OrderAddress

	PaymentTerms *PaymentTermsBlock
	FOB          *FOBBlock

	DateTimeQualifier string
	Date              string
	Time              string

	CarrierTransMethodCode string
	CarrierRouting         string

	ReferenceQual        string
	ReferenceID          string
	ReferenceDescription string

	NoteCode string
	Note     string

	ChargesAllowances []ChargeAllowanceBlock

	TotalAmount    string
	TotalLineItems string

	Lines []OrderLineItem
}

// OrderContact bloque Contacts, de cabecera o anidado en una dirección.
type OrderContact struct {
	ContactTypeCode string
	ContactName     string
	PrimaryPhone    string
}

// OrderAddress bloque Address del 850.
type OrderAddress struct {
	AddressTypeCode       string
	LocationCodeQualifier string
	AddressLocationNumber string
	AddressName           string
	Address1              string
	Address2              string
	City                  string
	State                 string
	PostalCode            string
	Country               string

	Contact *OrderContact // Contacts anidado, si venía
}

// PaymentTermsBlock bloque PaymentTerms tal como viene en el archivo.
type PaymentTermsBlock struct {
	TermsType          string
	BasisDateCode      string
	DiscountPercentage string
	DiscountDate       string
	DiscountDueDays    string
	NetDueDate         string
	NetDueDays         string
	Description        string
}

// FOBBlock bloque FOBRelatedInstruction.
type FOBBlock struct {
	PayCode             string
	LocationQualifier   string
	LocationDescription string
}

// ChargeAllowanceBlock bloque ChargesAllowances (cabecera o línea).
type ChargeAllowanceBlock struct {
	Indicator               string
	Code                    string
	Amount                  string
	PercentQualifier        string
	Percent                 string
	HandlingCode            string
	ReferenceIdentification string
}

// OrderLineItem bloque LineItem del 850.
type OrderLineItem struct {
	LineSequenceNumber  string
	BuyerPartNumber     string
	VendorPartNumber    string
	ConsumerPackageCode string // el UPC siempre viaja aquí
	EAN                 string
	GTIN                string
	PartNumber          string
	OrderQty            string
	OrderQtyUOM         string
	PurchasePrice       string

	Description string
	PackValue   string
	PackSize    string

	ChargesAllowances *ChargeAllowanceBlock
	PaymentTerms      *PaymentTermsBlock

	HasTaxes    bool
	TaxTypeCode string
	TaxPercent  string
	TaxID       string
}

func decodeContact(ele *etree.Element) OrderContact {
	return OrderContact{
		ContactTypeCode: EleText(ele, "ContactTypeCode"),
		ContactName:     EleText(ele, "ContactName"),
		PrimaryPhone:    EleText(ele, "PrimaryPhone"),
	}
}

func decodePaymentTerms(ele *etree.Element) *PaymentTermsBlock {
	if ele == nil {
		return nil
	}
	return &PaymentTermsBlock{
		TermsType:          EleText(ele, "TermsType"),
		BasisDateCode:      EleText(ele, "TermsBasisDateCode"),
		DiscountPercentage: EleText(ele, "TermsDiscountPercentage"),
		DiscountDate:       EleText(ele, "TermsDiscountDate"),
		DiscountDueDays:    EleText(ele, "TermsDiscountDueDays"),
		NetDueDate:         EleText(ele, "TermsNetDueDate"),
		NetDueDays:         EleText(ele, "TermsNetDueDays"),
		Description:        EleText(ele, "TermsDescription"),
	}
}

func decodeChargeAllowance(ele *etree.Element) ChargeAllowanceBlock {
	return ChargeAllowanceBlock{
		Indicator:               EleText(ele, "AllowChrgIndicator"),
		Code:                    EleText(ele, "AllowChrgCode"),
		Amount:                  EleText(ele, "AllowChrgAmt"),
		PercentQualifier:        EleText(ele, "AllowChrgPercentQual"),
		Percent:                 EleText(ele, "AllowChrgPercent"),
		HandlingCode:            EleText(ele, "AllowChrgHandlingCode"),
		ReferenceIdentification: EleText(ele, "ReferenceIdentification"),
	}
}

func decodeOrder(order *etree.Element) *OrderDocument {
	header := childElement(order, "Header")
	orderHeader := childElement(header, "OrderHeader")
	summary := childElement(order, "Summary")

	doc := &OrderDocument{
		TradingPartnerID:  EleText(orderHeader, "TradingPartnerId"),
		PONumber:          EleText(orderHeader, "PurchaseOrderNumber"),
		TsetPurposeCode:   EleText(orderHeader, "TsetPurposeCode"),
		PrimaryPOTypeCode: EleText(orderHeader, "PrimaryPOTypeCode"),
		Vendor:            EleText(orderHeader, "Vendor"),
		Department:        EleText(orderHeader, "Department"),
		PODate:            EleText(orderHeader, "PurchaseOrderDate"),
		TotalAmount:       EleText(summary, "TotalAmount"),
		TotalLineItems:    EleText(summary, "TotalLineItemNumber"),
	}

	for _, c := range childElements(header, "Contacts") {
		doc.Contacts = append(doc.Contacts, decodeContact(c))
	}
	for _, a := range childElements(header, "Address") {
		addr := OrderAddress{
			AddressTypeCode:       EleText(a, "AddressTypeCode"),
			LocationCodeQualifier: EleText(a, "LocationCodeQualifier"),
			AddressLocationNumber: EleText(a, "AddressLocationNumber"),
			AddressName:           EleText(a, "AddressName"),
			Address1:              EleText(a, "Address1"),
			Address2:              EleText(a, "Address2"),
			City:                  EleText(a, "City"),
			State:                 EleText(a, "State"),
			PostalCode:            EleText(a, "PostalCode"),
			Country:               EleText(a, "Country"),
		}
		if c := childElement(a, "Contacts"); c != nil {
			contact := decodeContact(c)
			addr.Contact = &contact
		}
		doc.Addresses = append(doc.Addresses, addr)
	}

	doc.PaymentTerms = decodePaymentTerms(childElement(header, "PaymentTerms"))
	if fob := childElement(header, "FOBRelatedInstruction"); fob != nil {
		doc.FOB = &FOBBlock{
			PayCode:             EleText(fob, "FOBPayCode"),
			LocationQualifier:   EleText(fob, "FOBLocationQualifier"),
			LocationDescription: EleText(fob, "FOBLocationDescription"),
		}
	}

	// Con varios bloques Dates gana el último, igual que el importador clásico.
	for _, d := range childElements(header, "Dates") {
		doc.DateTimeQualifier = EleText(d, "DateTimeQualifier")
		doc.Date = EleText(d, "Date")
		doc.Time = EleText(d, "Time")
	}

	carrier := childElement(header, "CarrierInformation")
	doc.CarrierTransMethodCode = EleText(carrier, "CarrierTransMethodCode")
	doc.CarrierRouting = EleText(carrier, "CarrierRouting")

	refs := childElement(header, "References")
	doc.ReferenceQual = EleText(refs, "ReferenceQual")
	doc.ReferenceID = EleText(refs, "ReferenceID")
	doc.ReferenceDescription = EleText(refs, "Description")

	notes := childElement(header, "Notes")
	doc.NoteCode = EleText(notes, "NoteCode")
	doc.Note = EleText(notes, "Note")

	for _, ca := range childElements(header, "ChargesAllowances") {
		doc.ChargesAllowances = append(doc.ChargesAllowances, decodeChargeAllowance(ca))
	}

	for _, item := range childElements(order, "LineItem") {
		orderLine := childElement(item, "OrderLine")
		desc := childElement(item, "ProductOrItemDescription")
		physical := childElement(item, "PhysicalDetails")

		line := OrderLineItem{
			LineSequenceNumber:  EleText(orderLine, "LineSequenceNumber"),
			BuyerPartNumber:     EleText(orderLine, "BuyerPartNumber"),
			VendorPartNumber:    EleText(orderLine, "VendorPartNumber"),
			ConsumerPackageCode: EleText(orderLine, "ConsumerPackageCode"),
			EAN:                 EleText(orderLine, "EAN"),
			GTIN:                EleText(orderLine, "GTIN"),
			PartNumber:          EleText(childElement(orderLine, "ProductID"), "PartNumber"),
			OrderQty:            EleText(orderLine, "OrderQty"),
			OrderQtyUOM:         EleText(orderLine, "OrderQtyUOM"),
			PurchasePrice:       EleText(orderLine, "PurchasePrice"),
			Description:         EleText(desc, "ProductDescription"),
			PackValue:           EleText(physical, "PackValue"),
			PackSize:            EleText(physical, "PackSize"),
		}
		if ca := childElement(item, "ChargesAllowances"); ca != nil {
			block := decodeChargeAllowance(ca)
			line.ChargesAllowances = &block
		}
		line.PaymentTerms = decodePaymentTerms(childElement(item, "PaymentTerms"))
		if taxes := childElement(item, "Taxes"); taxes != nil {
			line.HasTaxes = true
			line.TaxTypeCode = EleText(taxes, "TaxTypeCode")
			line.TaxPercent = EleText(taxes, "TaxPercent")
			line.TaxID = EleText(taxes, "TaxID")
		}
		doc.Lines = append(doc.Lines, line)
	}

	return doc
}

// DecodeOrders decodifica un archivo 850. El archivo agrupa una o más órdenes
// bajo un elemento raíz Orders; si la raíz es de otro documento (un 945 en el
// mismo directorio) devuelve ErrWrongDocument.
func (c *Codec) DecodeOrders(data []byte) ([]*OrderDocument, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("rsx: parsear 850: %w", err)
	}
	root := tree.Root()
	if root == nil {
		return nil, fmt.Errorf("rsx: documento sin raíz")
	}
	if !strings.Contains(root.Tag, "Orders") {
		return nil, ErrWrongDocument
	}

	var docs []*OrderDocument
	for _, order := range root.ChildElements() {
		docs = append(docs, decodeOrder(order))
	}
	return docs, nil
}
