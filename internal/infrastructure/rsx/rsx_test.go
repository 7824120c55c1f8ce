package rsx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/edi-pro/internal/infrastructure/rsx"
)

// Archivo 850 representativo: dos órdenes, con contactos, direcciones,
// términos de pago, cargos y una línea con impuestos.
const sample850 = `<?xml version="1.0" encoding="utf-8"?>
<Orders xmlns="http://www.spscommerce.com/RSX">
  <Order>
    <Header>
      <OrderHeader>
        <TradingPartnerId>525GROCERYSTORE</TradingPartnerId>
        <PurchaseOrderNumber>PO-998877</PurchaseOrderNumber>
        <TsetPurposeCode>00</TsetPurposeCode>
        <PrimaryPOTypeCode>SA</PrimaryPOTypeCode>
        <PurchaseOrderDate>2024-03-05</PurchaseOrderDate>
        <Vendor>000778</Vendor>
        <Department>021</Department>
      </OrderHeader>
      <PaymentTerms>
        <TermsType>05</TermsType>
        <TermsBasisDateCode>3</TermsBasisDateCode>
        <TermsDiscountPercentage>2</TermsDiscountPercentage>
        <TermsDiscountDueDays>10</TermsDiscountDueDays>
        <TermsNetDueDays>30</TermsNetDueDays>
        <TermsDescription>2% 10 Net 30</TermsDescription>
      </PaymentTerms>
      <Dates>
        <DateTimeQualifier>002</DateTimeQualifier>
        <Date>2024-03-12</Date>
      </Dates>
      <Contacts>
        <ContactTypeCode>BD</ContactTypeCode>
        <ContactName>Jane Buyer</ContactName>
        <PrimaryPhone>555-0101</PrimaryPhone>
      </Contacts>
      <Address>
        <AddressTypeCode>ST</AddressTypeCode>
        <LocationCodeQualifier>92</LocationCodeQualifier>
        <AddressLocationNumber>0044</AddressLocationNumber>
        <AddressName>Store 44</AddressName>
        <Address1>100 Main St</Address1>
        <City>Toronto</City>
        <State>ON</State>
        <PostalCode>M5V 1A1</PostalCode>
        <Country>CA</Country>
      </Address>
      <CarrierInformation>
        <CarrierTransMethodCode>M</CarrierTransMethodCode>
        <CarrierRouting>XYZ FREIGHT</CarrierRouting>
      </CarrierInformation>
      <References>
        <ReferenceQual>IT</ReferenceQual>
        <ReferenceID>REF-1</ReferenceID>
      </References>
      <Notes>
        <NoteCode>GEN</NoteCode>
        <Note>Leave at dock 3</Note>
      </Notes>
      <ChargesAllowances>
        <AllowChrgIndicator>C</AllowChrgIndicator>
        <AllowChrgCode>D240</AllowChrgCode>
        <AllowChrgAmt>12.50</AllowChrgAmt>
      </ChargesAllowances>
    </Header>
    <LineItem>
      <OrderLine>
        <LineSequenceNumber>001</LineSequenceNumber>
        <BuyerPartNumber>BP-1</BuyerPartNumber>
        <VendorPartNumber>VP-1</VendorPartNumber>
        <ConsumerPackageCode>062988201234</ConsumerPackageCode>
        <EAN>0062988201234</EAN>
        <GTIN>00062988201234</GTIN>
        <ProductID>
          <PartNumber>PN-1</PartNumber>
        </ProductID>
        <OrderQty>3</OrderQty>
        <OrderQtyUOM>CA</OrderQtyUOM>
        <PurchasePrice>60.00</PurchasePrice>
      </OrderLine>
      <PhysicalDetails>
        <PackValue>12</PackValue>
        <PackSize>12</PackSize>
      </PhysicalDetails>
      <ProductOrItemDescription>
        <ProductDescription>Maple Syrup 500ml</ProductDescription>
      </ProductOrItemDescription>
      <Taxes>
        <TaxTypeCode>GS</TaxTypeCode>
        <TaxPercent>5</TaxPercent>
        <TaxID>R-100</TaxID>
      </Taxes>
    </LineItem>
  </Order>
  <Order>
    <Header>
      <OrderHeader>
        <TradingPartnerId>525GROCERYSTORE</TradingPartnerId>
        <PurchaseOrderNumber>PO-998878</PurchaseOrderNumber>
      </OrderHeader>
    </Header>
  </Order>
</Orders>`

// ─────────────────────────────────────────────
// DecodeOrders
// ─────────────────────────────────────────────

func TestDecodeOrders(t *testing.T) {
	codec := rsx.NewCodec()
	docs, err := codec.DecodeOrders([]byte(sample850))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	doc := docs[0]
	assert.Equal(t, "525GROCERYSTORE", doc.TradingPartnerID)
	assert.Equal(t, "PO-998877", doc.PONumber)
	assert.Equal(t, "00", doc.TsetPurposeCode)
	assert.Equal(t, "SA", doc.PrimaryPOTypeCode)
	assert.Equal(t, "000778", doc.Vendor)
	assert.Equal(t, "021", doc.Department)
	assert.Equal(t, "2024-03-05", doc.PODate)

	assert.Equal(t, "002", doc.DateTimeQualifier)
	assert.Equal(t, "2024-03-12", doc.Date)

	require.NotNil(t, doc.PaymentTerms)
	assert.Equal(t, "05", doc.PaymentTerms.TermsType)
	assert.Equal(t, "2% 10 Net 30", doc.PaymentTerms.Description)

	require.Len(t, doc.Contacts, 1)
	assert.Equal(t, "BD", doc.Contacts[0].ContactTypeCode)

	require.Len(t, doc.Addresses, 1)
	assert.Equal(t, "ST", doc.Addresses[0].AddressTypeCode)
	assert.Equal(t, "0044", doc.Addresses[0].AddressLocationNumber)

	assert.Equal(t, "M", doc.CarrierTransMethodCode)
	assert.Equal(t, "IT", doc.ReferenceQual)
	assert.Equal(t, "GEN", doc.NoteCode)
	assert.Equal(t, "Leave at dock 3", doc.Note)

	require.Len(t, doc.ChargesAllowances, 1)
	assert.Equal(t, "C", doc.ChargesAllowances[0].Indicator)
	assert.Equal(t, "12.50", doc.ChargesAllowances[0].Amount)

	require.Len(t, doc.Lines, 1)
	line := doc.Lines[0]
	assert.Equal(t, "001", line.LineSequenceNumber)
	assert.Equal(t, "062988201234", line.ConsumerPackageCode)
	assert.Equal(t, "PN-1", line.PartNumber)
	assert.Equal(t, "3", line.OrderQty)
	assert.Equal(t, "CA", line.OrderQtyUOM)
	assert.Equal(t, "60.00", line.PurchasePrice)
	assert.Equal(t, "12", line.PackValue)
	assert.Equal(t, "Maple Syrup 500ml", line.Description)
	assert.True(t, line.HasTaxes)
	assert.Equal(t, "GS", line.TaxTypeCode)
}

func TestDecodeOrdersToleraElementosAusentes(t *testing.T) {
	// La segunda orden trae solo TradingPartnerId y PONumber; todo lo demás
	// degrada a cadena vacía sin error.
	codec := rsx.NewCodec()
	docs, err := codec.DecodeOrders([]byte(sample850))
	require.NoError(t, err)

	doc := docs[1]
	assert.Equal(t, "PO-998878", doc.PONumber)
	assert.Empty(t, doc.TsetPurposeCode)
	assert.Empty(t, doc.Vendor)
	assert.Nil(t, doc.PaymentTerms)
	assert.Empty(t, doc.Lines)
	assert.Empty(t, doc.Addresses)
}

func TestDecodeOrdersRaizEquivocada(t *testing.T) {
	codec := rsx.NewCodec()
	_, err := codec.DecodeOrders([]byte(`<Shipment xmlns="http://www.spscommerce.com/RSX"></Shipment>`))
	require.ErrorIs(t, err, rsx.ErrWrongDocument)
}

func TestDecodeOrdersXMLInvalido(t *testing.T) {
	codec := rsx.NewCodec()
	_, err := codec.DecodeOrders([]byte(`<Orders><Order>`))
	require.Error(t, err)
}

// ─────────────────────────────────────────────
// DecodeAdvice
// ─────────────────────────────────────────────

const sample945 = `<?xml version="1.0" encoding="utf-8"?>
<Shipment xmlns="http://www.spscommerce.com/RSX">
  <Header>
    <ShipmentHeader>
      <ShipmentIdentification>ASN_PO-998877</ShipmentIdentification>
      <BillOfLadingNumber>BOL-555</BillOfLadingNumber>
    </ShipmentHeader>
  </Header>
  <OrderLevel>
    <OrderHeader>
      <PurchaseOrderNumber>PO-998877</PurchaseOrderNumber>
      <PurchaseOrderDate>2024-03-05</PurchaseOrderDate>
      <Vendor>000778</Vendor>
    </OrderHeader>
    <PackLevel>
      <Pack>
        <PackLevelType>P</PackLevelType>
        <ShippingSerialID>00006288200000000071</ShippingSerialID>
      </Pack>
      <ItemLevel>
        <ShipmentLine>
          <LineSequenceNumber>001</LineSequenceNumber>
          <BuyerPartNumber>BP-1</BuyerPartNumber>
          <ConsumerPackageCode>062988201234</ConsumerPackageCode>
          <ShipQty>3</ShipQty>
          <ShipQtyUOM>CA</ShipQtyUOM>
        </ShipmentLine>
        <PhysicalDetails>
          <PackValue>12</PackValue>
        </PhysicalDetails>
      </ItemLevel>
    </PackLevel>
  </OrderLevel>
</Shipment>`

func TestDecodeAdvice(t *testing.T) {
	codec := rsx.NewCodec()
	doc, err := codec.DecodeAdvice([]byte(sample945))
	require.NoError(t, err)

	assert.Equal(t, "ASN_PO-998877", doc.ShipmentIdentification)
	assert.Equal(t, "BOL-555", doc.BillOfLadingNumber)
	assert.Equal(t, "PO-998877", doc.PONumber)
	assert.Equal(t, "000778", doc.Vendor)

	require.Len(t, doc.Lines, 1)
	line := doc.Lines[0]
	assert.Equal(t, "001", line.LineSequenceNumber)
	assert.Equal(t, "3", line.ShipQty)
	assert.Equal(t, "CA", line.ShipQtyUOM)
	assert.Equal(t, "12", line.PackValue)
	assert.Equal(t, "00006288200000000071", line.PalletSerial)
}

func TestDecodeAdviceRaizEquivocada(t *testing.T) {
	codec := rsx.NewCodec()
	_, err := codec.DecodeAdvice([]byte(sample850))
	require.ErrorIs(t, err, rsx.ErrWrongDocument)
}

// ─────────────────────────────────────────────
// Blob de términos de pago
// ─────────────────────────────────────────────

func TestFormatPaymentTermsIdaYVuelta(t *testing.T) {
	terms := &rsx.PaymentTermsBlock{
		TermsType:       "05",
		BasisDateCode:   "3",
		DiscountDueDays: "10",
		NetDueDays:      "30",
		Description:     "2% 10 Net 30",
	}
	fob := &rsx.FOBBlock{PayCode: "CC", LocationQualifier: "DE", LocationDescription: "Origin"}

	blob := rsx.FormatPaymentTerms(terms, fob)
	values := rsx.ParsePaymentTerms(blob)

	assert.Equal(t, "05", values["Terms Type"])
	assert.Equal(t, "10", values["Discount Due Days"])
	assert.Equal(t, "30", values["Net Due Days"])
	assert.Equal(t, "2% 10 Net 30", values["Terms Description"])
	assert.Equal(t, "CC", values["FOB Pay Code"])
	assert.Equal(t, "Origin", values["FOB Location Description"])
}

func TestFormatPaymentTermsNil(t *testing.T) {
	assert.Empty(t, rsx.FormatPaymentTerms(nil, nil))
}
