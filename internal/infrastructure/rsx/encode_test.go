package rsx_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/infrastructure/rsx"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// pathText texto del primer elemento en la ruta dada del documento generado.
func pathText(t *testing.T, data []byte, path string) string {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	ele := doc.FindElement(path)
	require.NotNil(t, ele, "ruta no encontrada: %s", path)
	return ele.Text()
}

func testCompany() *entity.Company {
	return &entity.Company{
		Name: "Alimentos del Norte SAS", Street: "Cra 7 # 10-20", City: "Bogota",
		Zip: "110111", StateCode: "DC", CountryCode: "CO",
		LocationCodeQualifier: "9", AddressLocationNumber: "000778",
	}
}

func testPartner(pricesInCases bool) *entity.Partner {
	return &entity.Partner{
		ID: "p1", Name: "Grocery Store Inc", IsCompany: true,
		TradingPartnerID: "525GROCERYSTORE", PriceInCases: pricesInCases,
	}
}

func testOrder() *entity.Order {
	commitment := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	return &entity.Order{
		ID: "o1", Name: "SO0012", PONumber: "PO-998877",
		TsetPurposeCode: "00", AcknowledgementType: "AC",
		OrderDate:         time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		DateTimeQualifier: "002", CommitmentDate: &commitment,
		Vendor: "000778", Department: "021",
	}
}

// ─────────────────────────────────────────────
// EncodeAck (855)
// ─────────────────────────────────────────────

func TestEncodeAck(t *testing.T) {
	codec := rsx.NewCodec()
	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)

	lines := []*entity.OrderLine{
		{
			LineSequenceNumber: "001", ConsumerPackageCode: "062988201234",
			Qty: dec("25"), PackQty: dec("12"), UOMCode: "CA",
			UnitPrice: dec("5"), CasePrice: dec("60"),
			ItemStatusCode: "IA", Name: "Maple Syrup 500ml", PartNumber: "PN-1",
		},
		{IsNote: true, Name: "PRODUCT NOT FOUND - UPC/barcode: 123"},
	}

	data, err := codec.EncodeAck(&rsx.AckBuildContext{
		Order:   testOrder(),
		Lines:   lines,
		Partner: testPartner(true),
		ShipTo: &entity.Partner{
			Name: "Store 44", AddressLocationNumber: "0044", LocationCodeQualifier: "92",
		},
		Company:  testCompany(),
		Products: map[string]*entity.Product{},
		Now:      now,
	})
	require.NoError(t, err)

	assert.Equal(t, "525GROCERYSTORE", pathText(t, data, "//OrderAck/Header/OrderHeader/TradingPartnerId"))
	assert.Equal(t, "SO0012", pathText(t, data, "//OrderHeader/AcknowledgementNumber"))
	assert.Equal(t, "AC", pathText(t, data, "//OrderHeader/AcknowledgementType"))
	// Calificador 002: la fecha del bloque Dates es la de compromiso.
	assert.Equal(t, "002", pathText(t, data, "//Header/Dates/DateTimeQualifier"))
	assert.Equal(t, "2024-03-12", pathText(t, data, "//Header/Dates/Date"))

	// 25 unidades en cajas de 12: 3 cajas en el intercambio.
	assert.Equal(t, "3.0", pathText(t, data, "//LineItem/OrderLine/OrderQty"))
	assert.Equal(t, "CA", pathText(t, data, "//LineItem/OrderLine/OrderQtyUOM"))
	// El socio factura por caja: el precio emitido es el de caja.
	assert.Equal(t, "60.00", pathText(t, data, "//LineItem/OrderLine/PurchasePrice"))
	assert.Equal(t, "IA", pathText(t, data, "//LineItemAcknowledgement/ItemStatusCode"))
	assert.Equal(t, "068", pathText(t, data, "//LineItemAcknowledgement/ItemScheduleQualifier"))

	// La línea de nota no cuenta como renglón estructurado.
	assert.Equal(t, "1", pathText(t, data, "//Summary/TotalLineItemNumber"))

	assert.Equal(t, "SF", pathText(t, data, "//Header/Address[1]/AddressTypeCode"))
	assert.Equal(t, "ST", pathText(t, data, "//Header/Address[2]/AddressTypeCode"))
}

func TestEncodeAckContextoIncompleto(t *testing.T) {
	codec := rsx.NewCodec()
	_, err := codec.EncodeAck(&rsx.AckBuildContext{})
	require.Error(t, err)
}

// ─────────────────────────────────────────────
// EncodeInvoice (810)
// ─────────────────────────────────────────────

func TestEncodeInvoice(t *testing.T) {
	codec := rsx.NewCodec()
	now := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)

	inv := &entity.Invoice{
		Name:               "INV0045",
		TsetPurposeCode:    "00",
		MerchTypeCode:      "TYPE7",
		InvoiceDate:        time.Date(2024, 3, 18, 14, 30, 0, 0, time.UTC),
		AmountTotal:        dec("180.00"),
		AmountResidual:     dec("180.00"),
		AmountUndiscounted: dec("180.00"),
		AmountUntaxed:      dec("171.43"),
	}
	lines := []*entity.InvoiceLine{
		{
			LineSequenceNumber: "001", ConsumerPackageCode: "06298820123456789",
			Qty: dec("36"), PackQty: dec("12"), UOMCode: "CA",
			UnitPrice: dec("5"), CasePrice: dec("60"), Subtotal: dec("180"),
			TaxPercent: dec("5"), Name: "Maple Syrup 500ml",
		},
	}

	data, err := codec.EncodeInvoice(&rsx.InvoiceBuildContext{
		Invoice:     inv,
		Lines:       lines,
		Partner:     testPartner(false),
		SourceOrder: testOrder(),
		Company:     testCompany(),
		Products:    map[string]*entity.Product{},
		Now:         now,
	})
	require.NoError(t, err)

	// INV + los primeros 12 caracteres del PO de origen.
	assert.Equal(t, "INVPO-998877", pathText(t, data, "//Invoice/Header/InvoiceHeader/InvoiceNumber"))
	assert.Equal(t, "2024-03-18", pathText(t, data, "//InvoiceHeader/InvoiceDate"))
	assert.Equal(t, "14:30:00", pathText(t, data, "//InvoiceHeader/InvoiceTime"))
	assert.Equal(t, "PO-998877", pathText(t, data, "//InvoiceHeader/PurchaseOrderNumber"))

	// Blob vacío: defaults Net 30 sobre la fecha de factura.
	assert.Equal(t, "Net 30", pathText(t, data, "//PaymentTerms/TermsDescription"))
	assert.Equal(t, "2024-04-17", pathText(t, data, "//PaymentTerms/TermsNetDueDate"))
	assert.Equal(t, "30", pathText(t, data, "//PaymentTerms/TermsDiscountDueDays"))

	// El código de barras se trunca a 13 caracteres.
	assert.Equal(t, "0629882012345", pathText(t, data, "//InvoiceLine/ConsumerPackageCode"))
	// 36 unidades en cajas de 12: 3 cajas.
	assert.Equal(t, "3.0", pathText(t, data, "//InvoiceLine/InvoiceQty"))
	// Socio factura por unidad: precio unitario.
	assert.Equal(t, "5.00", pathText(t, data, "//InvoiceLine/PurchasePrice"))
	// Sin código de impuesto en la línea: LS por defecto.
	assert.Equal(t, "LS", pathText(t, data, "//LineItem/Taxes/TaxTypeCode"))
	assert.Equal(t, "9.00", pathText(t, data, "//LineItem/Taxes/TaxAmount"))

	assert.Equal(t, "MR", pathText(t, data, "//References/ReferenceQual"))
	assert.Equal(t, "TYPE7", pathText(t, data, "//References/ReferenceID"))

	assert.Equal(t, "SQT", pathText(t, data, "//QuantityTotals/QuantityTotalsQualifier"))
	assert.Equal(t, "180.00", pathText(t, data, "//Summary/TotalSalesAmount"))
	assert.Equal(t, "1", pathText(t, data, "//Summary/TotalLineItemNumber"))

	// RI siempre presente con los datos de la compañía emisora.
	assert.Equal(t, "RI", pathText(t, data, "//Header/Address/AddressTypeCode"))
}

// ─────────────────────────────────────────────
// EncodeShipment (856)
// ─────────────────────────────────────────────

func TestEncodeShipment(t *testing.T) {
	codec := rsx.NewCodec()
	now := time.Date(2024, 3, 21, 8, 0, 0, 0, time.UTC)
	scheduled := time.Date(2024, 3, 22, 6, 0, 0, 0, time.UTC)

	ship := &entity.Shipment{
		Name: "WH-OUT-0009", BillOfLadingNumber: "BOL-555",
		CarrierAlphaCode: "FDEG", CarrierRouting: "XYZ FREIGHT",
		ScheduledDate: &scheduled, CreateDate: now,
		Weight: dec("120"), WeightUOM: "kg", PackageCount: 2,
		AllContacts: "Type: Buyer Contact\nName: Jane Buyer\nPhone: 555-0101\n\n",
	}
	lines := []*entity.ShipmentLine{
		{PalletName: "PAL1", LineSequenceNumber: "001", QtyDone: dec("24"), PackQty: dec("12"), UOMCode: "CA", Description: "Maple Syrup 500ml"},
		{PalletName: "PAL1", LineSequenceNumber: "002", QtyDone: dec("12"), PackQty: dec("12"), UOMCode: "CA", Description: "Maple Syrup 1L", LotName: "LOT-9"},
		{PalletName: "PAL2", LineSequenceNumber: "003", QtyDone: dec("6"), PackQty: dec("6"), UOMCode: "CA", Description: "Honey 250g"},
	}

	data, err := codec.EncodeShipment(&rsx.ShipmentBuildContext{
		Shipment:      ship,
		Lines:         lines,
		Partner:       testPartner(false),
		ShipTo:        &entity.Partner{Name: "Store 44", AddressLocationNumber: "0044"},
		SourceOrder:   testOrder(),
		Company:       testCompany(),
		Products:      map[string]*entity.Product{},
		CompanyPrefix: "0628820",
		Location:      time.UTC,
		Now:           now,
	})
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Shipment", root.Tag)
	// El 856 declara el namespace RSX en la raíz.
	assert.Equal(t, "http://www.spscommerce.com/RSX", root.SelectAttrValue("xmlns", ""))

	assert.Equal(t, "ASN_PO-998877", pathText(t, data, "//ShipmentHeader/ShipmentIdentification"))
	assert.Equal(t, "2024-03-22", pathText(t, data, "//ShipmentHeader/ShipDate"))
	assert.Equal(t, "BOL-555", pathText(t, data, "//ShipmentHeader/BillOfLadingNumber"))
	assert.Equal(t, "0001", pathText(t, data, "//ShipmentHeader/ASNStructureCode"))

	// Contacto tomado del blob de la orden.
	assert.Equal(t, "Jane Buyer", pathText(t, data, "//Contacts/ContactName"))
	assert.Equal(t, "555-0101", pathText(t, data, "//Contacts/PrimaryPhone"))

	assert.Equal(t, "2", pathText(t, data, "//QuantityAndWeight/LadingQuantity"))
	assert.Equal(t, "KG", pathText(t, data, "//QuantityAndWeight/WeightUOM"))
	// 24/12 + 12/12 + 6/6 = 4 cajas en total.
	assert.Equal(t, "4", pathText(t, data, "//QuantityAndWeight/Quantity"))

	// Dos pallets, dos bloques PackLevel; las líneas del mismo pallet comparten bloque.
	packs := doc.FindElements("//OrderLevel/PackLevel")
	require.Len(t, packs, 2)
	assert.Len(t, packs[0].FindElements("ItemLevel"), 2)
	assert.Len(t, packs[1].FindElements("ItemLevel"), 1)

	// Serial SSCC-18 derivado del nombre del pallet: "00" + extensión "0" +
	// prefijo "0628820" + serie "000000001" + control 9.
	serial := pathText(t, data, "//PackLevel/Pack/ShippingSerialID")
	assert.Equal(t, "00006288200000000019", serial)
	assert.Equal(t, "PAL1", pathText(t, data, "//MarksAndNumbersCollection/MarksAndNumbers1"))

	// Lote: referencia LT solo en la línea que lo tiene.
	refs := doc.FindElements("//ItemLevel/References")
	require.Len(t, refs, 1)
	assert.Equal(t, "LOT-9", refs[0].FindElement("ReferenceID").Text())

	assert.Equal(t, "3", pathText(t, data, "//Summary/TotalLineItemNumber"))
}
