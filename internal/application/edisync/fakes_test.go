package edisync

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/infrastructure/rsx"
	"github.com/tu-usuario/edi-pro/pkg/config"
	"github.com/tu-usuario/edi-pro/pkg/logger"
)

// ─────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los puertos de persistencia y del conector
// ─────────────────────────────────────────────────────────────────────────────

type fakeOrders struct {
	orders  []*entity.Order
	lines   map[string][]*entity.OrderLine
	pending []*entity.Order
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{lines: make(map[string][]*entity.OrderLine)}
}

func (f *fakeOrders) Create(_ context.Context, o *entity.Order) error {
	f.orders = append(f.orders, o)
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*entity.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrders) GetByName(_ context.Context, name string) (*entity.Order, error) {
	for _, o := range f.orders {
		if o.Name == name {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrders) GetByPONumber(_ context.Context, po string) (*entity.Order, error) {
	for _, o := range f.orders {
		if o.PONumber == po {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrders) FindBackorderOrigin(_ context.Context, reference string) (*entity.Order, error) {
	for _, o := range f.orders {
		if o.PONumber == reference && o.BackorderOriginID == "" {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrders) CreateLine(_ context.Context, l *entity.OrderLine) error {
	f.lines[l.OrderID] = append(f.lines[l.OrderID], l)
	return nil
}

func (f *fakeOrders) GetLines(_ context.Context, orderID string) ([]*entity.OrderLine, error) {
	return f.lines[orderID], nil
}

func (f *fakeOrders) UpdateLineCount(_ context.Context, orderID string, count int) error {
	for _, o := range f.orders {
		if o.ID == orderID {
			o.TotalLineItems = count
		}
	}
	return nil
}

func (f *fakeOrders) UpdateEDIStatus(_ context.Context, orderID, status string) error {
	for _, o := range f.orders {
		if o.ID == orderID {
			o.EDIStatus = status
		}
	}
	return nil
}

func (f *fakeOrders) ListPendingAcks(context.Context) ([]*entity.Order, error) {
	return f.pending, nil
}

type fakeInvoices struct {
	invoices []*entity.Invoice
	lines    map[string][]*entity.InvoiceLine
	pending  []*entity.Invoice
}

func newFakeInvoices() *fakeInvoices {
	return &fakeInvoices{lines: make(map[string][]*entity.InvoiceLine)}
}

func (f *fakeInvoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoices) GetLines(_ context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	return f.lines[invoiceID], nil
}

func (f *fakeInvoices) UpdateEDIStatus(_ context.Context, invoiceID, status string) error {
	for _, inv := range f.invoices {
		if inv.ID == invoiceID {
			inv.EDIStatus = status
		}
	}
	return nil
}

func (f *fakeInvoices) ListPendingExport(context.Context) ([]*entity.Invoice, error) {
	return f.pending, nil
}

type fakeShipments struct {
	shipments []*entity.Shipment
	lines     map[string][]*entity.ShipmentLine
	pending   []*entity.Shipment
}

func newFakeShipments() *fakeShipments {
	return &fakeShipments{lines: make(map[string][]*entity.ShipmentLine)}
}

func (f *fakeShipments) GetByID(_ context.Context, id string) (*entity.Shipment, error) {
	for _, sh := range f.shipments {
		if sh.ID == id {
			return sh, nil
		}
	}
	return nil, nil
}

func (f *fakeShipments) GetLines(_ context.Context, shipmentID string) ([]*entity.ShipmentLine, error) {
	return f.lines[shipmentID], nil
}

func (f *fakeShipments) UpdateEDIStatus(_ context.Context, shipmentID, status string) error {
	for _, sh := range f.shipments {
		if sh.ID == shipmentID {
			sh.EDIStatus = status
		}
	}
	return nil
}

func (f *fakeShipments) ListPendingExport(context.Context) ([]*entity.Shipment, error) {
	return f.pending, nil
}

type fakeAdvices struct {
	advices []*entity.WarehouseAdvice
	lines   []*entity.AdviceLine
}

func (f *fakeAdvices) Create(_ context.Context, a *entity.WarehouseAdvice) error {
	f.advices = append(f.advices, a)
	return nil
}

func (f *fakeAdvices) CreateLine(_ context.Context, l *entity.AdviceLine) error {
	f.lines = append(f.lines, l)
	return nil
}

func (f *fakeAdvices) GetBySourceFile(_ context.Context, sourceFile string) (*entity.WarehouseAdvice, error) {
	for _, a := range f.advices {
		if a.SourceFile == sourceFile {
			return a, nil
		}
	}
	return nil, nil
}

type fakePartners struct {
	partners []*entity.Partner
}

func (f *fakePartners) Create(_ context.Context, p *entity.Partner) error {
	f.partners = append(f.partners, p)
	return nil
}

func (f *fakePartners) GetByID(_ context.Context, id string) (*entity.Partner, error) {
	for _, p := range f.partners {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePartners) GetCompanyByTradingPartnerID(_ context.Context, tpID string) (*entity.Partner, error) {
	for _, p := range f.partners {
		if p.TradingPartnerID == tpID && p.IsCompany {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePartners) GetByLocationNumber(_ context.Context, parentID, locationNumber string) (*entity.Partner, error) {
	if locationNumber == "" {
		return nil, nil
	}
	for _, p := range f.partners {
		if p.ParentID == parentID && p.AddressLocationNumber == locationNumber {
			return p, nil
		}
	}
	return nil, nil
}

type fakeCompanies struct {
	company *entity.Company
}

func (f *fakeCompanies) Get(context.Context) (*entity.Company, error) {
	return f.company, nil
}

type fakeGeo struct {
	countries map[string]string // código ISO -> ID
	states    map[string]string // "countryID/código" -> ID
}

func (f *fakeGeo) CountryByCode(_ context.Context, code string) (string, error) {
	return f.countries[code], nil
}

func (f *fakeGeo) StateByCode(_ context.Context, countryID, code string) (string, error) {
	return f.states[countryID+"/"+code], nil
}

type fakeProducts struct {
	products    []*entity.Product
	identifiers map[string][2]string // productID -> {gtin, ean}
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{identifiers: make(map[string][2]string)}
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) UpdateIdentifiers(_ context.Context, productID, gtin, ean string) error {
	f.identifiers[productID] = [2]string{gtin, ean}
	return nil
}

type fakeUOMs struct {
	uoms []*entity.UOM
}

func (f *fakeUOMs) GetByEDICode(_ context.Context, code string) (*entity.UOM, error) {
	for _, u := range f.uoms {
		if u.EDICode == code {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUOMs) GetByName(_ context.Context, name string) (*entity.UOM, error) {
	for _, u := range f.uoms {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, nil
}

type fakePricelist struct {
	prices map[string]decimal.Decimal // "partnerID/productID/packageID"
}

func (f *fakePricelist) GrossSellingPrice(_ context.Context, partnerID, productID, packageID string) (decimal.Decimal, error) {
	return f.prices[partnerID+"/"+productID+"/"+packageID], nil
}

type fakeTerms struct {
	terms []*entity.PaymentTerm
}

func (f *fakeTerms) GetByDescription(_ context.Context, description string) (*entity.PaymentTerm, error) {
	if description == "" {
		return nil, nil
	}
	for _, t := range f.terms {
		if t.Description == description {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTerms) List(context.Context) ([]*entity.PaymentTerm, error) {
	return f.terms, nil
}

type fakeCharges struct {
	charges []*entity.ChargeAllowance
}

func (f *fakeCharges) Find(_ context.Context, candidate *entity.ChargeAllowance) (*entity.ChargeAllowance, error) {
	for _, c := range f.charges {
		if c.Matches(candidate) {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCharges) Create(_ context.Context, ca *entity.ChargeAllowance) error {
	f.charges = append(f.charges, ca)
	return nil
}

func (f *fakeCharges) ListByIDs(_ context.Context, ids []string) ([]*entity.ChargeAllowance, error) {
	var out []*entity.ChargeAllowance
	for _, id := range ids {
		for _, c := range f.charges {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

// fakeConnector conector en memoria. failUploads hace fallar la subida de los
// nombres indicados.
type fakeConnector struct {
	files       map[string][]byte
	uploads     map[string][]byte
	failUploads map[string]bool

	connects    int
	disconnects int
	cds         []string
	connected   bool
}

func newFakeConnector() *fakeConnector {
	return &fakeConnector{
		files:       make(map[string][]byte),
		uploads:     make(map[string][]byte),
		failUploads: make(map[string]bool),
	}
}

func (f *fakeConnector) Connect(context.Context) error {
	f.connects++
	f.connected = true
	return nil
}

func (f *fakeConnector) Cd(_ context.Context, dirPath string) error {
	f.cds = append(f.cds, dirPath)
	return nil
}

func (f *fakeConnector) List(context.Context) ([]string, error) {
	var names []string
	for name := range f.files {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeConnector) Download(_ context.Context, filename string) ([]byte, error) {
	data, ok := f.files[filename]
	if !ok {
		return nil, fmt.Errorf("archivo %q no existe", filename)
	}
	return data, nil
}

func (f *fakeConnector) Upload(_ context.Context, filename string, data []byte) error {
	if f.failUploads[filename] {
		return fmt.Errorf("subida de %q rechazada", filename)
	}
	f.uploads[filename] = data
	return nil
}

func (f *fakeConnector) Disconnect(context.Context) error {
	f.disconnects++
	f.connected = false
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Armado del servicio de prueba
// ─────────────────────────────────────────────────────────────────────────────

type fixture struct {
	svc *Service

	orders    *fakeOrders
	invoices  *fakeInvoices
	shipments *fakeShipments
	advices   *fakeAdvices
	partners  *fakePartners
	companies *fakeCompanies
	geo       *fakeGeo
	products  *fakeProducts
	uoms      *fakeUOMs
	pricelist *fakePricelist
	terms     *fakeTerms
	charges   *fakeCharges
	conn      *fakeConnector
}

func newFixture() *fixture {
	f := &fixture{
		orders:    newFakeOrders(),
		invoices:  newFakeInvoices(),
		shipments: newFakeShipments(),
		advices:   &fakeAdvices{},
		partners:  &fakePartners{},
		companies: &fakeCompanies{company: &entity.Company{
			ID:   "company-1",
			Name: "Distribuidora Norte",
			City: "Laredo",
		}},
		geo: &fakeGeo{
			countries: map[string]string{"US": "country-us"},
			states:    map[string]string{"country-us/TX": "state-tx"},
		},
		products:  newFakeProducts(),
		uoms:      &fakeUOMs{},
		pricelist: &fakePricelist{prices: make(map[string]decimal.Decimal)},
		terms:     &fakeTerms{},
		charges:   &fakeCharges{},
		conn:      newFakeConnector(),
	}

	cfg := config.EDIConfig{
		ImportOrdersDir:    "in/orders",
		ExportAcksDir:      "out/acks",
		ExportInvoicesDir:  "out/invoices",
		ExportShipmentsDir: "out/shipments",
		ImportAdvicesDir:   "in/advices",
		Timezone:           "UTC",
		GS1CompanyPrefix:   "0628820",
	}

	f.svc = New(
		f.orders, f.invoices, f.shipments, f.advices,
		f.partners, f.companies, f.geo,
		f.products, f.uoms, f.pricelist,
		f.terms, f.charges,
		rsx.NewCodec(), f.conn, cfg, logger.Nop(),
	)
	f.svc.now = func() time.Time {
		return time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	}
	return f
}
