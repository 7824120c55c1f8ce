package edisync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/edi-pro/internal/domain"
	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/domain/pricing"
	"github.com/tu-usuario/edi-pro/internal/infrastructure/rsx"
	rsxcode "github.com/tu-usuario/edi-pro/pkg/rsx"
)

// fallbackUOMName unidad que se asigna cuando el código EDI del renglón no
// existe en el catálogo local.
const fallbackUOMName = "Units"

// importOrders descarga los 850 del directorio remoto y crea las órdenes de
// venta. Cada archivo y cada orden fallan de forma aislada: el error se
// registra y la corrida continúa.
func (s *Service) importOrders(ctx context.Context) error {
	log := s.log.ForDoc("850")

	files, err := s.conn.List(ctx)
	if err != nil {
		return fmt.Errorf("listar directorio remoto: %w", err)
	}
	if len(files) == 0 {
		log.Warn().Msg("directorio remoto vacío")
		return nil
	}

	for _, file := range files {
		if !strings.HasSuffix(file, ".xml") {
			continue
		}

		data, err := s.conn.Download(ctx, file)
		if err != nil {
			log.Error().Str("file", file).Err(err).Msg("descarga falló")
			continue
		}

		docs, err := s.codec.DecodeOrders(data)
		if errors.Is(err, rsx.ErrWrongDocument) {
			// El directorio puede mezclar otros documentos (945).
			log.Debug().Str("file", file).Msg("no es un 850, saltando")
			continue
		}
		if err != nil {
			log.Error().Str("file", file).Err(err).Msg("archivo ilegible")
			continue
		}

		for _, doc := range docs {
			if err := s.importOrder(ctx, doc, file); err != nil {
				log.Error().Str("file", file).Str("po", doc.PONumber).Err(err).Msg("importación de orden falló")
			}
		}
	}
	return nil
}

// isNewOrder false cuando el documento dice ser una orden nueva y ya existe
// una con el mismo PO en la base.
func (s *Service) isNewOrder(ctx context.Context, doc *rsx.OrderDocument) (bool, error) {
	claimsNew := doc.TsetPurposeCode == rsxcode.TsetPurposeOriginal ||
		doc.PrimaryPOTypeCode == rsxcode.POTypeStandAlone ||
		doc.PrimaryPOTypeCode == rsxcode.POTypeNewOrder
	if !claimsNew {
		return true, nil
	}
	existing, err := s.orders.GetByPONumber(ctx, doc.PONumber)
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}

// importOrder crea la orden de venta (cabecera y renglones) de un documento
// decodificado. Devuelve nil cuando la orden se descarta por duplicada o por
// socio desconocido.
func (s *Service) importOrder(ctx context.Context, doc *rsx.OrderDocument, sourceFile string) error {
	log := s.log.ForDoc("850")

	ok, err := s.isNewOrder(ctx, doc)
	if err != nil {
		return fmt.Errorf("verificar duplicados del PO %q: %w", doc.PONumber, err)
	}
	if !ok {
		log.Warn().Str("po", doc.PONumber).Msg("orden ya creada con este PO, saltando")
		return nil
	}

	parties, err := s.resolveParties(ctx, doc)
	if errors.Is(err, domain.ErrPartnerNotFound) {
		log.Warn().Str("trading_partner", doc.TradingPartnerID).Msg("trading partner desconocido, saltando")
		return nil
	}
	if err != nil {
		return err
	}

	// Un PO ya registrado sin origen propio convierte a esta orden en el
	// backorder de aquella.
	backorderOrigin, err := s.orders.FindBackorderOrigin(ctx, doc.PONumber)
	if err != nil {
		return fmt.Errorf("buscar orden original del backorder: %w", err)
	}

	orderDate, err := s.parseLocalDate(doc.PODate, "")
	if err != nil {
		return fmt.Errorf("fecha de orden %q: %w", doc.PODate, err)
	}

	var term *entity.PaymentTerm
	termsBlob := ""
	if doc.PaymentTerms != nil {
		termsBlob = rsx.FormatPaymentTerms(doc.PaymentTerms, doc.FOB)
		term, err = s.resolvePaymentTerm(ctx, doc.PaymentTerms)
		if err != nil {
			return err
		}
	}

	var chargeIDs []string
	for _, block := range doc.ChargesAllowances {
		charge, err := s.findOrCreateCharge(ctx, block)
		if err != nil {
			return err
		}
		chargeIDs = append(chargeIDs, charge.ID)
	}

	order := &entity.Order{
		ID:                uuid.New().String(),
		PartnerID:         parties.Main.ID,
		ShippingPartnerID: parties.ShipTo.ID,
		InvoicePartnerID:  parties.BillTo.ID,

		PONumber:          doc.PONumber,
		TsetPurposeCode:   whitelist(doc.TsetPurposeCode, rsxcode.ValidTsetPurposeCodes, rsxcode.TsetPurposeUnavailable),
		PrimaryPOTypeCode: whitelist(doc.PrimaryPOTypeCode, rsxcode.ValidPrimaryPOTypeCodes, rsxcode.POTypeUnavailable),
		Vendor:            doc.Vendor,
		Department:        doc.Department,
		OrderDate:         orderDate,

		DateTimeQualifier: doc.DateTimeQualifier,

		CarrierTransMethodCode: doc.CarrierTransMethodCode,
		CarrierRouting:         doc.CarrierRouting,

		ReferenceQual:        whitelist(doc.ReferenceQual, rsxcode.ValidReferenceQuals, rsxcode.ReferenceQualUnavailable),
		ReferenceID:          doc.ReferenceID,
		ReferenceDescription: doc.ReferenceDescription,
		NoteCode:             whitelist(doc.NoteCode, rsxcode.ValidNoteCodes, rsxcode.NoteCodeGeneral),
		Note:                 doc.Note,

		CustomerPaymentTerms: termsBlob,
		AllContacts:          parties.ContactsBlob,
		Addresses:            parties.AddressesBlob,
		ChargeAllowanceIDs:   chargeIDs,

		TotalAmount: parseDecimal(doc.TotalAmount),

		EDIStatus: entity.EDIStatusDraft,
	}
	if backorderOrigin != nil {
		order.BackorderOriginID = backorderOrigin.ID
	}
	if term != nil {
		order.PaymentTermID = term.ID
	}

	// La fecha del bloque Dates se persiste en el campo que corresponde al
	// calificador; el decodificador ya dejó solo el último bloque.
	if doc.Date != "" {
		specific, err := s.parseLocalDate(doc.Date, doc.Time)
		if err != nil {
			return fmt.Errorf("fecha solicitada %q: %w", doc.Date, err)
		}
		switch doc.DateTimeQualifier {
		case rsxcode.DateQualDelivery:
			order.CommitmentDate = &specific
		case rsxcode.DateQualPickup:
			order.RequestedPickupDate = &specific
		default:
			order.AdditionalDate = &specific
		}
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return fmt.Errorf("crear orden PO %q: %w", doc.PONumber, err)
	}

	lineCount := 0
	for _, line := range doc.Lines {
		if err := s.importLine(ctx, order, parties.Main, line); err != nil {
			return fmt.Errorf("renglón %q: %w", line.LineSequenceNumber, err)
		}
		lineCount++
	}
	if err := s.orders.UpdateLineCount(ctx, order.ID, lineCount); err != nil {
		return fmt.Errorf("actualizar conteo de renglones: %w", err)
	}

	log.Info().Str("po", doc.PONumber).Str("file", sourceFile).Int("lines", lineCount).Msg("orden creada desde el documento")
	return nil
}

// resolveUOM busca la unidad por código EDI; cuando no existe asigna la
// unidad de respaldo y deja una nota en la orden, salvo para los códigos bien
// conocidos que simplemente aún no están mapeados.
func (s *Service) resolveUOM(ctx context.Context, orderID, uomEDI string) (*entity.UOM, error) {
	uom, err := s.uoms.GetByEDICode(ctx, uomEDI)
	if err != nil {
		return nil, fmt.Errorf("buscar UoM %q: %w", uomEDI, err)
	}
	if uom != nil {
		return uom, nil
	}

	if !rsxcode.WellKnownUOMCodes[uomEDI] {
		note := fmt.Sprintf("UoM of %s not found. Units automatically assigned.", uomEDI)
		if err := s.createNoteLine(ctx, orderID, note); err != nil {
			return nil, err
		}
	}

	uom, err = s.uoms.GetByName(ctx, fallbackUOMName)
	if err != nil {
		return nil, fmt.Errorf("buscar UoM de respaldo: %w", err)
	}
	if uom == nil {
		return nil, fmt.Errorf("asignar UoM: no existe la unidad %q: %w", fallbackUOMName, domain.ErrUOMNotFound)
	}
	return uom, nil
}

// findProductByBarcode busca el producto con tolerancia a prefijos y sufijos:
// exacto, sin el primer carácter (variantes) y sin el primero y el último
// (UPC de caja).
func (s *Service) findProductByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	candidates := []string{barcode}
	if len(barcode) > 1 {
		candidates = append(candidates, barcode[1:])
	}
	if len(barcode) > 2 {
		candidates = append(candidates, barcode[1:len(barcode)-1])
	}
	for _, candidate := range candidates {
		p, err := s.products.GetByBarcode(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("buscar producto por barcode %q: %w", candidate, err)
		}
		if p != nil {
			return p, nil
		}
	}
	return nil, nil
}

// importLine crea un renglón de la orden. Los problemas de catálogo (producto
// o unidad desconocidos, discrepancia de precio) no detienen la importación:
// quedan como líneas de nota.
func (s *Service) importLine(ctx context.Context, order *entity.Order, partner *entity.Partner, line rsx.OrderLineItem) error {
	log := s.log.ForDoc("850")

	uomEDI := line.OrderQtyUOM
	if uomEDI == "" {
		uomEDI = rsxcode.UOMEach
	}
	uom, err := s.resolveUOM(ctx, order.ID, uomEDI)
	if err != nil {
		return err
	}

	product, err := s.findProductByBarcode(ctx, line.ConsumerPackageCode)
	if err != nil {
		return err
	}
	if product == nil {
		log.Info().Str("barcode", line.ConsumerPackageCode).Msg("producto no encontrado en el documento")
		note := fmt.Sprintf(
			"PRODUCT NOT FOUND - UPC/barcode: %s, EAN: %s, GTIN: %s Price: %s, UoM: %s, Quantity: %s, LineSequence#: %s",
			line.ConsumerPackageCode, line.EAN, line.GTIN, line.PurchasePrice, uomEDI,
			line.OrderQty, line.LineSequenceNumber,
		)
		return s.orders.CreateLine(ctx, &entity.OrderLine{
			ID:                 uuid.New().String(),
			OrderID:            order.ID,
			Name:               note,
			IsNote:             true,
			LineSequenceNumber: line.LineSequenceNumber,
			Qty:                parseDecimal(line.OrderQty),
			UOMCode:            uomEDI,
			EDIPrice:           parseDecimal(line.PurchasePrice),
		})
	}

	// Identificadores aprendidos del documento.
	if err := s.products.UpdateIdentifiers(ctx, product.ID, line.GTIN, line.EAN); err != nil {
		return fmt.Errorf("actualizar identificadores del producto %q: %w", product.ID, err)
	}

	chargesBlob := ""
	if line.ChargesAllowances != nil {
		chargesBlob = fmt.Sprintf("%s\n%s\n%s\n\n",
			line.ChargesAllowances.Indicator,
			line.ChargesAllowances.Code,
			line.ChargesAllowances.ReferenceIdentification,
		)
	}

	qty := parseDecimal(line.OrderQty)
	pack := product.CurrentPackage()
	packQty := decimal.Zero
	packageID := ""
	orderInCases := false
	if uomEDI == rsxcode.UOMCase && pack != nil && pack.Qty.IsPositive() {
		packQty = pack.Qty
		packageID = pack.ID
		orderInCases = true
		qty = qty.Mul(packQty)
	}

	ediPrice := parseDecimal(line.PurchasePrice)
	listPrice, err := s.pricelists.GrossSellingPrice(ctx, partner.ID, product.ID, packageID)
	if err != nil {
		return fmt.Errorf("precio de lista del producto %q: %w", product.ID, err)
	}

	if !listPrice.Equal(ediPrice) {
		packName := "None"
		if pack != nil {
			packName = pack.Name
		}
		note := fmt.Sprintf(
			"WARNING: Price mismatch between catalog and EDI - Product: %s, Package: %s, EDI Price: %s, Selling Price: %s",
			product.Name, packName, ediPrice.String(), listPrice.String(),
		)
		if err := s.createNoteLine(ctx, order.ID, note); err != nil {
			return err
		}
	}

	// Cuando el socio ordena en cajas pero transmite precio unitario, el
	// precio EDI se lleva a precio por caja antes de compararlo.
	if orderInCases && !partner.PriceInCases {
		ediPrice = ediPrice.Mul(packQty)
	}

	unitPrice, casePrice := pricing.ResolvePrices(listPrice, packQty, orderInCases, partner.PriceInCases)

	lineTermsBlob := ""
	if line.PaymentTerms != nil {
		lineTermsBlob = rsx.FormatPaymentTerms(line.PaymentTerms, nil)
	}

	taxCode, taxPercent, taxID := rsxcode.TaxCodeAll, "0", "0"
	if line.HasTaxes {
		taxCode, taxPercent, taxID = line.TaxTypeCode, line.TaxPercent, line.TaxID
	}

	status := rsxcode.ItemStatusAccept
	if !casePrice.Equal(ediPrice) {
		status = rsxcode.ItemStatusPriceChanged
	}
	if order.BackorderOriginID != "" {
		status = rsxcode.ItemStatusBackordered
	}

	name := line.Description
	if name == "" {
		name = product.Name
	}
	packSize := parseDecimal(line.PackValue)
	if packSize.IsZero() {
		packSize = decimal.NewFromInt(1)
	}

	return s.orders.CreateLine(ctx, &entity.OrderLine{
		ID:      uuid.New().String(),
		OrderID: order.ID,

		ProductID: product.ID,
		Name:      name,

		LineSequenceNumber:  line.LineSequenceNumber,
		BuyerPartNumber:     line.BuyerPartNumber,
		VendorPartNumber:    line.VendorPartNumber,
		PartNumber:          line.PartNumber,
		ConsumerPackageCode: line.ConsumerPackageCode,

		Qty:       qty,
		UOMID:     uom.ID,
		UOMCode:   uomEDI,
		PackageID: packageID,
		PackQty:   packQty,
		PackSize:  packSize,

		UnitPrice: unitPrice,
		CasePrice: casePrice,
		EDIPrice:  ediPrice,

		ChargesAllowances: chargesBlob,
		PaymentTerms:      lineTermsBlob,

		TaxCode:    taxCode,
		TaxPercent: taxPercent,
		TaxID:      taxID,

		ItemStatusCode: status,
	})
}

// createNoteLine agrega una línea informativa a la orden.
func (s *Service) createNoteLine(ctx context.Context, orderID, text string) error {
	err := s.orders.CreateLine(ctx, &entity.OrderLine{
		ID:      uuid.New().String(),
		OrderID: orderID,
		Name:    text,
		IsNote:  true,
	})
	if err != nil {
		return fmt.Errorf("crear línea de nota: %w", err)
	}
	return nil
}

// findOrCreateCharge busca en el catálogo un cargo idéntico campo a campo y
// lo crea si no existe. El catálogo nunca se actualiza en sitio.
func (s *Service) findOrCreateCharge(ctx context.Context, block rsx.ChargeAllowanceBlock) (*entity.ChargeAllowance, error) {
	candidate := &entity.ChargeAllowance{
		Indicator:        block.Indicator,
		Code:             block.Code,
		Amount:           block.Amount,
		PercentQualifier: block.PercentQualifier,
		Percent:          block.Percent,
		HandlingCode:     block.HandlingCode,
	}

	existing, err := s.charges.Find(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("buscar cargo/descuento: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	candidate.ID = uuid.New().String()
	if err := s.charges.Create(ctx, candidate); err != nil {
		return nil, fmt.Errorf("crear cargo/descuento: %w", err)
	}
	return candidate, nil
}

// whitelist devuelve el código si está en el catálogo de códigos válidos, o
// el marcador de no disponible en caso contrario. Los códigos vacíos quedan
// vacíos.
func whitelist(code string, valid map[string]bool, unavailable string) string {
	if code == "" {
		return ""
	}
	if !valid[code] {
		return unavailable
	}
	return code
}

// parseLocalDate interpreta una fecha (y hora opcional) en la zona horaria
// del socio y la devuelve en UTC.
func (s *Service) parseLocalDate(date, hour string) (time.Time, error) {
	if hour != "" {
		t, err := time.ParseInLocation(rsxcode.DateFormat+" "+rsxcode.TimeFormat, date+" "+hour, s.loc)
		if err != nil {
			return time.Time{}, err
		}
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(rsxcode.DateFormat, date, s.loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseDecimal convierte texto del documento a decimal; vacío o ilegible vale
// cero.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
