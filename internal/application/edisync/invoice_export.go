package edisync

import (
	"context"
	"fmt"

	"github.com/tu-usuario/edi-pro/internal/domain"
	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/infrastructure/rsx"
)

// validateInvoice campos obligatorios para poder emitir el 810.
func validateInvoice(inv *entity.Invoice) error {
	if inv.MerchTypeCode == "" {
		return fmt.Errorf("factura %s: Merchandise Type Code es obligatorio para EDI: %w", inv.Name, domain.ErrValidation)
	}
	return nil
}

// exportInvoices exporta como 810 las facturas indicadas, o todas las
// contabilizadas con estado pendiente si ids está vacío. Con ids explícitos
// la validación es previa y bloqueante; en modo lote las facturas inválidas
// se saltan sin tocar su estado.
func (s *Service) exportInvoices(ctx context.Context, ids []string) error {
	log := s.log.ForDoc("810")

	explicit := len(ids) > 0
	invoices, err := s.invoiceCandidates(ctx, ids)
	if err != nil {
		return err
	}

	if explicit {
		for _, inv := range invoices {
			if err := validateInvoice(inv); err != nil {
				return err
			}
		}
	}

	for _, inv := range invoices {
		if !explicit {
			if err := validateInvoice(inv); err != nil {
				log.Warn().Str("invoice", inv.Name).Err(err).Msg("factura no exportable, saltando")
				continue
			}
		}

		name := inv.Reference
		if name == "" {
			name = inv.Name
		}
		filename := exportFilename("810_invoice", name)

		buildCtx, err := s.buildInvoiceContext(ctx, inv)
		if err == nil {
			var data []byte
			data, err = s.codec.EncodeInvoice(buildCtx)
			if err == nil {
				err = s.conn.Upload(ctx, filename, data)
			}
		}
		if err != nil {
			log.Error().Str("invoice", inv.Name).Err(err).Msg("exportación falló")
			markFail(log, inv.Name, func() error {
				return s.invoices.UpdateEDIStatus(ctx, inv.ID, entity.EDIStatusFail)
			})
			continue
		}

		if err := s.invoices.UpdateEDIStatus(ctx, inv.ID, entity.EDIStatusSent); err != nil {
			return fmt.Errorf("marcar factura %q como enviada: %w", inv.Name, err)
		}
		log.Info().Str("invoice", inv.Name).Str("file", filename).Msg("archivo creado en el servidor de intercambio")
	}
	return nil
}

func (s *Service) invoiceCandidates(ctx context.Context, ids []string) ([]*entity.Invoice, error) {
	if len(ids) == 0 {
		invoices, err := s.invoices.ListPendingExport(ctx)
		if err != nil {
			return nil, fmt.Errorf("listar facturas pendientes: %w", err)
		}
		return invoices, nil
	}

	invoices := make([]*entity.Invoice, 0, len(ids))
	for _, id := range ids {
		inv, err := s.invoices.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("cargar factura %s: %w", id, err)
		}
		if inv == nil {
			return nil, fmt.Errorf("factura %s no existe", id)
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

// buildInvoiceContext arma el contexto de construcción del 810 de una
// factura. La orden de origen aporta las direcciones BT/ST y los cargos de
// cabecera; una factura manual se emite sin ellos.
func (s *Service) buildInvoiceContext(ctx context.Context, inv *entity.Invoice) (*rsx.InvoiceBuildContext, error) {
	company, err := s.companies.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar compañía emisora: %w", err)
	}

	partner, err := s.partners.GetByID(ctx, inv.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("cargar socio %s: %w", inv.PartnerID, err)
	}
	if partner == nil {
		return nil, fmt.Errorf("socio %s de la factura no existe", inv.PartnerID)
	}

	var source *entity.Order
	var billTo, shipTo *entity.Partner
	var charges []*entity.ChargeAllowance
	if inv.SourceOrderID != "" {
		source, err = s.orders.GetByID(ctx, inv.SourceOrderID)
		if err != nil {
			return nil, fmt.Errorf("cargar orden de origen %s: %w", inv.SourceOrderID, err)
		}
	}
	if source != nil {
		billTo, err = s.partnerOrNil(ctx, source.InvoicePartnerID)
		if err != nil {
			return nil, fmt.Errorf("cargar dirección de facturación: %w", err)
		}
		shipTo, err = s.partnerOrNil(ctx, source.ShippingPartnerID)
		if err != nil {
			return nil, fmt.Errorf("cargar dirección de envío: %w", err)
		}
		if len(source.ChargeAllowanceIDs) > 0 {
			charges, err = s.charges.ListByIDs(ctx, source.ChargeAllowanceIDs)
			if err != nil {
				return nil, fmt.Errorf("cargar cargos de cabecera: %w", err)
			}
		}
	}

	lines, err := s.invoices.GetLines(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("cargar renglones de la factura: %w", err)
	}

	productIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		productIDs = append(productIDs, l.ProductID)
	}
	products, err := s.loadProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	return &rsx.InvoiceBuildContext{
		Invoice:     inv,
		Lines:       lines,
		Partner:     partner,
		SourceOrder: source,
		BillTo:      billTo,
		ShipTo:      shipTo,
		Company:     company,
		Charges:     charges,
		Products:    products,
		Now:         s.now(),
	}, nil
}
