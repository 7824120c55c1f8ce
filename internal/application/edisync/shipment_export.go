package edisync

import (
	"context"
	"fmt"

	"github.com/tu-usuario/edi-pro/internal/domain"
	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/infrastructure/rsx"
)

// validateShipment campos obligatorios para poder emitir el ASN. El SCAC del
// transportista tiene siempre cuatro caracteres y cada renglón necesita su
// pallet de destino y su unidad EDI.
func validateShipment(sh *entity.Shipment, lines []*entity.ShipmentLine) error {
	if sh.BillOfLadingNumber == "" || sh.CarrierTransMethodCode == "" || sh.CarrierAlphaCode == "" {
		return fmt.Errorf("despacho %s: Bill Of Lading Number, Carrier Trans Method y Carrier Alpha Code son obligatorios: %w",
			sh.Name, domain.ErrValidation)
	}
	if len(sh.CarrierAlphaCode) != 4 {
		return fmt.Errorf("despacho %s: Carrier Alpha Code debe tener 4 caracteres: %w", sh.Name, domain.ErrValidation)
	}
	for _, line := range lines {
		if line.PalletName == "" {
			return fmt.Errorf("despacho %s: todos los renglones necesitan un paquete de destino: %w", sh.Name, domain.ErrValidation)
		}
		if line.UOMCode == "" {
			return fmt.Errorf("despacho %s: todos los renglones necesitan una UoM EDI: %w", sh.Name, domain.ErrValidation)
		}
	}
	return nil
}

// exportShipments exporta como 856 los despachos indicados, o todos los
// finalizados con estado pendiente si ids está vacío. Con ids explícitos la
// validación es previa y bloqueante; en modo lote los despachos inválidos se
// saltan sin tocar su estado.
func (s *Service) exportShipments(ctx context.Context, ids []string) error {
	log := s.log.ForDoc("856")

	explicit := len(ids) > 0
	shipments, err := s.shipmentCandidates(ctx, ids)
	if err != nil {
		return err
	}

	// Los renglones se necesitan tanto para validar como para construir.
	lineSets := make(map[string][]*entity.ShipmentLine, len(shipments))
	for _, sh := range shipments {
		lines, err := s.shipments.GetLines(ctx, sh.ID)
		if err != nil {
			return fmt.Errorf("cargar renglones del despacho %s: %w", sh.Name, err)
		}
		lineSets[sh.ID] = lines
	}

	if explicit {
		for _, sh := range shipments {
			if err := validateShipment(sh, lineSets[sh.ID]); err != nil {
				return err
			}
		}
	}

	for _, sh := range shipments {
		if !explicit {
			if err := validateShipment(sh, lineSets[sh.ID]); err != nil {
				log.Warn().Str("shipment", sh.Name).Err(err).Msg("despacho no exportable, saltando")
				continue
			}
		}

		filename := exportFilename("856_shipment", sh.Name)

		buildCtx, err := s.buildShipmentContext(ctx, sh, lineSets[sh.ID])
		if err == nil {
			var data []byte
			data, err = s.codec.EncodeShipment(buildCtx)
			if err == nil {
				err = s.conn.Upload(ctx, filename, data)
			}
		}
		if err != nil {
			log.Error().Str("shipment", sh.Name).Err(err).Msg("exportación falló")
			markFail(log, sh.Name, func() error {
				return s.shipments.UpdateEDIStatus(ctx, sh.ID, entity.EDIStatusFail)
			})
			continue
		}

		if err := s.shipments.UpdateEDIStatus(ctx, sh.ID, entity.EDIStatusSent); err != nil {
			return fmt.Errorf("marcar despacho %q como enviado: %w", sh.Name, err)
		}
		log.Info().Str("shipment", sh.Name).Str("file", filename).Msg("archivo creado en el servidor de intercambio")
	}
	return nil
}

func (s *Service) shipmentCandidates(ctx context.Context, ids []string) ([]*entity.Shipment, error) {
	if len(ids) == 0 {
		shipments, err := s.shipments.ListPendingExport(ctx)
		if err != nil {
			return nil, fmt.Errorf("listar despachos pendientes: %w", err)
		}
		return shipments, nil
	}

	shipments := make([]*entity.Shipment, 0, len(ids))
	for _, id := range ids {
		sh, err := s.shipments.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("cargar despacho %s: %w", id, err)
		}
		if sh == nil {
			return nil, fmt.Errorf("despacho %s no existe", id)
		}
		shipments = append(shipments, sh)
	}
	return shipments, nil
}

// buildShipmentContext arma el contexto de construcción del 856. La dirección
// ST sale de la orden de origen; sin ella el destino es la cuenta del socio.
func (s *Service) buildShipmentContext(ctx context.Context, sh *entity.Shipment, lines []*entity.ShipmentLine) (*rsx.ShipmentBuildContext, error) {
	company, err := s.companies.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar compañía emisora: %w", err)
	}

	partner, err := s.partners.GetByID(ctx, sh.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("cargar socio %s: %w", sh.PartnerID, err)
	}
	if partner == nil {
		return nil, fmt.Errorf("socio %s del despacho no existe", sh.PartnerID)
	}

	var source *entity.Order
	if sh.SourceOrderID != "" {
		source, err = s.orders.GetByID(ctx, sh.SourceOrderID)
		if err != nil {
			return nil, fmt.Errorf("cargar orden de origen %s: %w", sh.SourceOrderID, err)
		}
	}

	shipTo := partner
	if source != nil && source.ShippingPartnerID != "" {
		resolved, err := s.partnerOrNil(ctx, source.ShippingPartnerID)
		if err != nil {
			return nil, fmt.Errorf("cargar dirección de envío: %w", err)
		}
		if resolved != nil {
			shipTo = resolved
		}
	}

	productIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		productIDs = append(productIDs, l.ProductID)
	}
	products, err := s.loadProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	return &rsx.ShipmentBuildContext{
		Shipment:      sh,
		Lines:         lines,
		Partner:       partner,
		ShipTo:        shipTo,
		SourceOrder:   source,
		Company:       company,
		Products:      products,
		CompanyPrefix: s.cfg.GS1CompanyPrefix,
		Location:      s.loc,
		Now:           s.now(),
	}, nil
}
