package edisync

import (
	"context"
	"fmt"
	"strings"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/infrastructure/rsx"
	"github.com/tu-usuario/edi-pro/pkg/logger"
)

// exportFilename nombre del archivo remoto; los separadores del consecutivo
// interno no son válidos en nombres de archivo.
func exportFilename(docCode, name string) string {
	return fmt.Sprintf("%s.xml", docCode+"_"+strings.ReplaceAll(name, "/", "_"))
}

// exportAcks exporta como 855 las órdenes indicadas, o todas las confirmadas
// con estado pendiente si ids está vacío. Cada orden falla de forma aislada:
// queda en estado fail y la corrida continúa.
func (s *Service) exportAcks(ctx context.Context, ids []string) error {
	log := s.log.ForDoc("855")

	orders, err := s.ackCandidates(ctx, ids)
	if err != nil {
		return err
	}

	for _, order := range orders {
		filename := exportFilename("855_sale", order.Name)

		buildCtx, err := s.buildAckContext(ctx, order)
		if err == nil {
			var data []byte
			data, err = s.codec.EncodeAck(buildCtx)
			if err == nil {
				err = s.conn.Upload(ctx, filename, data)
			}
		}
		if err != nil {
			log.Error().Str("order", order.Name).Err(err).Msg("exportación falló")
			markFail(log, order.Name, func() error {
				return s.orders.UpdateEDIStatus(ctx, order.ID, entity.EDIStatusFail)
			})
			continue
		}

		if err := s.orders.UpdateEDIStatus(ctx, order.ID, entity.EDIStatusSent); err != nil {
			return fmt.Errorf("marcar orden %q como enviada: %w", order.Name, err)
		}
		log.Info().Str("order", order.Name).Str("file", filename).Msg("archivo creado en el servidor de intercambio")
	}
	return nil
}

// ackCandidates órdenes a exportar: las indicadas por ID, o las candidatas
// pendientes cuando no se indican.
func (s *Service) ackCandidates(ctx context.Context, ids []string) ([]*entity.Order, error) {
	if len(ids) == 0 {
		orders, err := s.orders.ListPendingAcks(ctx)
		if err != nil {
			return nil, fmt.Errorf("listar órdenes pendientes: %w", err)
		}
		return orders, nil
	}

	orders := make([]*entity.Order, 0, len(ids))
	for _, id := range ids {
		order, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("cargar orden %s: %w", id, err)
		}
		if order == nil {
			return nil, fmt.Errorf("orden %s no existe", id)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// buildAckContext arma el contexto de construcción del 855 de una orden.
func (s *Service) buildAckContext(ctx context.Context, order *entity.Order) (*rsx.AckBuildContext, error) {
	company, err := s.companies.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar compañía emisora: %w", err)
	}

	partner, err := s.partners.GetByID(ctx, order.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("cargar socio %s: %w", order.PartnerID, err)
	}
	if partner == nil {
		return nil, fmt.Errorf("socio %s de la orden no existe", order.PartnerID)
	}

	shipTo, err := s.partnerOrNil(ctx, order.ShippingPartnerID)
	if err != nil {
		return nil, fmt.Errorf("cargar dirección de envío: %w", err)
	}

	lines, err := s.orders.GetLines(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("cargar renglones de la orden: %w", err)
	}

	productIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		productIDs = append(productIDs, l.ProductID)
	}
	products, err := s.loadProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	return &rsx.AckBuildContext{
		Order:    order,
		Lines:    lines,
		Partner:  partner,
		ShipTo:   shipTo,
		Company:  company,
		Products: products,
		Now:      s.now(),
	}, nil
}

// markFail deja el registro en estado fail; si ni eso se puede, solo queda el
// log.
func markFail(log *logger.Logger, name string, update func() error) {
	if err := update(); err != nil {
		log.Error().Str("record", name).Err(err).Msg("no se pudo persistir el estado fail")
	}
}
