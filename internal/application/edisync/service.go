// Package edisync orquesta el intercambio EDI con SPS Commerce en formato RSX:
// importa órdenes 850 y avisos 945, y exporta reconocimientos 855, facturas
// 810 y despachos 856. Cada corrida abre una sola conexión al servidor de
// intercambio y aísla los fallos por registro: un documento que falla queda en
// estado fail y la corrida continúa con el siguiente.
package edisync

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/domain/repository"
	"github.com/tu-usuario/edi-pro/internal/infrastructure/rsx"
	"github.com/tu-usuario/edi-pro/pkg/config"
	"github.com/tu-usuario/edi-pro/pkg/logger"
)

// Service sincronizador EDI. Orquesta repositorios, códec RSX y conector.
type Service struct {
	orders       repository.OrderRepository
	invoices     repository.InvoiceRepository
	shipments    repository.ShipmentRepository
	advices      repository.AdviceRepository
	partners     repository.PartnerRepository
	companies    repository.CompanyRepository
	geo          repository.GeoRepository
	products     repository.ProductRepository
	uoms         repository.UOMRepository
	pricelists   repository.PricelistRepository
	paymentTerms repository.PaymentTermRepository
	charges      repository.ChargeAllowanceRepository

	codec *rsx.Codec
	conn  Connector
	cfg   config.EDIConfig
	log   *logger.Logger

	loc *time.Location
	now func() time.Time
}

// New construye el sincronizador con todas sus dependencias. La zona horaria
// del socio se resuelve desde cfg.Timezone; con valor inválido se usa UTC.
func New(
	orders repository.OrderRepository,
	invoices repository.InvoiceRepository,
	shipments repository.ShipmentRepository,
	advices repository.AdviceRepository,
	partners repository.PartnerRepository,
	companies repository.CompanyRepository,
	geo repository.GeoRepository,
	products repository.ProductRepository,
	uoms repository.UOMRepository,
	pricelists repository.PricelistRepository,
	paymentTerms repository.PaymentTermRepository,
	charges repository.ChargeAllowanceRepository,
	codec *rsx.Codec,
	conn Connector,
	cfg config.EDIConfig,
	log *logger.Logger,
) *Service {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn().Str("timezone", cfg.Timezone).Err(err).Msg("zona horaria inválida, usando UTC")
		loc = time.UTC
	}
	return &Service{
		orders:       orders,
		invoices:     invoices,
		shipments:    shipments,
		advices:      advices,
		partners:     partners,
		companies:    companies,
		geo:          geo,
		products:     products,
		uoms:         uoms,
		pricelists:   pricelists,
		paymentTerms: paymentTerms,
		charges:      charges,
		codec:        codec,
		conn:         conn,
		cfg:          cfg,
		log:          log,
		loc:          loc,
		now:          time.Now,
	}
}

// Actions devuelve las cinco acciones de sincronización con sus directorios
// remotos configurados, en el orden en que Run las ejecuta.
func (s *Service) Actions() []SyncAction {
	return []SyncAction{
		{DocCode: DocImportOrders, DirPath: s.cfg.ImportOrdersDir},
		{DocCode: DocExportAcks, DirPath: s.cfg.ExportAcksDir},
		{DocCode: DocExportInvoices, DirPath: s.cfg.ExportInvoicesDir},
		{DocCode: DocExportShipments, DirPath: s.cfg.ExportShipmentsDir},
		{DocCode: DocImportAdvices, DirPath: s.cfg.ImportAdvicesDir},
	}
}

// Run ejecuta una acción de sincronización completa sobre una conexión nueva.
func (s *Service) Run(ctx context.Context, action SyncAction) error {
	return s.withConn(ctx, action.DirPath, func(ctx context.Context) error {
		switch action.DocCode {
		case DocImportOrders:
			return s.importOrders(ctx)
		case DocExportAcks:
			return s.exportAcks(ctx, nil)
		case DocExportInvoices:
			return s.exportInvoices(ctx, nil)
		case DocExportShipments:
			return s.exportShipments(ctx, nil)
		case DocImportAdvices:
			return s.importAdvices(ctx)
		default:
			return fmt.Errorf("edisync: acción desconocida %q", action.DocCode)
		}
	})
}

// RunAll ejecuta las cinco acciones en orden. Los errores no se acumulan: una
// acción que falla se registra y la siguiente se ejecuta de todos modos.
func (s *Service) RunAll(ctx context.Context) {
	for _, action := range s.Actions() {
		if err := s.Run(ctx, action); err != nil {
			s.log.Error().Str("doc", action.DocCode).Err(err).Msg("acción de sincronización falló")
		}
	}
}

// ExportAcks exporta como 855 las órdenes indicadas, o todas las candidatas
// pendientes si ids está vacío. Con ids explícitos la validación es previa y
// bloqueante: si alguna orden no es exportable no se sube nada.
func (s *Service) ExportAcks(ctx context.Context, ids []string) error {
	return s.withConn(ctx, s.cfg.ExportAcksDir, func(ctx context.Context) error {
		return s.exportAcks(ctx, ids)
	})
}

// ExportInvoices exporta como 810 las facturas indicadas, o todas las
// candidatas pendientes si ids está vacío.
func (s *Service) ExportInvoices(ctx context.Context, ids []string) error {
	return s.withConn(ctx, s.cfg.ExportInvoicesDir, func(ctx context.Context) error {
		return s.exportInvoices(ctx, ids)
	})
}

// ExportShipments exporta como 856 los despachos indicados, o todos los
// candidatos pendientes si ids está vacío.
func (s *Service) ExportShipments(ctx context.Context, ids []string) error {
	return s.withConn(ctx, s.cfg.ExportShipmentsDir, func(ctx context.Context) error {
		return s.exportShipments(ctx, ids)
	})
}

// Requeue devuelve a estado pendiente los documentos indicados que quedaron en
// fail, para que la próxima corrida de exportación los reintente. Solo aplica
// a los documentos salientes; un documento que no está en fail detiene la
// operación sin tocar el resto.
func (s *Service) Requeue(ctx context.Context, docCode string, ids []string) error {
	for _, id := range ids {
		var (
			status string
			update func() error
		)
		switch docCode {
		case DocExportAcks:
			order, err := s.orders.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("cargar orden %s: %w", id, err)
			}
			if order == nil {
				return fmt.Errorf("orden %s no existe", id)
			}
			status = order.EDIStatus
			update = func() error { return s.orders.UpdateEDIStatus(ctx, id, entity.EDIStatusPending) }
		case DocExportInvoices:
			invoice, err := s.invoices.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("cargar factura %s: %w", id, err)
			}
			if invoice == nil {
				return fmt.Errorf("factura %s no existe", id)
			}
			status = invoice.EDIStatus
			update = func() error { return s.invoices.UpdateEDIStatus(ctx, id, entity.EDIStatusPending) }
		case DocExportShipments:
			shipment, err := s.shipments.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("cargar despacho %s: %w", id, err)
			}
			if shipment == nil {
				return fmt.Errorf("despacho %s no existe", id)
			}
			status = shipment.EDIStatus
			update = func() error { return s.shipments.UpdateEDIStatus(ctx, id, entity.EDIStatusPending) }
		default:
			return fmt.Errorf("edisync: el documento %q no se reencola", docCode)
		}

		if status != entity.EDIStatusFail {
			return fmt.Errorf("edisync: el documento %s está en %s y solo fail se reencola", id, status)
		}
		if err := update(); err != nil {
			return fmt.Errorf("reencolar documento %s: %w", id, err)
		}
		s.log.Info().Str("doc", docCode).Str("id", id).Msg("documento reencolado para exportación")
	}
	return nil
}

// withConn abre la conexión, cambia al directorio remoto y ejecuta fn. La
// desconexión ocurre exactamente una vez, también cuando fn falla.
func (s *Service) withConn(ctx context.Context, dirPath string, fn func(ctx context.Context) error) error {
	if err := s.conn.Connect(ctx); err != nil {
		return fmt.Errorf("conectar al servidor de intercambio: %w", err)
	}
	defer func() {
		if err := s.conn.Disconnect(ctx); err != nil {
			s.log.Warn().Err(err).Msg("desconexión del servidor de intercambio falló")
		}
	}()

	if err := s.conn.Cd(ctx, dirPath); err != nil {
		return fmt.Errorf("cambiar al directorio %q: %w", dirPath, err)
	}
	return fn(ctx)
}

// loadProducts carga una sola vez los productos referenciados por los
// renglones. Los IDs vacíos (líneas de nota) se ignoran.
func (s *Service) loadProducts(ctx context.Context, productIDs []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product)
	for _, id := range productIDs {
		if id == "" {
			continue
		}
		if _, ok := out[id]; ok {
			continue
		}
		p, err := s.products.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("cargar producto %s: %w", id, err)
		}
		if p != nil {
			out[id] = p
		}
	}
	return out, nil
}

// partnerOrNil busca un socio por ID tolerando el ID vacío.
func (s *Service) partnerOrNil(ctx context.Context, id string) (*entity.Partner, error) {
	if id == "" {
		return nil, nil
	}
	return s.partners.GetByID(ctx, id)
}
