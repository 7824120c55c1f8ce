package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo implementación de ShipmentRepository (usable con pool o tx).
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

const shipmentColumns = `
	id, name, partner_id, source_order_id, origin,
	scheduled_date, effective_date, create_date,
	asn_structure_code, carrier_trans_method_code, carrier_alpha_code, carrier_routing,
	bill_of_lading_number, weight, weight_uom, contact_name, contact_phone, all_contacts,
	package_count, done, edi_status, edi_date, created_at, updated_at`

func scanShipment(row pgx.Row) (*entity.Shipment, error) {
	var s entity.Shipment
	var sourceOrderID *string
	err := row.Scan(
		&s.ID, &s.Name, &s.PartnerID, &sourceOrderID, &s.Origin,
		&s.ScheduledDate, &s.EffectiveDate, &s.CreateDate,
		&s.ASNStructureCode, &s.CarrierTransMethodCode, &s.CarrierAlphaCode, &s.CarrierRouting,
		&s.BillOfLadingNumber, &s.Weight, &s.WeightUOM, &s.ContactName, &s.ContactPhone, &s.AllContacts,
		&s.PackageCount, &s.Done, &s.EDIStatus, &s.EDIDate, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sourceOrderID != nil {
		s.SourceOrderID = *sourceOrderID
	}
	return &s, nil
}

// GetByID obtiene un despacho por ID.
func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM edi_shipments WHERE id = $1`
	s, err := scanShipment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return s, nil
}

// GetLines lista los renglones del despacho agrupables por pallet.
func (r *ShipmentRepo) GetLines(ctx context.Context, shipmentID string) ([]*entity.ShipmentLine, error) {
	query := `
		SELECT id, shipment_id, product_id,
		       line_sequence_number, buyer_part_number, vendor_part_number,
		       pallet_name, qty_done, uom_code, pack_qty, description,
		       lot_name, lot_expiry, created_at
		FROM edi_shipment_lines WHERE shipment_id = $1 ORDER BY pallet_name, created_at`
	rows, err := r.q.Query(ctx, query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list shipment lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.ShipmentLine
	for rows.Next() {
		var l entity.ShipmentLine
		var productID *string
		if err := rows.Scan(
			&l.ID, &l.ShipmentID, &productID,
			&l.LineSequenceNumber, &l.BuyerPartNumber, &l.VendorPartNumber,
			&l.PalletName, &l.QtyDone, &l.UOMCode, &l.PackQty, &l.Description,
			&l.LotName, &l.LotExpiry, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan shipment line: %w", err)
		}
		if productID != nil {
			l.ProductID = *productID
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateEDIStatus cambia el estado EDI y sella la fecha del intercambio.
func (r *ShipmentRepo) UpdateEDIStatus(ctx context.Context, shipmentID, status string) error {
	query := `UPDATE edi_shipments SET edi_status = $2, edi_date = $3, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, shipmentID, status, time.Now())
	if err != nil {
		return fmt.Errorf("update shipment edi status: %w", err)
	}
	return nil
}

// ListPendingExport despachos validados pendientes de exportar.
func (r *ShipmentRepo) ListPendingExport(ctx context.Context) ([]*entity.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM edi_shipments
		WHERE done = true AND edi_status = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, entity.EDIStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending shipments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
