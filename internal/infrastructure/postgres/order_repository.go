package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/edi-pro/internal/domain"
	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `
	id, name, partner_id, shipping_partner_id, invoice_partner_id,
	po_number, backorder_origin_id, tset_purpose_code, primary_po_type_code,
	vendor, department, order_date,
	date_time_qualifier, commitment_date, requested_pickup_date, additional_date,
	carrier_trans_method_code, carrier_routing,
	reference_qual, reference_id, reference_description, note_code, note,
	payment_term_id, customer_payment_terms, all_contacts, addresses,
	charge_allowance_ids, total_amount, total_line_items,
	acknowledgement_type, bill_of_lading_number,
	confirmed, edi_status, edi_date, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var shippingID, invoiceID, backorderID, paymentTermID *string
	err := row.Scan(
		&o.ID, &o.Name, &o.PartnerID, &shippingID, &invoiceID,
		&o.PONumber, &backorderID, &o.TsetPurposeCode, &o.PrimaryPOTypeCode,
		&o.Vendor, &o.Department, &o.OrderDate,
		&o.DateTimeQualifier, &o.CommitmentDate, &o.RequestedPickupDate, &o.AdditionalDate,
		&o.CarrierTransMethodCode, &o.CarrierRouting,
		&o.ReferenceQual, &o.ReferenceID, &o.ReferenceDescription, &o.NoteCode, &o.Note,
		&paymentTermID, &o.CustomerPaymentTerms, &o.AllContacts, &o.Addresses,
		&o.ChargeAllowanceIDs, &o.TotalAmount, &o.TotalLineItems,
		&o.AcknowledgementType, &o.BillOfLadingNumber,
		&o.Confirmed, &o.EDIStatus, &o.EDIDate, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if shippingID != nil {
		o.ShippingPartnerID = *shippingID
	}
	if invoiceID != nil {
		o.InvoicePartnerID = *invoiceID
	}
	if backorderID != nil {
		o.BackorderOriginID = *backorderID
	}
	if paymentTermID != nil {
		o.PaymentTermID = *paymentTermID
	}
	return &o, nil
}

// Create persiste la orden con sus calificadores EDI.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	query := `
		INSERT INTO edi_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
		        $29, $30, $31, $32, $33, $34, $35, $36, $37)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Name, o.PartnerID, nullIfEmpty(o.ShippingPartnerID), nullIfEmpty(o.InvoicePartnerID),
		o.PONumber, nullIfEmpty(o.BackorderOriginID), o.TsetPurposeCode, o.PrimaryPOTypeCode,
		o.Vendor, o.Department, o.OrderDate,
		o.DateTimeQualifier, o.CommitmentDate, o.RequestedPickupDate, o.AdditionalDate,
		o.CarrierTransMethodCode, o.CarrierRouting,
		o.ReferenceQual, o.ReferenceID, o.ReferenceDescription, o.NoteCode, o.Note,
		nullIfEmpty(o.PaymentTermID), o.CustomerPaymentTerms, o.AllContacts, o.Addresses,
		o.ChargeAllowanceIDs, o.TotalAmount, o.TotalLineItems,
		o.AcknowledgementType, o.BillOfLadingNumber,
		o.Confirmed, o.EDIStatus, o.EDIDate, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM edi_orders WHERE id = $1`
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetByName obtiene una orden por consecutivo interno.
func (r *OrderRepo) GetByName(ctx context.Context, name string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM edi_orders WHERE name = $1`
	o, err := scanOrder(r.q.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by name: %w", err)
	}
	return o, nil
}

// GetByPONumber busca por número de PO del comprador (deduplicación del 850).
func (r *OrderRepo) GetByPONumber(ctx context.Context, poNumber string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM edi_orders WHERE po_number = $1 ORDER BY created_at DESC LIMIT 1`
	o, err := scanOrder(r.q.QueryRow(ctx, query, poNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by po_number: %w", err)
	}
	return o, nil
}

// FindBackorderOrigin busca la orden original referenciada por un backorder.
func (r *OrderRepo) FindBackorderOrigin(ctx context.Context, reference string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM edi_orders WHERE po_number = $1 AND backorder_origin_id IS NULL ORDER BY created_at ASC LIMIT 1`
	o, err := scanOrder(r.q.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find backorder origin: %w", err)
	}
	return o, nil
}

// CreateLine persiste un renglón de la orden.
func (r *OrderRepo) CreateLine(ctx context.Context, l *entity.OrderLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	l.CreatedAt = time.Now()

	query := `
		INSERT INTO edi_order_lines (
			id, order_id, product_id, name, is_note,
			line_sequence_number, buyer_part_number, vendor_part_number, part_number, consumer_package_code,
			qty, uom_id, uom_code, package_id, pack_qty, pack_size,
			unit_price, case_price, edi_price,
			charges_allowances, payment_terms,
			tax_code, tax_percent, tax_id, item_status_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.OrderID, nullIfEmpty(l.ProductID), l.Name, l.IsNote,
		l.LineSequenceNumber, l.BuyerPartNumber, l.VendorPartNumber, l.PartNumber, l.ConsumerPackageCode,
		l.Qty, nullIfEmpty(l.UOMID), l.UOMCode, nullIfEmpty(l.PackageID), l.PackQty, l.PackSize,
		l.UnitPrice, l.CasePrice, l.EDIPrice,
		l.ChargesAllowances, l.PaymentTerms,
		l.TaxCode, l.TaxPercent, l.TaxID, l.ItemStatusCode, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

// GetLines lista los renglones de la orden en el orden de inserción.
func (r *OrderRepo) GetLines(ctx context.Context, orderID string) ([]*entity.OrderLine, error) {
	query := `
		SELECT id, order_id, product_id, name, is_note,
		       line_sequence_number, buyer_part_number, vendor_part_number, part_number, consumer_package_code,
		       qty, uom_id, uom_code, package_id, pack_qty, pack_size,
		       unit_price, case_price, edi_price,
		       charges_allowances, payment_terms,
		       tax_code, tax_percent, tax_id, item_status_code, created_at
		FROM edi_order_lines WHERE order_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		var productID, uomID, packageID *string
		if err := rows.Scan(
			&l.ID, &l.OrderID, &productID, &l.Name, &l.IsNote,
			&l.LineSequenceNumber, &l.BuyerPartNumber, &l.VendorPartNumber, &l.PartNumber, &l.ConsumerPackageCode,
			&l.Qty, &uomID, &l.UOMCode, &packageID, &l.PackQty, &l.PackSize,
			&l.UnitPrice, &l.CasePrice, &l.EDIPrice,
			&l.ChargesAllowances, &l.PaymentTerms,
			&l.TaxCode, &l.TaxPercent, &l.TaxID, &l.ItemStatusCode, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		if productID != nil {
			l.ProductID = *productID
		}
		if uomID != nil {
			l.UOMID = *uomID
		}
		if packageID != nil {
			l.PackageID = *packageID
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateLineCount recalcula el total de renglones estructurados de la orden.
func (r *OrderRepo) UpdateLineCount(ctx context.Context, orderID string, count int) error {
	query := `UPDATE edi_orders SET total_line_items = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, orderID, count, time.Now())
	if err != nil {
		return fmt.Errorf("update line count: %w", err)
	}
	return nil
}

// UpdateEDIStatus cambia el estado EDI y sella la fecha del intercambio.
func (r *OrderRepo) UpdateEDIStatus(ctx context.Context, orderID, status string) error {
	query := `UPDATE edi_orders SET edi_status = $2, edi_date = $3, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, orderID, status, time.Now())
	if err != nil {
		return fmt.Errorf("update order edi status: %w", err)
	}
	return nil
}

// ListPendingAcks órdenes confirmadas pendientes de exportar como reconocimiento.
func (r *OrderRepo) ListPendingAcks(ctx context.Context) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM edi_orders
		WHERE confirmed = true AND edi_status = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, entity.EDIStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending acks: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}
