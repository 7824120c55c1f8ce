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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, name, reference, partner_id, source_order_id, origin, invoice_date,
	tset_purpose_code, customer_payment_terms, merch_type_code,
	amount_total, amount_residual, amount_undiscounted, amount_untaxed,
	posted, edi_status, edi_date, created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var i entity.Invoice
	var sourceOrderID *string
	err := row.Scan(
		&i.ID, &i.Name, &i.Reference, &i.PartnerID, &sourceOrderID, &i.Origin, &i.InvoiceDate,
		&i.TsetPurposeCode, &i.CustomerPaymentTerms, &i.MerchTypeCode,
		&i.AmountTotal, &i.AmountResidual, &i.AmountUndiscounted, &i.AmountUntaxed,
		&i.Posted, &i.EDIStatus, &i.EDIDate, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sourceOrderID != nil {
		i.SourceOrderID = *sourceOrderID
	}
	return &i, nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM edi_invoices WHERE id = $1`
	i, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return i, nil
}

// GetLines lista los renglones de la factura en el orden de inserción.
func (r *InvoiceRepo) GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, product_id, name, is_note,
		       line_sequence_number, buyer_part_number, vendor_part_number, part_number, consumer_package_code,
		       qty, uom_code, pack_qty, unit_price, case_price, subtotal,
		       tax_code, tax_percent, created_at
		FROM edi_invoice_lines WHERE invoice_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		var productID *string
		if err := rows.Scan(
			&l.ID, &l.InvoiceID, &productID, &l.Name, &l.IsNote,
			&l.LineSequenceNumber, &l.BuyerPartNumber, &l.VendorPartNumber, &l.PartNumber, &l.ConsumerPackageCode,
			&l.Qty, &l.UOMCode, &l.PackQty, &l.UnitPrice, &l.CasePrice, &l.Subtotal,
			&l.TaxCode, &l.TaxPercent, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		if productID != nil {
			l.ProductID = *productID
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateEDIStatus cambia el estado EDI y sella la fecha del intercambio.
func (r *InvoiceRepo) UpdateEDIStatus(ctx context.Context, invoiceID, status string) error {
	query := `UPDATE edi_invoices SET edi_status = $2, edi_date = $3, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, invoiceID, status, time.Now())
	if err != nil {
		return fmt.Errorf("update invoice edi status: %w", err)
	}
	return nil
}

// ListPendingExport facturas contabilizadas pendientes de exportar.
func (r *InvoiceRepo) ListPendingExport(ctx context.Context) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM edi_invoices
		WHERE posted = true AND edi_status = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, entity.EDIStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		i, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}
