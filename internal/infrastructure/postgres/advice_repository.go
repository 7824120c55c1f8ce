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

var _ repository.AdviceRepository = (*AdviceRepo)(nil)

// AdviceRepo implementación de AdviceRepository (usable con pool o tx).
type AdviceRepo struct {
	q Querier
}

// NewAdviceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdviceRepository(q Querier) *AdviceRepo {
	return &AdviceRepo{q: q}
}

// Create persiste el aviso de despacho importado.
func (r *AdviceRepo) Create(ctx context.Context, a *entity.WarehouseAdvice) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now()

	query := `
		INSERT INTO edi_warehouse_advices (
			id, po_number, po_date, vendor,
			shipment_identification, bill_of_lading_number, source_file,
			edi_status, edi_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.PONumber, a.PODate, a.Vendor,
		a.ShipmentIdentification, a.BillOfLadingNumber, a.SourceFile,
		a.EDIStatus, a.EDIDate, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert warehouse advice: %w", err)
	}
	return nil
}

// CreateLine persiste un renglón despachado.
func (r *AdviceRepo) CreateLine(ctx context.Context, l *entity.AdviceLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	l.CreatedAt = time.Now()

	query := `
		INSERT INTO edi_advice_lines (
			id, advice_id, line_sequence_number, buyer_part_number, vendor_part_number,
			consumer_package_code, ship_qty, uom_code, pack_value, pallet_serial, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.AdviceID, l.LineSequenceNumber, l.BuyerPartNumber, l.VendorPartNumber,
		l.ConsumerPackageCode, l.ShipQty, l.UOMCode, l.PackValue, l.PalletSerial, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert advice line: %w", err)
	}
	return nil
}

// GetBySourceFile deduplica por nombre de archivo descargado.
func (r *AdviceRepo) GetBySourceFile(ctx context.Context, sourceFile string) (*entity.WarehouseAdvice, error) {
	query := `
		SELECT id, po_number, po_date, vendor,
		       shipment_identification, bill_of_lading_number, source_file,
		       edi_status, edi_date, created_at
		FROM edi_warehouse_advices WHERE source_file = $1`
	var a entity.WarehouseAdvice
	err := r.q.QueryRow(ctx, query, sourceFile).Scan(
		&a.ID, &a.PONumber, &a.PODate, &a.Vendor,
		&a.ShipmentIdentification, &a.BillOfLadingNumber, &a.SourceFile,
		&a.EDIStatus, &a.EDIDate, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get advice by source file: %w", err)
	}
	return &a, nil
}
