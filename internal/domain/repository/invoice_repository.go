package repository

import (
	"context"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas EDI.
type InvoiceRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error)
	UpdateEDIStatus(ctx context.Context, invoiceID, status string) error

	// ListPendingExport devuelve las facturas contabilizadas con estado EDI
	// pendiente, candidatas a exportar como 810.
	ListPendingExport(ctx context.Context) ([]*entity.Invoice, error)
}
