package repository

import (
	"context"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para órdenes de venta EDI.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByName(ctx context.Context, name string) (*entity.Order, error)

	// GetByPONumber busca una orden existente por número de PO del comprador.
	// Es la consulta de deduplicación antes de importar un 850.
	GetByPONumber(ctx context.Context, poNumber string) (*entity.Order, error)

	// FindBackorderOrigin busca la orden original cuando el 850 entrante
	// referencia un backorder (ReferenceQual 12).
	FindBackorderOrigin(ctx context.Context, reference string) (*entity.Order, error)

	CreateLine(ctx context.Context, line *entity.OrderLine) error
	GetLines(ctx context.Context, orderID string) ([]*entity.OrderLine, error)

	// UpdateLineCount recalcula x_total_line_items tras insertar las líneas.
	UpdateLineCount(ctx context.Context, orderID string, count int) error

	// UpdateEDIStatus cambia el estado EDI y sella la fecha del intercambio.
	UpdateEDIStatus(ctx context.Context, orderID, status string) error

	// ListPendingAcks devuelve las órdenes confirmadas con estado EDI pendiente,
	// candidatas a exportar como 855.
	ListPendingAcks(ctx context.Context) ([]*entity.Order, error)
}
