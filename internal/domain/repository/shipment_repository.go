package repository

import (
	"context"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
)

// ShipmentRepository define el puerto de persistencia para despachos EDI.
type ShipmentRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Shipment, error)
	GetLines(ctx context.Context, shipmentID string) ([]*entity.ShipmentLine, error)
	UpdateEDIStatus(ctx context.Context, shipmentID, status string) error

	// ListPendingExport devuelve los despachos finalizados con estado EDI
	// pendiente, candidatos a exportar como 856.
	ListPendingExport(ctx context.Context) ([]*entity.Shipment, error)
}
