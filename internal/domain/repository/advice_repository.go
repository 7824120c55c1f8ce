package repository

import (
	"context"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
)

// AdviceRepository define el puerto de persistencia para avisos de despacho
// de bodega (945 entrante).
type AdviceRepository interface {
	Create(ctx context.Context, advice *entity.WarehouseAdvice) error
	CreateLine(ctx context.Context, line *entity.AdviceLine) error

	// GetBySourceFile deduplica por nombre de archivo descargado.
	GetBySourceFile(ctx context.Context, sourceFile string) (*entity.WarehouseAdvice, error)
}
