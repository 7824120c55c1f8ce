package repository

import (
	"context"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
)

// PaymentTermRepository define el puerto de lectura de términos de pago.
type PaymentTermRepository interface {
	// GetByDescription busca por la descripción EDI exacta previamente asociada.
	GetByDescription(ctx context.Context, description string) (*entity.PaymentTerm, error)

	// List devuelve todos los términos, en el orden estable que usa la
	// heurística de resolución (gana la primera coincidencia).
	List(ctx context.Context) ([]*entity.PaymentTerm, error)
}

// ChargeAllowanceRepository define el puerto del catálogo de cargos y
// descuentos. El catálogo es de solo inserción, nunca se actualiza en sitio.
type ChargeAllowanceRepository interface {
	// Find busca un registro que coincida campo a campo con el candidato.
	Find(ctx context.Context, candidate *entity.ChargeAllowance) (*entity.ChargeAllowance, error)
	Create(ctx context.Context, ca *entity.ChargeAllowance) error
	ListByIDs(ctx context.Context, ids []string) ([]*entity.ChargeAllowance, error)
}
