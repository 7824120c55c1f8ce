package repository

import (
	"context"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
)

// PartnerRepository define el puerto de persistencia para socios comerciales.
type PartnerRepository interface {
	Create(ctx context.Context, partner *entity.Partner) error
	GetByID(ctx context.Context, id string) (*entity.Partner, error)

	// GetCompanyByTradingPartnerID resuelve la compañía raíz del socio a partir
	// del identificador de trading partner que viene en el documento.
	GetCompanyByTradingPartnerID(ctx context.Context, tradingPartnerID string) (*entity.Partner, error)

	// GetByLocationNumber busca un contacto hijo por número de localización EDI
	// dentro de la compañía dada.
	GetByLocationNumber(ctx context.Context, parentID, locationNumber string) (*entity.Partner, error)
}

// CompanyRepository define el puerto de lectura de la compañía emisora.
type CompanyRepository interface {
	Get(ctx context.Context) (*entity.Company, error)
}

// GeoRepository resuelve códigos ISO de país y estado a registros internos.
type GeoRepository interface {
	CountryByCode(ctx context.Context, code string) (string, error)
	StateByCode(ctx context.Context, countryID, code string) (string, error)
}
