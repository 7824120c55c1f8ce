package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para productos.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)

	// GetByBarcode busca por código de barras exacto. El reintento con el
	// código recortado lo decide el importador, no el repositorio.
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)

	// UpdateIdentifiers persiste GTIN y EAN aprendidos del documento entrante.
	UpdateIdentifiers(ctx context.Context, productID, gtin, ean string) error
}

// UOMRepository define el puerto de lectura de unidades de medida.
type UOMRepository interface {
	GetByEDICode(ctx context.Context, ediCode string) (*entity.UOM, error)
	GetByName(ctx context.Context, name string) (*entity.UOM, error)
}

// PricelistRepository resuelve el precio de venta bruto de un producto para
// un socio dado, considerando el empaque.
type PricelistRepository interface {
	GrossSellingPrice(ctx context.Context, partnerID, productID, packageID string) (decimal.Decimal, error)
}
