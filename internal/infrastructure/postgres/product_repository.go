package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `
	id, name, description, barcode, ean, gtin, part_number, created_at, updated_at`

func (r *ProductRepo) scanWithPackages(ctx context.Context, row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Barcode, &p.EAN, &p.GTIN, &p.PartNumber,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	// Empaques ordenados del más reciente al más antiguo: el primero es el vigente.
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, name, qty, created_at
		FROM product_packages WHERE product_id = $1 ORDER BY created_at DESC`, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pkg entity.Package
		if err := rows.Scan(&pkg.ID, &pkg.ProductID, &pkg.Name, &pkg.Qty, &pkg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		p.Packages = append(p.Packages, pkg)
	}
	return &p, rows.Err()
}

// GetByID obtiene un producto con sus empaques.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := r.scanWithPackages(ctx, r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByBarcode busca por código de barras exacto.
func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE barcode = $1 LIMIT 1`
	p, err := r.scanWithPackages(ctx, r.q.QueryRow(ctx, query, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by barcode: %w", err)
	}
	return p, nil
}

// UpdateIdentifiers persiste GTIN y EAN aprendidos del documento entrante.
func (r *ProductRepo) UpdateIdentifiers(ctx context.Context, productID, gtin, ean string) error {
	query := `UPDATE products SET gtin = $2, ean = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, productID, gtin, ean, time.Now())
	if err != nil {
		return fmt.Errorf("update product identifiers: %w", err)
	}
	return nil
}

// ── Unidades de medida ───────────────────────────────────────────────────────

var _ repository.UOMRepository = (*UOMRepo)(nil)

// UOMRepo lectura del catálogo de unidades de medida.
type UOMRepo struct {
	q Querier
}

// NewUOMRepository construye el adaptador.
func NewUOMRepository(q Querier) *UOMRepo {
	return &UOMRepo{q: q}
}

// GetByEDICode busca la unidad por código de intercambio.
func (r *UOMRepo) GetByEDICode(ctx context.Context, ediCode string) (*entity.UOM, error) {
	var u entity.UOM
	err := r.q.QueryRow(ctx,
		`SELECT id, name, edi_code FROM uoms WHERE edi_code = $1 LIMIT 1`, ediCode,
	).Scan(&u.ID, &u.Name, &u.EDICode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get uom by edi code: %w", err)
	}
	return &u, nil
}

// GetByName busca la unidad por nombre interno (Units, Cases).
func (r *UOMRepo) GetByName(ctx context.Context, name string) (*entity.UOM, error) {
	var u entity.UOM
	err := r.q.QueryRow(ctx,
		`SELECT id, name, edi_code FROM uoms WHERE name = $1 LIMIT 1`, name,
	).Scan(&u.ID, &u.Name, &u.EDICode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get uom by name: %w", err)
	}
	return &u, nil
}

// ── Lista de precios ─────────────────────────────────────────────────────────

var _ repository.PricelistRepository = (*PricelistRepo)(nil)

// PricelistRepo resuelve el precio bruto de venta por (socio, producto, empaque).
type PricelistRepo struct {
	q Querier
}

// NewPricelistRepository construye el adaptador.
func NewPricelistRepository(q Querier) *PricelistRepo {
	return &PricelistRepo{q: q}
}

// GrossSellingPrice devuelve el precio fijo más específico: primero con el
// empaque dado, luego sin empaque. Sin registro devuelve cero.
func (r *PricelistRepo) GrossSellingPrice(ctx context.Context, partnerID, productID, packageID string) (decimal.Decimal, error) {
	query := `
		SELECT fixed_price FROM pricelist_items
		WHERE partner_id = $1 AND product_id = $2
		  AND (package_id = $3 OR package_id IS NULL)
		ORDER BY package_id NULLS LAST LIMIT 1`
	var price decimal.Decimal
	err := r.q.QueryRow(ctx, query, partnerID, productID, nullIfEmpty(packageID)).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("get gross selling price: %w", err)
	}
	return price, nil
}
