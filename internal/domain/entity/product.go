package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto vendible con sus identificadores de intercambio.
type Product struct {
	ID          string
	Name        string
	Description string
	Barcode     string // UPC; llega en <ConsumerPackageCode>
	EAN         string
	GTIN        string
	PartNumber  string

	// Packages empaques del producto ordenados por fecha de creación
	// descendente: el primero es el empaque vigente para pedidos en cajas.
	Packages []Package

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CurrentPackage devuelve el empaque vigente (el más reciente) o nil.
func (p *Product) CurrentPackage() *Package {
	if len(p.Packages) == 0 {
		return nil
	}
	return &p.Packages[0]
}

// Package empaque (caja) de un producto: cuántas unidades contiene.
type Package struct {
	ID        string
	ProductID string
	Name      string
	Qty       decimal.Decimal // unidades por caja
	CreatedAt time.Time
}

// UOM unidad de medida del catálogo local, con su código de intercambio.
type UOM struct {
	ID      string
	Name    string
	EDICode string // EA, CA, PL...
}

// PricelistItem precio bruto de venta por (socio, producto, empaque).
// InvPartnerID solo se usa cuando el precio depende de la dirección de
// facturación del socio.
type PricelistItem struct {
	ID           string
	PartnerID    string
	InvPartnerID string
	ProductID    string
	PackageID    string
	FixedPrice   decimal.Decimal
}
