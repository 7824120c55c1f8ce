package entity

import "time"

// Partner representa a un socio comercial o a una de sus direcciones hijas.
// La cuenta principal es la que tiene IsCompany=true; las direcciones de envío
// y facturación creadas desde el EDI cuelgan de ella vía ParentID.
type Partner struct {
	ID               string
	ParentID         string // vacío para la cuenta principal
	Name             string
	IsCompany        bool
	TradingPartnerID string // identificador asignado por SPS Commerce

	// Tipo de contacto: contact, delivery (ST) o invoice (BT).
	Type string

	ContactTypeCode       string // BD / RE
	LocationCodeQualifier string // UL / 9 / 92 / 1
	AddressLocationNumber string // clave de deduplicación de direcciones
	Street                string
	Street2               string
	City                  string
	Zip                   string
	StateCode             string
	CountryCode           string
	Phone                 string

	// PriceInCases true cuando el socio transmite el precio directamente por
	// caja en el 850 en lugar de precio unitario.
	PriceInCases bool

	// Banderas de intercambio por tipo de documento.
	InboundOrders    bool // recibe 850
	OutboundAcks     bool // emite 855
	OutboundInvoices bool // emite 810
	OutboundASN      bool // emite 856
	InboundAdvices   bool // recibe 945

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PartnerTypeContact, PartnerTypeDelivery y PartnerTypeInvoice clasifican la
// dirección según el AddressTypeCode del bloque importado.
const (
	PartnerTypeContact  = "contact"
	PartnerTypeDelivery = "delivery"
	PartnerTypeInvoice  = "invoice"
)

// Contact tupla de contacto aplanada en el documento; se deduplica por
// igualdad exacta de los tres campos.
type Contact struct {
	TypeLabel string
	Name      string
	Phone     string
}

// Company datos propios de la empresa emisora (dirección SF / RI de los
// documentos salientes).
type Company struct {
	ID                    string
	Name                  string
	Street                string
	Street2               string
	City                  string
	Zip                   string
	StateCode             string
	CountryCode           string
	LocationCodeQualifier string
	AddressLocationNumber string
	VAT                   string
}
