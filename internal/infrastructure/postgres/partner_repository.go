package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/edi-pro/internal/domain"
	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/domain/repository"
)

var _ repository.PartnerRepository = (*PartnerRepo)(nil)

// PartnerRepo implementación de PartnerRepository (usable con pool o tx).
type PartnerRepo struct {
	q Querier
}

// NewPartnerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartnerRepository(q Querier) *PartnerRepo {
	return &PartnerRepo{q: q}
}

const partnerColumns = `
	id, parent_id, name, is_company, trading_partner_id, type,
	contact_type_code, location_code_qualifier, address_location_number,
	street, street2, city, zip, state_code, country_code, phone,
	price_in_cases, inbound_orders, outbound_acks, outbound_invoices,
	outbound_asn, inbound_advices, created_at, updated_at`

func scanPartner(row pgx.Row) (*entity.Partner, error) {
	var p entity.Partner
	var parentID *string
	err := row.Scan(
		&p.ID, &parentID, &p.Name, &p.IsCompany, &p.TradingPartnerID, &p.Type,
		&p.ContactTypeCode, &p.LocationCodeQualifier, &p.AddressLocationNumber,
		&p.Street, &p.Street2, &p.City, &p.Zip, &p.StateCode, &p.CountryCode, &p.Phone,
		&p.PriceInCases, &p.InboundOrders, &p.OutboundAcks, &p.OutboundInvoices,
		&p.OutboundASN, &p.InboundAdvices, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		p.ParentID = *parentID
	}
	return &p, nil
}

// Create persiste un socio o una dirección hija.
func (r *PartnerRepo) Create(ctx context.Context, p *entity.Partner) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO partners (` + partnerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`
	_, err := r.q.Exec(ctx, query,
		p.ID, nullIfEmpty(p.ParentID), p.Name, p.IsCompany, p.TradingPartnerID, p.Type,
		p.ContactTypeCode, p.LocationCodeQualifier, p.AddressLocationNumber,
		p.Street, p.Street2, p.City, p.Zip, p.StateCode, p.CountryCode, p.Phone,
		p.PriceInCases, p.InboundOrders, p.OutboundAcks, p.OutboundInvoices,
		p.OutboundASN, p.InboundAdvices, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert partner: %w", err)
	}
	return nil
}

// GetByID obtiene un socio por ID.
func (r *PartnerRepo) GetByID(ctx context.Context, id string) (*entity.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE id = $1`
	p, err := scanPartner(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return p, nil
}

// GetCompanyByTradingPartnerID resuelve la cuenta principal por identificador
// de trading partner.
func (r *PartnerRepo) GetCompanyByTradingPartnerID(ctx context.Context, tradingPartnerID string) (*entity.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners
		WHERE trading_partner_id = $1 AND is_company = true LIMIT 1`
	p, err := scanPartner(r.q.QueryRow(ctx, query, tradingPartnerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner by trading_partner_id: %w", err)
	}
	return p, nil
}

// GetByLocationNumber busca un contacto hijo por número de localización.
func (r *PartnerRepo) GetByLocationNumber(ctx context.Context, parentID, locationNumber string) (*entity.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners
		WHERE parent_id = $1 AND address_location_number = $2 LIMIT 1`
	p, err := scanPartner(r.q.QueryRow(ctx, query, parentID, locationNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner by location number: %w", err)
	}
	return p, nil
}

// ── Compañía emisora ─────────────────────────────────────────────────────────

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo lectura de la compañía emisora (fila única).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Get devuelve la compañía emisora de los documentos salientes.
func (r *CompanyRepo) Get(ctx context.Context) (*entity.Company, error) {
	query := `
		SELECT id, name, street, street2, city, zip, state_code, country_code,
		       location_code_qualifier, address_location_number, vat
		FROM companies ORDER BY created_at LIMIT 1`
	var c entity.Company
	err := r.q.QueryRow(ctx, query).Scan(
		&c.ID, &c.Name, &c.Street, &c.Street2, &c.City, &c.Zip, &c.StateCode, &c.CountryCode,
		&c.LocationCodeQualifier, &c.AddressLocationNumber, &c.VAT,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// ── Geografía ────────────────────────────────────────────────────────────────

var _ repository.GeoRepository = (*GeoRepo)(nil)

// GeoRepo resuelve códigos ISO de país y estado a IDs internos.
type GeoRepo struct {
	q Querier
}

// NewGeoRepository construye el adaptador.
func NewGeoRepository(q Querier) *GeoRepo {
	return &GeoRepo{q: q}
}

// CountryByCode resuelve el código ISO de país.
func (r *GeoRepo) CountryByCode(ctx context.Context, code string) (string, error) {
	var id string
	err := r.q.QueryRow(ctx, `SELECT id FROM countries WHERE code = $1`, code).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get country: %w", err)
	}
	return id, nil
}

// StateByCode resuelve el código de estado dentro de un país.
func (r *GeoRepo) StateByCode(ctx context.Context, countryID, code string) (string, error) {
	var id string
	err := r.q.QueryRow(ctx,
		`SELECT id FROM country_states WHERE country_id = $1 AND code = $2`, countryID, code,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get state: %w", err)
	}
	return id, nil
}
