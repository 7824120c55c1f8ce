package edisync

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tu-usuario/edi-pro/internal/domain"
	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/infrastructure/rsx"
	rsxcode "github.com/tu-usuario/edi-pro/pkg/rsx"
)

// partySet resultado de resolver los bloques Contacts y Address de un 850.
type partySet struct {
	Main   *entity.Partner // cuenta principal del trading partner
	ShipTo *entity.Partner // dirección ST; la principal si el documento no trae una
	BillTo *entity.Partner // dirección BT; la principal si el documento no trae una

	AddressesBlob string // todas las direcciones del documento, sin interpretar
	ContactsBlob  string // tuplas de contacto deduplicadas
}

// appendContact agrega la tupla a la lista si no estaba ya. La deduplicación
// es por igualdad exacta de etiqueta, nombre y teléfono.
func appendContact(list []entity.Contact, c rsx.OrderContact) []entity.Contact {
	tuple := entity.Contact{
		TypeLabel: rsxcode.ContactLabel(c.ContactTypeCode),
		Name:      c.ContactName,
		Phone:     c.PrimaryPhone,
	}
	for _, existing := range list {
		if existing == tuple {
			return list
		}
	}
	return append(list, tuple)
}

// formatAddressBlock serializa un bloque Address al blob de direcciones.
func formatAddressBlock(a rsx.OrderAddress) string {
	return fmt.Sprintf(
		"AddressName: %s\nAddressTypeCode: %s\nLocationCodeQualifier: %s\nAddressLocationNumber: %s\nStreet1: %s\nStreet2: %s\nCity: %s\nPostalCode: %s\nCountry: %s\n\n",
		a.AddressName, a.AddressTypeCode, a.LocationCodeQualifier, a.AddressLocationNumber,
		a.Address1, a.Address2, a.City, a.PostalCode, a.Country,
	)
}

// resolveParties resuelve la cuenta principal del socio y las direcciones de
// envío y facturación del documento. Las direcciones ST y BT que no existan en
// el catálogo se crean como contactos hijos de la cuenta principal; cualquier
// otro tipo de dirección solo queda registrado en el blob.
func (s *Service) resolveParties(ctx context.Context, doc *rsx.OrderDocument) (*partySet, error) {
	main, err := s.partners.GetCompanyByTradingPartnerID(ctx, doc.TradingPartnerID)
	if err != nil {
		return nil, fmt.Errorf("buscar trading partner %q: %w", doc.TradingPartnerID, err)
	}
	if main == nil {
		return nil, fmt.Errorf("trading partner %q: %w", doc.TradingPartnerID, domain.ErrPartnerNotFound)
	}

	var contacts []entity.Contact
	for _, c := range doc.Contacts {
		contacts = appendContact(contacts, c)
	}

	set := &partySet{Main: main}
	for _, addr := range doc.Addresses {
		set.AddressesBlob += formatAddressBlock(addr)

		if addr.Contact != nil {
			contacts = appendContact(contacts, *addr.Contact)
		}

		var partnerType string
		switch addr.AddressTypeCode {
		case rsxcode.AddressShipTo:
			partnerType = entity.PartnerTypeDelivery
		case rsxcode.AddressBillTo:
			partnerType = entity.PartnerTypeInvoice
		default:
			partnerType = entity.PartnerTypeContact
		}

		existing, err := s.partners.GetByLocationNumber(ctx, main.ID, addr.AddressLocationNumber)
		if err != nil {
			return nil, fmt.Errorf("buscar dirección %q: %w", addr.AddressLocationNumber, err)
		}

		if existing == nil && partnerType != entity.PartnerTypeContact {
			existing, err = s.createAddressPartner(ctx, main, addr, partnerType)
			if err != nil {
				return nil, err
			}
		}

		switch partnerType {
		case entity.PartnerTypeDelivery:
			set.ShipTo = existing
		case entity.PartnerTypeInvoice:
			set.BillTo = existing
		}
	}

	for _, c := range contacts {
		set.ContactsBlob += fmt.Sprintf("Type: %s\nName: %s\nPhone: %s\n\n", c.TypeLabel, c.Name, c.Phone)
	}

	if set.ShipTo == nil {
		set.ShipTo = main
	}
	if set.BillTo == nil {
		set.BillTo = main
	}
	return set, nil
}

// createAddressPartner crea la dirección como contacto hijo de la cuenta
// principal. País y estado se resuelven contra el catálogo geográfico; el
// código de país llega a veces con sufijos y se recorta a dos caracteres.
func (s *Service) createAddressPartner(ctx context.Context, main *entity.Partner, addr rsx.OrderAddress, partnerType string) (*entity.Partner, error) {
	countryCode := addr.Country
	if len(countryCode) > 2 {
		countryCode = countryCode[:2]
	}

	// El estado solo se conserva si el catálogo geográfico lo reconoce dentro
	// del país del documento.
	countryID, err := s.geo.CountryByCode(ctx, countryCode)
	if err != nil {
		return nil, fmt.Errorf("resolver país %q: %w", countryCode, err)
	}
	stateCode := ""
	if countryID != "" && addr.State != "" {
		stateID, err := s.geo.StateByCode(ctx, countryID, addr.State)
		if err != nil {
			return nil, fmt.Errorf("resolver estado %q: %w", addr.State, err)
		}
		if stateID != "" {
			stateCode = addr.State
		}
	}

	partner := &entity.Partner{
		ID:                    uuid.New().String(),
		ParentID:              main.ID,
		Name:                  addr.AddressName,
		TradingPartnerID:      main.TradingPartnerID,
		Type:                  partnerType,
		LocationCodeQualifier: addr.LocationCodeQualifier,
		AddressLocationNumber: addr.AddressLocationNumber,
		Street:                addr.Address1,
		Street2:               addr.Address2,
		City:                  addr.City,
		Zip:                   addr.PostalCode,
		StateCode:             stateCode,
		CountryCode:           countryCode,
	}
	if err := s.partners.Create(ctx, partner); err != nil {
		return nil, fmt.Errorf("crear dirección %q: %w", addr.AddressLocationNumber, err)
	}
	s.log.Info().
		Str("partner", main.Name).
		Str("location", addr.AddressLocationNumber).
		Str("type", partnerType).
		Msg("dirección creada desde el documento")
	return partner, nil
}
