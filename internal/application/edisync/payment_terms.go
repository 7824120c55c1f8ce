package edisync

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/infrastructure/rsx"
	rsxcode "github.com/tu-usuario/edi-pro/pkg/rsx"
)

// resolvePaymentTerm busca el término de pago del catálogo que corresponde al
// bloque PaymentTerms del documento. Primero intenta por descripción exacta;
// si no hay coincidencia aplica heurísticas sobre las líneas del término, en
// el orden estable del catálogo (gana la primera coincidencia). Devuelve nil
// sin error cuando ninguna heurística aplica.
func (s *Service) resolvePaymentTerm(ctx context.Context, block *rsx.PaymentTermsBlock) (*entity.PaymentTerm, error) {
	if block == nil {
		return nil, nil
	}

	term, err := s.paymentTerms.GetByDescription(ctx, block.Description)
	if err != nil {
		return nil, fmt.Errorf("buscar término por descripción %q: %w", block.Description, err)
	}
	if term != nil {
		return term, nil
	}

	terms, err := s.paymentTerms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar términos de pago: %w", err)
	}

	switch {
	case block.TermsType == rsxcode.TermsTypeImmediate:
		// Pago inmediato: saldo completo a cero días.
		for _, t := range terms {
			if t.HasBalanceLine(0) {
				return t, nil
			}
		}

	case block.DiscountPercentage != "":
		// Descuento por pronto pago: la línea percent debe vencer a los días
		// de descuento y la línea balance a los días netos (o a los de
		// descuento si el documento no trae días netos).
		discountDays, ok := atoiOK(block.DiscountDueDays)
		if !ok {
			return nil, nil
		}
		netDays := discountDays
		if block.NetDueDays != "" {
			netDays, ok = atoiOK(block.NetDueDays)
			if !ok {
				return nil, nil
			}
		}
		for _, t := range terms {
			if t.HasPercentLine(discountDays) && t.HasBalanceLine(netDays) {
				return t, nil
			}
		}

	case block.NetDueDays != "":
		// Neto a N días sin descuento: saldo a los días netos y ninguna
		// línea de porcentaje.
		netDays, ok := atoiOK(block.NetDueDays)
		if !ok {
			return nil, nil
		}
		for _, t := range terms {
			if !t.HasAnyPercentLine() && t.HasBalanceLine(netDays) {
				return t, nil
			}
		}
	}

	return nil, nil
}

func atoiOK(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
