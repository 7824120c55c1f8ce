package edisync

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/edi-pro/internal/domain/entity"
	"github.com/tu-usuario/edi-pro/internal/infrastructure/rsx"
)

func termWithLines(id, description string, lines ...entity.PaymentTermLine) *entity.PaymentTerm {
	return &entity.PaymentTerm{ID: id, Name: id, Description: description, Lines: lines}
}

func balanceLine(days int) entity.PaymentTermLine {
	return entity.PaymentTermLine{Value: entity.TermLineBalance, Days: days}
}

func percentLine(days int, percent string) entity.PaymentTermLine {
	return entity.PaymentTermLine{Value: entity.TermLinePercent, Days: days, Percent: decimal.RequireFromString(percent)}
}

func TestResolvePaymentTerm(t *testing.T) {
	f := newFixture()
	f.terms.terms = []*entity.PaymentTerm{
		termWithLines("t-immediate", "", balanceLine(0)),
		termWithLines("t-net30", "", balanceLine(30)),
		termWithLines("t-2-10-net30", "2% 10 Net 30", percentLine(10, "2"), balanceLine(30)),
	}

	tests := []struct {
		name   string
		block  *rsx.PaymentTermsBlock
		wantID string
	}{
		{
			name:   "descripción exacta gana",
			block:  &rsx.PaymentTermsBlock{Description: "2% 10 Net 30"},
			wantID: "t-2-10-net30",
		},
		{
			name:   "pago inmediato por tipo 10",
			block:  &rsx.PaymentTermsBlock{TermsType: "10", Description: "whatever"},
			wantID: "t-immediate",
		},
		{
			name: "descuento por porcentaje y días",
			block: &rsx.PaymentTermsBlock{
				DiscountPercentage: "2",
				DiscountDueDays:    "10",
				NetDueDays:         "30",
			},
			wantID: "t-2-10-net30",
		},
		{
			name: "descuento sin días netos usa los de descuento",
			block: &rsx.PaymentTermsBlock{
				DiscountPercentage: "2",
				DiscountDueDays:    "10",
			},
			wantID: "", // ningún término tiene percent(10) y balance(10)
		},
		{
			name:   "neto a días sin porcentaje",
			block:  &rsx.PaymentTermsBlock{NetDueDays: "30"},
			wantID: "t-net30",
		},
		{
			name:   "sin datos no resuelve",
			block:  &rsx.PaymentTermsBlock{},
			wantID: "",
		},
		{
			name:   "días ilegibles no resuelven",
			block:  &rsx.PaymentTermsBlock{DiscountPercentage: "2", DiscountDueDays: "diez"},
			wantID: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			term, err := f.svc.resolvePaymentTerm(context.Background(), tc.block)
			require.NoError(t, err)
			if tc.wantID == "" {
				assert.Nil(t, term)
				return
			}
			require.NotNil(t, term)
			assert.Equal(t, tc.wantID, term.ID)
		})
	}
}

func TestResolvePaymentTermPrimeraCoincidenciaGana(t *testing.T) {
	f := newFixture()
	f.terms.terms = []*entity.PaymentTerm{
		termWithLines("t-a", "", balanceLine(30)),
		termWithLines("t-b", "", balanceLine(30)),
	}

	term, err := f.svc.resolvePaymentTerm(context.Background(), &rsx.PaymentTermsBlock{NetDueDays: "30"})
	require.NoError(t, err)
	require.NotNil(t, term)
	assert.Equal(t, "t-a", term.ID)
}

func TestResolvePaymentTermNilBlock(t *testing.T) {
	f := newFixture()
	term, err := f.svc.resolvePaymentTerm(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, term)
}
