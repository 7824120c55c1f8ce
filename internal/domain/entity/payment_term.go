package entity

import "github.com/shopspring/decimal"

// Valores posibles de PaymentTermLine.Value.
const (
	TermLineBalance = "balance" // saldo a N días
	TermLinePercent = "percent" // porcentaje (descuento) a N días
)

// PaymentTerm término de pago del catálogo, con los campos estructurados que
// viajan en el bloque PaymentTerms del intercambio.
type PaymentTerm struct {
	ID   string
	Name string

	Description        string // clave del primer intento de resolución
	TermsType          string // 10 = pago inmediato
	BasisDateCode      string
	DiscountPercentage string
	DiscountDate       string
	DiscountDueDays    string
	NetDueDate         string
	NetDueDays         string

	Lines []PaymentTermLine
}

// PaymentTermLine línea del término: un balance a N días, o un porcentaje de
// descuento a N días. Sobre estas líneas operan las heurísticas de matching.
type PaymentTermLine struct {
	ID      string
	TermID  string
	Value   string // balance | percent
	Days    int
	Percent decimal.Decimal
}

// HasBalanceLine true si el término tiene una línea balance con los días dados.
func (t *PaymentTerm) HasBalanceLine(days int) bool {
	for _, l := range t.Lines {
		if l.Value == TermLineBalance && l.Days == days {
			return true
		}
	}
	return false
}

// HasPercentLine true si el término tiene una línea percent con los días dados.
func (t *PaymentTerm) HasPercentLine(days int) bool {
	for _, l := range t.Lines {
		if l.Value == TermLinePercent && l.Days == days {
			return true
		}
	}
	return false
}

// HasAnyPercentLine true si el término tiene alguna línea percent.
func (t *PaymentTerm) HasAnyPercentLine() bool {
	for _, l := range t.Lines {
		if l.Value == TermLinePercent {
			return true
		}
	}
	return false
}
