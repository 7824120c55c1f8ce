package entity

import "time"

// ChargeAllowance cargo o descuento del catálogo de referencia. El catálogo es
// append-only: los lookups nunca mutan un registro existente, solo crean uno
// nuevo cuando no hay coincidencia exacta de todos los campos.
type ChargeAllowance struct {
	ID               string
	Indicator        string // A / C / N
	Code             string
	Amount           string
	PercentQualifier string
	Percent          string
	HandlingCode     string
	CreatedAt        time.Time
}

// Matches igualdad completa de campos; criterio de deduplicación del catálogo.
func (c *ChargeAllowance) Matches(o *ChargeAllowance) bool {
	return c.Indicator == o.Indicator &&
		c.Code == o.Code &&
		c.Amount == o.Amount &&
		c.PercentQualifier == o.PercentQualifier &&
		c.Percent == o.Percent &&
		c.HandlingCode == o.HandlingCode
}
