package rsx

import (
	"fmt"
	"strings"
)

// Claves del blob de términos de pago que viaja con la orden y la factura.
// El blob es texto multilínea "Clave: valor" para que el documento conserve
// los términos tal como llegaron, aunque no haya término local asociado.
const (
	termsTypeKey          = "Terms Type"
	basisDateCodeKey      = "Basis Date Code"
	discountPercentageKey = "Discount Percentage"
	discountDateKey       = "Discount Date"
	discountDueDaysKey    = "Discount Due Days"
	netDueDateKey         = "Net Due Date"
	netDueDaysKey         = "Net Due Days"
	termsDescriptionKey   = "Terms Description"
	fobPayCodeKey         = "FOB Pay Code"
	fobLocationQualKey    = "FOB Location Qualifier"
	fobLocationDescKey    = "FOB Location Description"
)

// FormatPaymentTerms serializa el bloque PaymentTerms (y el FOB opcional) al
// blob multilínea que se guarda con el documento.
func FormatPaymentTerms(terms *PaymentTermsBlock, fob *FOBBlock) string {
	if terms == nil {
		return ""
	}
	blob := fmt.Sprintf(
		"%s: %s\n%s: %s\n%s: %s\n%s: %s\n%s: %s\n%s: %s\n%s: %s\n%s: %s\n",
		termsTypeKey, terms.TermsType,
		basisDateCodeKey, terms.BasisDateCode,
		discountPercentageKey, terms.DiscountPercentage,
		discountDateKey, terms.DiscountDate,
		discountDueDaysKey, terms.DiscountDueDays,
		netDueDateKey, terms.NetDueDate,
		netDueDaysKey, terms.NetDueDays,
		termsDescriptionKey, terms.Description,
	)
	if fob != nil {
		blob += fmt.Sprintf(
			"%s: %s\n%s: %s\n%s: %s\n",
			fobPayCodeKey, fob.PayCode,
			fobLocationQualKey, fob.LocationQualifier,
			fobLocationDescKey, fob.LocationDescription,
		)
	}
	return blob
}

// ParsePaymentTerms reconstruye el mapa clave/valor desde el blob. Las líneas
// sin ':' se ignoran.
func ParsePaymentTerms(blob string) map[string]string {
	values := make(map[string]string)
	for _, line := range strings.Split(blob, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return values
}
