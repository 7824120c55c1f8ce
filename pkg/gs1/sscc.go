// Package gs1 genera identificadores SSCC-18 (Serial Shipping Container Code)
// para los pallets del ASN 856. El SSCC identifica un pallet de forma única
// a lo largo del envío y se imprime en la etiqueta logística.
package gs1

import "strings"

// ExtensionDigit dígito de extensión fijo que antecede al prefijo GS1.
const ExtensionDigit = "0"

// GenerateSSCC construye el SSCC-18 a partir del nombre del pallet:
//
//	'00'            - Application Identifier
//	'0'             - Dígito de extensión
//	companyPrefix   - Prefijo de empresa GS1 (7 dígitos)
//	número de pallet - 9 dígitos (relleno con ceros a la izquierda)
//	dígito de control - 1 dígito
//
// Del nombre del pallet solo se toman los dígitos; "PALLET7" aporta "7".
// Con más de 9 dígitos se conservan los últimos 9, que siguen la secuencia
// del almacén; la alternativa sería emitir un serial de más de 18 posiciones
// que el socio rechaza. Determinista y sin efectos secundarios.
func GenerateSSCC(companyPrefix, pallet string) string {
	var digits strings.Builder
	for _, r := range pallet {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	serial := digits.String()
	if len(serial) > 9 {
		serial = serial[len(serial)-9:]
	}
	serial = strings.Repeat("0", 9-len(serial)) + serial

	base := ExtensionDigit + companyPrefix + serial
	return "00" + withCheckDigit(base)
}

// withCheckDigit agrega el dígito de control módulo 10: las posiciones pares
// (índice desde 0) pesan 3 y las impares 1.
func withCheckDigit(sscc string) string {
	odds, evens := 0, 0
	for i, r := range sscc {
		d := int(r - '0')
		if i%2 == 0 {
			odds += d
		} else {
			evens += d
		}
	}
	check := (10 - (odds*3+evens)%10) % 10
	return sscc + string(rune('0'+check))
}
