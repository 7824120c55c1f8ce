package gs1_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/edi-pro/pkg/gs1"
)

const testPrefix = "0628820"

// ──────────────────────────────────────────────────────────────────────────────
// TestGenerateSSCC valida el vector dorado del SSCC-18. Si alguien altera el
// relleno, el prefijo o la fórmula del dígito de control, este test falla antes
// de que un pallet mal etiquetado llegue al socio comercial.
//
// Vector calculado a mano:
//
//	"PALLET7" -> dígitos "7" -> serie "000000007"
//	base = "0" + "0628820" + "000000007" = "00628820000000007"
//	pares(×3): 0+6+8+2+0+0+0+0+7 = 23 → 69 ; impares: 0+2+8+0+0+0+0+0 = 10
//	(69+10) mod 10 = 9 → control = 1
//
// ──────────────────────────────────────────────────────────────────────────────
func TestGenerateSSCC(t *testing.T) {
	got := gs1.GenerateSSCC(testPrefix, "PALLET7")
	require.Equal(t, "00006288200000000071", got)
}

// TestGenerateSSCCSerieLarga verifica que un nombre con más de 9 dígitos
// conserva los últimos 9 y el serial se queda en 20 posiciones.
func TestGenerateSSCCSerieLarga(t *testing.T) {
	got := gs1.GenerateSSCC(testPrefix, "PACK00012345678901")
	require.Len(t, got, 20)
	assert.Equal(t, "345678901", got[10:19])
}

func TestGenerateSSCCDeterministic(t *testing.T) {
	first := gs1.GenerateSSCC(testPrefix, "PACK/0042")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, gs1.GenerateSSCC(testPrefix, "PACK/0042"))
	}
}

func TestGenerateSSCCCheckDigit(t *testing.T) {
	tests := []struct {
		name   string
		pallet string
	}{
		{"solo dígitos", "123456789"},
		{"mezcla alfanumérica", "PAL-33-B"},
		{"sin dígitos", "PALLET"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sscc := gs1.GenerateSSCC(testPrefix, tc.pallet)
			require.Len(t, sscc, 20) // "00" + 17 dígitos + control

			// Verificación independiente del módulo 10 sobre los 17 dígitos base.
			base := sscc[2 : len(sscc)-1]
			sum := 0
			for i, r := range base {
				d := int(r - '0')
				if i%2 == 0 {
					sum += d * 3
				} else {
					sum += d
				}
			}
			want := (10 - sum%10) % 10
			assert.Equal(t, byte('0'+want), sscc[len(sscc)-1])
		})
	}
}
