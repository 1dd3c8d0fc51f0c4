package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/pkg/normalize"
)

func TestKey(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"minúsculas", "cemento", "cemento"},
		{"mayúsculas", "CEMENTO", "cemento"},
		{"tildes", "Tornillería M8", "tornilleria m8"},
		{"tildes y mayúsculas", "CONECTOR RÁPIDO", "conector rapido"},
		{"espacios alrededor", "  cable utp  ", "cable utp"},
		{"espacios internos múltiples", "cable   utp   cat6", "cable utp cat6"},
		{"eñe pierde la virgulilla", "Señalización", "senalizacion"},
		{"vacío", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, normalize.Key(tc.input))
		})
	}
}

func TestKey_VariantesResuelvenIgual(t *testing.T) {
	assert.Equal(t, normalize.Key("Tornillería M8"), normalize.Key("tornilleria   m8"))
	assert.Equal(t, normalize.Key("Conector Rápido"), normalize.Key("  CONECTOR   RAPIDO "))
}

func TestPartNo(t *testing.T) {
	assert.Equal(t, "ax-1800", normalize.PartNo(" AX-1800 "))
	assert.Equal(t, normalize.PartNoNone, normalize.PartNo(""))
	assert.Equal(t, normalize.PartNoNone, normalize.PartNo("   "))
}
